package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

type MovieSearchFilter struct {
	Query  string
	Genre  string
	Year   *int
	Limit  int
	Offset int
}

type MovieRepo interface {
	Create(ctx context.Context, tx *gorm.DB, movies []*types.Movie) ([]*types.Movie, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, movieIDs []uuid.UUID) ([]*types.Movie, error)
	GetByTmdbIDs(ctx context.Context, tx *gorm.DB, tmdbIDs []int64) ([]*types.Movie, error)
	Search(ctx context.Context, tx *gorm.DB, filter MovieSearchFilter) ([]*types.Movie, error)
	ListAllIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error)
	UpsertByTmdbID(ctx context.Context, tx *gorm.DB, movies []*types.Movie) ([]*types.Movie, error)
}

type movieRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMovieRepo(db *gorm.DB, baseLog *logger.Logger) MovieRepo {
	repoLog := baseLog.With("repo", "MovieRepo")
	return &movieRepo{db: db, log: repoLog}
}

func (mr *movieRepo) Create(ctx context.Context, tx *gorm.DB, movies []*types.Movie) ([]*types.Movie, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(movies) == 0 {
		return []*types.Movie{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&movies).Error; err != nil {
		return nil, err
	}
	return movies, nil
}

func (mr *movieRepo) GetByIDs(ctx context.Context, tx *gorm.DB, movieIDs []uuid.UUID) ([]*types.Movie, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.Movie
	if len(movieIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", movieIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *movieRepo) GetByTmdbIDs(ctx context.Context, tx *gorm.DB, tmdbIDs []int64) ([]*types.Movie, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.Movie
	if len(tmdbIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("tmdb_id IN ?", tmdbIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *movieRepo) Search(ctx context.Context, tx *gorm.DB, filter MovieSearchFilter) ([]*types.Movie, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	query := transaction.WithContext(ctx).Model(&types.Movie{})
	if filter.Query != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+filter.Query+"%")
	}
	if filter.Genre != "" {
		query = query.Where("genres @> ?", `["`+filter.Genre+`"]`)
	}
	if filter.Year != nil {
		query = query.Where("year = ?", *filter.Year)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	var results []*types.Movie
	if err := query.Order("title ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *movieRepo) ListAllIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.Movie{}).
		Order("created_at ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (mr *movieRepo) UpsertByTmdbID(ctx context.Context, tx *gorm.DB, movies []*types.Movie) ([]*types.Movie, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(movies) == 0 {
		return []*types.Movie{}, nil
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tmdb_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "synopsis", "year", "runtime", "director",
				"genres", "cast_members", "poster_url", "backdrop_url",
				"trailer_url", "rating", "updated_at",
			}),
		}).
		Create(&movies).Error; err != nil {
		return nil, err
	}
	return movies, nil
}
