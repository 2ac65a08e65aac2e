package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/timeline"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

type EmotionGraphRepo interface {
	Create(ctx context.Context, tx *gorm.DB, graphs []*types.EmotionGraph) ([]*types.EmotionGraph, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, graphIDs []uuid.UUID) ([]*types.EmotionGraph, error)
	ListByMovie(ctx context.Context, tx *gorm.DB, movieID uuid.UUID, publicOnly bool) ([]*types.EmotionGraph, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.EmotionGraph, error)
	ListEligibleForAggregation(ctx context.Context, tx *gorm.DB, movieID uuid.UUID) ([]*types.EmotionGraph, error)
	GetConsensusByMovieID(ctx context.Context, tx *gorm.DB, movieID uuid.UUID) (*types.EmotionGraph, error)
	UpdateGraphData(ctx context.Context, tx *gorm.DB, graphID uuid.UUID, graphData datatypes.JSON) error
	UpdateModerationStatus(ctx context.Context, tx *gorm.DB, graphID uuid.UUID, status types.ModerationStatus) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, graphIDs []uuid.UUID) error
}

type emotionGraphRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmotionGraphRepo(db *gorm.DB, baseLog *logger.Logger) EmotionGraphRepo {
	repoLog := baseLog.With("repo", "EmotionGraphRepo")
	return &emotionGraphRepo{db: db, log: repoLog}
}

func (gr *emotionGraphRepo) Create(ctx context.Context, tx *gorm.DB, graphs []*types.EmotionGraph) ([]*types.EmotionGraph, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	if len(graphs) == 0 {
		return []*types.EmotionGraph{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&graphs).Error; err != nil {
		return nil, err
	}
	return graphs, nil
}

func (gr *emotionGraphRepo) GetByIDs(ctx context.Context, tx *gorm.DB, graphIDs []uuid.UUID) ([]*types.EmotionGraph, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	var results []*types.EmotionGraph
	if len(graphIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", graphIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (gr *emotionGraphRepo) ListByMovie(ctx context.Context, tx *gorm.DB, movieID uuid.UUID, publicOnly bool) ([]*types.EmotionGraph, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	query := transaction.WithContext(ctx).Where("movie_id = ?", movieID)
	if publicOnly {
		query = query.Where("is_public = TRUE AND moderation_status = ?", types.ModerationApproved)
	}
	var results []*types.EmotionGraph
	if err := query.Order("created_at ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (gr *emotionGraphRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.EmotionGraph, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	var results []*types.EmotionGraph
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListEligibleForAggregation returns the public, approved input graphs for a
// movie. Consensus rows are excluded by source type.
func (gr *emotionGraphRepo) ListEligibleForAggregation(ctx context.Context, tx *gorm.DB, movieID uuid.UUID) ([]*types.EmotionGraph, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	var results []*types.EmotionGraph
	if err := transaction.WithContext(ctx).
		Where("movie_id = ? AND source_type IN ? AND is_public = TRUE AND moderation_status = ?",
			movieID, timeline.AggregationInputSources, types.ModerationApproved).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetConsensusByMovieID returns nil without error when no consensus row
// exists yet.
func (gr *emotionGraphRepo) GetConsensusByMovieID(ctx context.Context, tx *gorm.DB, movieID uuid.UUID) (*types.EmotionGraph, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	var result types.EmotionGraph
	err := transaction.WithContext(ctx).
		Where("movie_id = ? AND source_type = ?", movieID, timeline.SourceConsensus).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (gr *emotionGraphRepo) UpdateGraphData(ctx context.Context, tx *gorm.DB, graphID uuid.UUID, graphData datatypes.JSON) error {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.EmotionGraph{}).
		Where("id = ?", graphID).
		Updates(map[string]interface{}{"graph_data": graphData, "updated_at": gorm.Expr("now()")}).Error
}

func (gr *emotionGraphRepo) UpdateModerationStatus(ctx context.Context, tx *gorm.DB, graphID uuid.UUID, status types.ModerationStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.EmotionGraph{}).
		Where("id = ?", graphID).
		Updates(map[string]interface{}{"moderation_status": status, "updated_at": gorm.Expr("now()")}).Error
}

func (gr *emotionGraphRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, graphIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	if len(graphIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", graphIDs).
		Delete(&types.EmotionGraph{}).Error
}
