package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/normalization"
	"github.com/filmpulse/filmpulse-backend/internal/repos"
	"github.com/filmpulse/filmpulse-backend/internal/timeline"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

// ErrMovieNotFound marks lookups of movie IDs with no row behind them, so
// handlers can answer 404 instead of treating them as storage failures.
var ErrMovieNotFound = errors.New("Movie not found")

// MovieDetail bundles everything a movie page needs in one response.
type MovieDetail struct {
	Movie           *types.Movie          `json:"movie"`
	ConsensusPoints []timeline.Point      `json:"consensus_points"`
	PublicGraphs    []*types.EmotionGraph `json:"public_graphs"`
	Reviews         []*types.ManualReview `json:"reviews"`
}

type MovieService interface {
	GetMovieDetail(ctx context.Context, movieID uuid.UUID) (*MovieDetail, error)
	SearchMovies(ctx context.Context, filter repos.MovieSearchFilter) ([]*types.Movie, error)
}

type movieService struct {
	db         *gorm.DB
	log        *logger.Logger
	movieRepo  repos.MovieRepo
	graphRepo  repos.EmotionGraphRepo
	reviewRepo repos.ManualReviewRepo
}

func NewMovieService(
	db *gorm.DB,
	log *logger.Logger,
	movieRepo repos.MovieRepo,
	graphRepo repos.EmotionGraphRepo,
	reviewRepo repos.ManualReviewRepo,
) MovieService {
	serviceLog := log.With("service", "MovieService")
	return &movieService{
		db:         db,
		log:        serviceLog,
		movieRepo:  movieRepo,
		graphRepo:  graphRepo,
		reviewRepo: reviewRepo,
	}
}

func (ms *movieService) GetMovieDetail(ctx context.Context, movieID uuid.UUID) (*MovieDetail, error) {
	movies, err := ms.movieRepo.GetByIDs(ctx, nil, []uuid.UUID{movieID})
	if err != nil {
		return nil, fmt.Errorf("Failed to load movie: %w", err)
	}
	if len(movies) == 0 {
		return nil, ErrMovieNotFound
	}

	detail := &MovieDetail{Movie: movies[0]}

	consensus, cErr := ms.graphRepo.GetConsensusByMovieID(ctx, nil, movieID)
	if cErr != nil {
		return nil, fmt.Errorf("Failed to load consensus graph: %w", cErr)
	}
	if consensus != nil {
		points, pErr := consensus.Points()
		if pErr != nil {
			ms.log.Warn("Consensus graph has invalid graph_data", "graphID", consensus.ID, "error", pErr)
		} else {
			detail.ConsensusPoints = points
		}
	}

	graphs, gErr := ms.graphRepo.ListByMovie(ctx, nil, movieID, true)
	if gErr != nil {
		return nil, fmt.Errorf("Failed to list public graphs: %w", gErr)
	}
	detail.PublicGraphs = graphs

	reviews, rErr := ms.reviewRepo.ListByMovie(ctx, nil, movieID, true)
	if rErr != nil {
		return nil, fmt.Errorf("Failed to list reviews: %w", rErr)
	}
	detail.Reviews = reviews

	return detail, nil
}

func (ms *movieService) SearchMovies(ctx context.Context, filter repos.MovieSearchFilter) ([]*types.Movie, error) {
	filter.Query = normalization.ParseInputString(filter.Query)
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return ms.movieRepo.Search(ctx, nil, filter)
}
