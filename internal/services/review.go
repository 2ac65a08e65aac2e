package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/normalization"
	"github.com/filmpulse/filmpulse-backend/internal/repos"
	"github.com/filmpulse/filmpulse-backend/internal/timeline"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

type ReviewService interface {
	// SubmitReview stores the review and, in the same transaction, expands
	// its section ratings into a manual_review emotion graph.
	SubmitReview(ctx context.Context, userID, movieID uuid.UUID, ratings timeline.SectionRatings, reviewText string, isPublic bool) (*types.ManualReview, error)
	// RegenerateGraph re-expands an existing review's section ratings. It is
	// a pure function of the stored ratings, so rerunning it after a partial
	// failure converges on the same graph.
	RegenerateGraph(ctx context.Context, reviewID uuid.UUID) (*types.EmotionGraph, error)
	ListMovieReviews(ctx context.Context, movieID uuid.UUID) ([]*types.ManualReview, error)
	ListUserReviews(ctx context.Context, userID uuid.UUID) ([]*types.ManualReview, error)
}

type reviewService struct {
	db         *gorm.DB
	log        *logger.Logger
	reviewRepo repos.ManualReviewRepo
	graphRepo  repos.EmotionGraphRepo
}

func NewReviewService(
	db *gorm.DB,
	log *logger.Logger,
	reviewRepo repos.ManualReviewRepo,
	graphRepo repos.EmotionGraphRepo,
) ReviewService {
	serviceLog := log.With("service", "ReviewService")
	return &reviewService{
		db:         db,
		log:        serviceLog,
		reviewRepo: reviewRepo,
		graphRepo:  graphRepo,
	}
}

func (rs *reviewService) SubmitReview(ctx context.Context, userID, movieID uuid.UUID, ratings timeline.SectionRatings, reviewText string, isPublic bool) (*types.ManualReview, error) {
	points, err := timeline.ExpandSectionRatings(ratings)
	if err != nil {
		return nil, err
	}

	review := &types.ManualReview{
		ID:            uuid.New(),
		MovieID:       movieID,
		UserID:        userID,
		OverallRating: ratings.OverallRating(),
		ReviewText:    normalization.TrimInputString(reviewText),
		IsPublic:      isPublic,
	}
	if sErr := review.SetRatings(ratings); sErr != nil {
		return nil, sErr
	}

	err = rs.runInTransaction(ctx, func(tx *gorm.DB) error {
		if _, cErr := rs.reviewRepo.Create(ctx, tx, []*types.ManualReview{review}); cErr != nil {
			return fmt.Errorf("Failed to create manual review: %w", cErr)
		}

		graph := &types.EmotionGraph{
			ID:         uuid.New(),
			MovieID:    movieID,
			UserID:     &userID,
			SourceType: timeline.SourceManualReview,
			IsPublic:   isPublic,
		}
		if sErr := graph.SetPoints(points); sErr != nil {
			return fmt.Errorf("Failed to serialize expanded points: %w", sErr)
		}
		if _, cErr := rs.graphRepo.Create(ctx, tx, []*types.EmotionGraph{graph}); cErr != nil {
			return fmt.Errorf("Failed to create emotion graph: %w", cErr)
		}

		if uErr := rs.reviewRepo.SetGraphID(ctx, tx, review.ID, graph.ID); uErr != nil {
			return fmt.Errorf("Failed to link review to graph: %w", uErr)
		}
		review.GraphID = &graph.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (rs *reviewService) RegenerateGraph(ctx context.Context, reviewID uuid.UUID) (*types.EmotionGraph, error) {
	reviews, err := rs.reviewRepo.GetByIDs(ctx, nil, []uuid.UUID{reviewID})
	if err != nil {
		return nil, fmt.Errorf("Failed to load review: %w", err)
	}
	if len(reviews) == 0 {
		return nil, fmt.Errorf("Review not found")
	}
	review := reviews[0]

	ratings, rErr := review.Ratings()
	if rErr != nil {
		return nil, rErr
	}
	points, eErr := timeline.ExpandSectionRatings(ratings)
	if eErr != nil {
		return nil, eErr
	}

	var graph *types.EmotionGraph
	err = rs.runInTransaction(ctx, func(tx *gorm.DB) error {
		if review.GraphID != nil {
			existing, gErr := rs.graphRepo.GetByIDs(ctx, tx, []uuid.UUID{*review.GraphID})
			if gErr != nil {
				return fmt.Errorf("Failed to load review graph: %w", gErr)
			}
			if len(existing) > 0 {
				g := existing[0]
				if sErr := g.SetPoints(points); sErr != nil {
					return fmt.Errorf("Failed to serialize expanded points: %w", sErr)
				}
				if uErr := rs.graphRepo.UpdateGraphData(ctx, tx, g.ID, g.GraphData); uErr != nil {
					return fmt.Errorf("Failed to update review graph: %w", uErr)
				}
				graph = g
				return nil
			}
		}

		g := &types.EmotionGraph{
			ID:         uuid.New(),
			MovieID:    review.MovieID,
			UserID:     &review.UserID,
			SourceType: timeline.SourceManualReview,
			IsPublic:   review.IsPublic,
		}
		if sErr := g.SetPoints(points); sErr != nil {
			return fmt.Errorf("Failed to serialize expanded points: %w", sErr)
		}
		if _, cErr := rs.graphRepo.Create(ctx, tx, []*types.EmotionGraph{g}); cErr != nil {
			return fmt.Errorf("Failed to create review graph: %w", cErr)
		}
		if uErr := rs.reviewRepo.SetGraphID(ctx, tx, review.ID, g.ID); uErr != nil {
			return fmt.Errorf("Failed to link review to graph: %w", uErr)
		}
		graph = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return graph, nil
}

// runInTransaction tolerates a nil handle; repos fall back to their own
// handle when tx is nil.
func (rs *reviewService) runInTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if rs.db == nil {
		return fn(nil)
	}
	return rs.db.WithContext(ctx).Transaction(fn)
}

func (rs *reviewService) ListMovieReviews(ctx context.Context, movieID uuid.UUID) ([]*types.ManualReview, error) {
	return rs.reviewRepo.ListByMovie(ctx, nil, movieID, true)
}

func (rs *reviewService) ListUserReviews(ctx context.Context, userID uuid.UUID) ([]*types.ManualReview, error) {
	return rs.reviewRepo.ListByUser(ctx, nil, userID)
}
