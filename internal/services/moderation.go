package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/repos"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

type ModerationService interface {
	ModerateGraph(ctx context.Context, graphID uuid.UUID, status types.ModerationStatus) error
	ModerateReview(ctx context.Context, reviewID uuid.UUID, status types.ModerationStatus) error
	ModerateComment(ctx context.Context, commentID uuid.UUID, status types.ModerationStatus) error
}

type moderationService struct {
	db                  *gorm.DB
	log                 *logger.Logger
	graphRepo           repos.EmotionGraphRepo
	reviewRepo          repos.ManualReviewRepo
	commentRepo         repos.CommentRepo
	notificationService NotificationService
}

func NewModerationService(
	db *gorm.DB,
	log *logger.Logger,
	graphRepo repos.EmotionGraphRepo,
	reviewRepo repos.ManualReviewRepo,
	commentRepo repos.CommentRepo,
	notificationService NotificationService,
) ModerationService {
	serviceLog := log.With("service", "ModerationService")
	return &moderationService{
		db:                  db,
		log:                 serviceLog,
		graphRepo:           graphRepo,
		reviewRepo:          reviewRepo,
		commentRepo:         commentRepo,
		notificationService: notificationService,
	}
}

func (ms *moderationService) ModerateGraph(ctx context.Context, graphID uuid.UUID, status types.ModerationStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid moderation status: %s", status)
	}
	graphs, err := ms.graphRepo.GetByIDs(ctx, nil, []uuid.UUID{graphID})
	if err != nil {
		return fmt.Errorf("Failed to load graph: %w", err)
	}
	if len(graphs) == 0 {
		return fmt.Errorf("Graph not found")
	}
	graph := graphs[0]

	return ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if uErr := ms.graphRepo.UpdateModerationStatus(ctx, tx, graphID, status); uErr != nil {
			return fmt.Errorf("Failed to update graph moderation status: %w", uErr)
		}
		if graph.UserID == nil {
			return nil
		}
		notification := &types.Notification{
			UserID:  *graph.UserID,
			Type:    types.NotificationModeration,
			Title:   "Emotion graph reviewed",
			Message: fmt.Sprintf("Your emotion graph was %s.", status),
			LinkURL: fmt.Sprintf("/movies/%s", graph.MovieID),
		}
		return ms.notificationService.Notify(ctx, tx, notification)
	})
}

func (ms *moderationService) ModerateReview(ctx context.Context, reviewID uuid.UUID, status types.ModerationStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid moderation status: %s", status)
	}
	reviews, err := ms.reviewRepo.GetByIDs(ctx, nil, []uuid.UUID{reviewID})
	if err != nil {
		return fmt.Errorf("Failed to load review: %w", err)
	}
	if len(reviews) == 0 {
		return fmt.Errorf("Review not found")
	}
	review := reviews[0]

	return ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if uErr := ms.reviewRepo.UpdateModerationStatus(ctx, tx, reviewID, status); uErr != nil {
			return fmt.Errorf("Failed to update review moderation status: %w", uErr)
		}
		// The review's expanded graph follows the review's fate.
		if review.GraphID != nil {
			if uErr := ms.graphRepo.UpdateModerationStatus(ctx, tx, *review.GraphID, status); uErr != nil {
				return fmt.Errorf("Failed to update review graph moderation status: %w", uErr)
			}
		}
		notification := &types.Notification{
			UserID:  review.UserID,
			Type:    types.NotificationModeration,
			Title:   "Review reviewed",
			Message: fmt.Sprintf("Your review was %s.", status),
			LinkURL: fmt.Sprintf("/movies/%s", review.MovieID),
		}
		return ms.notificationService.Notify(ctx, tx, notification)
	})
}

func (ms *moderationService) ModerateComment(ctx context.Context, commentID uuid.UUID, status types.ModerationStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid moderation status: %s", status)
	}
	comments, err := ms.commentRepo.GetByIDs(ctx, nil, []uuid.UUID{commentID})
	if err != nil {
		return fmt.Errorf("Failed to load comment: %w", err)
	}
	if len(comments) == 0 {
		return fmt.Errorf("Comment not found")
	}
	comment := comments[0]

	return ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if uErr := ms.commentRepo.UpdateModerationStatus(ctx, tx, commentID, status); uErr != nil {
			return fmt.Errorf("Failed to update comment moderation status: %w", uErr)
		}
		notification := &types.Notification{
			UserID:  comment.UserID,
			Type:    types.NotificationModeration,
			Title:   "Comment reviewed",
			Message: fmt.Sprintf("Your comment was %s.", status),
		}
		return ms.notificationService.Notify(ctx, tx, notification)
	})
}
