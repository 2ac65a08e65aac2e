package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/normalization"
	"github.com/filmpulse/filmpulse-backend/internal/repos"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

type SocialService interface {
	FollowUser(ctx context.Context, followerID, followingID uuid.UUID) error
	UnfollowUser(ctx context.Context, followerID, followingID uuid.UUID) error
	ListFollowers(ctx context.Context, userID uuid.UUID) ([]*types.User, error)
	ListFollowing(ctx context.Context, userID uuid.UUID) ([]*types.User, error)

	LikeGraph(ctx context.Context, userID, graphID uuid.UUID) error
	UnlikeGraph(ctx context.Context, userID, graphID uuid.UUID) error
	LikeReview(ctx context.Context, userID, reviewID uuid.UUID) error
	UnlikeReview(ctx context.Context, userID, reviewID uuid.UUID) error

	CommentOnGraph(ctx context.Context, userID, graphID uuid.UUID, content string) (*types.Comment, error)
	CommentOnReview(ctx context.Context, userID, reviewID uuid.UUID, content string) (*types.Comment, error)
	ListGraphComments(ctx context.Context, graphID uuid.UUID) ([]*types.Comment, error)
	ListReviewComments(ctx context.Context, reviewID uuid.UUID) ([]*types.Comment, error)
}

type socialService struct {
	db                  *gorm.DB
	log                 *logger.Logger
	userRepo            repos.UserRepo
	followerRepo        repos.FollowerRepo
	likeRepo            repos.LikeRepo
	commentRepo         repos.CommentRepo
	graphRepo           repos.EmotionGraphRepo
	reviewRepo          repos.ManualReviewRepo
	notificationService NotificationService
}

func NewSocialService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	followerRepo repos.FollowerRepo,
	likeRepo repos.LikeRepo,
	commentRepo repos.CommentRepo,
	graphRepo repos.EmotionGraphRepo,
	reviewRepo repos.ManualReviewRepo,
	notificationService NotificationService,
) SocialService {
	serviceLog := log.With("service", "SocialService")
	return &socialService{
		db:                  db,
		log:                 serviceLog,
		userRepo:            userRepo,
		followerRepo:        followerRepo,
		likeRepo:            likeRepo,
		commentRepo:         commentRepo,
		graphRepo:           graphRepo,
		reviewRepo:          reviewRepo,
		notificationService: notificationService,
	}
}

// -------------------- Follows --------------------

func (ss *socialService) FollowUser(ctx context.Context, followerID, followingID uuid.UUID) error {
	if followerID == followingID {
		return fmt.Errorf("Cannot follow yourself")
	}
	targets, err := ss.userRepo.GetByIDs(ctx, nil, []uuid.UUID{followingID})
	if err != nil {
		return fmt.Errorf("Failed to load user: %w", err)
	}
	if len(targets) == 0 {
		return fmt.Errorf("User not found")
	}
	exists, eErr := ss.followerRepo.Exists(ctx, nil, followerID, followingID)
	if eErr != nil {
		return fmt.Errorf("Failed to check follow: %w", eErr)
	}
	if exists {
		return fmt.Errorf("Already following")
	}

	followers, fErr := ss.userRepo.GetByIDs(ctx, nil, []uuid.UUID{followerID})
	if fErr != nil || len(followers) == 0 {
		return fmt.Errorf("Failed to load follower")
	}
	follower := followers[0]

	return ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		follow := &types.Follower{ID: uuid.New(), FollowerID: followerID, FollowingID: followingID}
		if _, cErr := ss.followerRepo.Create(ctx, tx, []*types.Follower{follow}); cErr != nil {
			return fmt.Errorf("Failed to create follow: %w", cErr)
		}
		notification := &types.Notification{
			UserID:  followingID,
			Type:    types.NotificationFollow,
			Title:   "New follower",
			Message: fmt.Sprintf("%s started following you.", follower.DisplayName),
			LinkURL: fmt.Sprintf("/users/%s", followerID),
		}
		return ss.notificationService.Notify(ctx, tx, notification)
	})
}

func (ss *socialService) UnfollowUser(ctx context.Context, followerID, followingID uuid.UUID) error {
	return ss.followerRepo.DeletePair(ctx, nil, followerID, followingID)
}

func (ss *socialService) ListFollowers(ctx context.Context, userID uuid.UUID) ([]*types.User, error) {
	follows, err := ss.followerRepo.ListFollowers(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.FollowerID)
	}
	return ss.userRepo.GetByIDs(ctx, nil, ids)
}

func (ss *socialService) ListFollowing(ctx context.Context, userID uuid.UUID) ([]*types.User, error) {
	follows, err := ss.followerRepo.ListFollowing(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.FollowingID)
	}
	return ss.userRepo.GetByIDs(ctx, nil, ids)
}

// -------------------- Likes --------------------

func (ss *socialService) LikeGraph(ctx context.Context, userID, graphID uuid.UUID) error {
	graphs, err := ss.graphRepo.GetByIDs(ctx, nil, []uuid.UUID{graphID})
	if err != nil {
		return fmt.Errorf("Failed to load graph: %w", err)
	}
	if len(graphs) == 0 {
		return fmt.Errorf("Graph not found")
	}
	graph := graphs[0]

	exists, eErr := ss.likeRepo.ExistsForGraph(ctx, nil, userID, graphID)
	if eErr != nil {
		return fmt.Errorf("Failed to check like: %w", eErr)
	}
	if exists {
		return fmt.Errorf("Already liked")
	}

	return ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := &types.Like{ID: uuid.New(), UserID: userID, GraphID: &graphID}
		if _, cErr := ss.likeRepo.Create(ctx, tx, []*types.Like{like}); cErr != nil {
			return fmt.Errorf("Failed to create like: %w", cErr)
		}
		if graph.UserID == nil || *graph.UserID == userID {
			return nil
		}
		notification := &types.Notification{
			UserID:  *graph.UserID,
			Type:    types.NotificationLike,
			Title:   "New like",
			Message: "Someone liked your emotion graph.",
			LinkURL: fmt.Sprintf("/movies/%s", graph.MovieID),
		}
		return ss.notificationService.Notify(ctx, tx, notification)
	})
}

func (ss *socialService) UnlikeGraph(ctx context.Context, userID, graphID uuid.UUID) error {
	return ss.likeRepo.DeleteForGraph(ctx, nil, userID, graphID)
}

func (ss *socialService) LikeReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	reviews, err := ss.reviewRepo.GetByIDs(ctx, nil, []uuid.UUID{reviewID})
	if err != nil {
		return fmt.Errorf("Failed to load review: %w", err)
	}
	if len(reviews) == 0 {
		return fmt.Errorf("Review not found")
	}
	review := reviews[0]

	exists, eErr := ss.likeRepo.ExistsForReview(ctx, nil, userID, reviewID)
	if eErr != nil {
		return fmt.Errorf("Failed to check like: %w", eErr)
	}
	if exists {
		return fmt.Errorf("Already liked")
	}

	return ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := &types.Like{ID: uuid.New(), UserID: userID, ReviewID: &reviewID}
		if _, cErr := ss.likeRepo.Create(ctx, tx, []*types.Like{like}); cErr != nil {
			return fmt.Errorf("Failed to create like: %w", cErr)
		}
		if review.UserID == userID {
			return nil
		}
		notification := &types.Notification{
			UserID:  review.UserID,
			Type:    types.NotificationLike,
			Title:   "New like",
			Message: "Someone liked your review.",
			LinkURL: fmt.Sprintf("/movies/%s", review.MovieID),
		}
		return ss.notificationService.Notify(ctx, tx, notification)
	})
}

func (ss *socialService) UnlikeReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	return ss.likeRepo.DeleteForReview(ctx, nil, userID, reviewID)
}

// -------------------- Comments --------------------

func (ss *socialService) CommentOnGraph(ctx context.Context, userID, graphID uuid.UUID, content string) (*types.Comment, error) {
	content = normalization.TrimInputString(content)
	if content == "" {
		return nil, fmt.Errorf("Comment content required")
	}
	graphs, err := ss.graphRepo.GetByIDs(ctx, nil, []uuid.UUID{graphID})
	if err != nil {
		return nil, fmt.Errorf("Failed to load graph: %w", err)
	}
	if len(graphs) == 0 {
		return nil, fmt.Errorf("Graph not found")
	}
	graph := graphs[0]

	comment := &types.Comment{
		ID:      uuid.New(),
		UserID:  userID,
		Content: content,
		GraphID: &graphID,
	}
	err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, cErr := ss.commentRepo.Create(ctx, tx, []*types.Comment{comment}); cErr != nil {
			return fmt.Errorf("Failed to create comment: %w", cErr)
		}
		if graph.UserID == nil || *graph.UserID == userID {
			return nil
		}
		notification := &types.Notification{
			UserID:  *graph.UserID,
			Type:    types.NotificationComment,
			Title:   "New comment",
			Message: "Someone commented on your emotion graph.",
			LinkURL: fmt.Sprintf("/movies/%s", graph.MovieID),
		}
		return ss.notificationService.Notify(ctx, tx, notification)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (ss *socialService) CommentOnReview(ctx context.Context, userID, reviewID uuid.UUID, content string) (*types.Comment, error) {
	content = normalization.TrimInputString(content)
	if content == "" {
		return nil, fmt.Errorf("Comment content required")
	}
	reviews, err := ss.reviewRepo.GetByIDs(ctx, nil, []uuid.UUID{reviewID})
	if err != nil {
		return nil, fmt.Errorf("Failed to load review: %w", err)
	}
	if len(reviews) == 0 {
		return nil, fmt.Errorf("Review not found")
	}
	review := reviews[0]

	comment := &types.Comment{
		ID:       uuid.New(),
		UserID:   userID,
		Content:  content,
		ReviewID: &reviewID,
	}
	err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, cErr := ss.commentRepo.Create(ctx, tx, []*types.Comment{comment}); cErr != nil {
			return fmt.Errorf("Failed to create comment: %w", cErr)
		}
		if review.UserID == userID {
			return nil
		}
		notification := &types.Notification{
			UserID:  review.UserID,
			Type:    types.NotificationComment,
			Title:   "New comment",
			Message: "Someone commented on your review.",
			LinkURL: fmt.Sprintf("/movies/%s", review.MovieID),
		}
		return ss.notificationService.Notify(ctx, tx, notification)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (ss *socialService) ListGraphComments(ctx context.Context, graphID uuid.UUID) ([]*types.Comment, error) {
	return ss.commentRepo.ListForGraph(ctx, nil, graphID)
}

func (ss *socialService) ListReviewComments(ctx context.Context, reviewID uuid.UUID) ([]*types.Comment, error) {
	return ss.commentRepo.ListForReview(ctx, nil, reviewID)
}
