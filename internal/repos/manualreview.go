package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

type ManualReviewRepo interface {
	Create(ctx context.Context, tx *gorm.DB, reviews []*types.ManualReview) ([]*types.ManualReview, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, reviewIDs []uuid.UUID) ([]*types.ManualReview, error)
	ListByMovie(ctx context.Context, tx *gorm.DB, movieID uuid.UUID, publicOnly bool) ([]*types.ManualReview, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ManualReview, error)
	SetGraphID(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, graphID uuid.UUID) error
	UpdateModerationStatus(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, status types.ModerationStatus) error
}

type manualReviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewManualReviewRepo(db *gorm.DB, baseLog *logger.Logger) ManualReviewRepo {
	repoLog := baseLog.With("repo", "ManualReviewRepo")
	return &manualReviewRepo{db: db, log: repoLog}
}

func (rr *manualReviewRepo) Create(ctx context.Context, tx *gorm.DB, reviews []*types.ManualReview) ([]*types.ManualReview, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(reviews) == 0 {
		return []*types.ManualReview{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (rr *manualReviewRepo) GetByIDs(ctx context.Context, tx *gorm.DB, reviewIDs []uuid.UUID) ([]*types.ManualReview, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.ManualReview
	if len(reviewIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", reviewIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *manualReviewRepo) ListByMovie(ctx context.Context, tx *gorm.DB, movieID uuid.UUID, publicOnly bool) ([]*types.ManualReview, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	query := transaction.WithContext(ctx).Where("movie_id = ?", movieID)
	if publicOnly {
		query = query.Where("is_public = TRUE AND moderation_status = ?", types.ModerationApproved)
	}
	var results []*types.ManualReview
	if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *manualReviewRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ManualReview, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.ManualReview
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *manualReviewRepo) SetGraphID(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, graphID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.ManualReview{}).
		Where("id = ?", reviewID).
		Updates(map[string]interface{}{"graph_id": graphID, "updated_at": gorm.Expr("now()")}).Error
}

func (rr *manualReviewRepo) UpdateModerationStatus(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, status types.ModerationStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.ManualReview{}).
		Where("id = ?", reviewID).
		Updates(map[string]interface{}{"moderation_status": status, "updated_at": gorm.Expr("now()")}).Error
}
