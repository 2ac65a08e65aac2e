package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

type LikeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, likes []*types.Like) ([]*types.Like, error)
	DeleteForGraph(ctx context.Context, tx *gorm.DB, userID, graphID uuid.UUID) error
	DeleteForReview(ctx context.Context, tx *gorm.DB, userID, reviewID uuid.UUID) error
	ExistsForGraph(ctx context.Context, tx *gorm.DB, userID, graphID uuid.UUID) (bool, error)
	ExistsForReview(ctx context.Context, tx *gorm.DB, userID, reviewID uuid.UUID) (bool, error)
	CountForGraph(ctx context.Context, tx *gorm.DB, graphID uuid.UUID) (int64, error)
	CountForReview(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID) (int64, error)
}

type likeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLikeRepo(db *gorm.DB, baseLog *logger.Logger) LikeRepo {
	repoLog := baseLog.With("repo", "LikeRepo")
	return &likeRepo{db: db, log: repoLog}
}

func (lr *likeRepo) Create(ctx context.Context, tx *gorm.DB, likes []*types.Like) ([]*types.Like, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	if len(likes) == 0 {
		return []*types.Like{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&likes).Error; err != nil {
		return nil, err
	}
	return likes, nil
}

func (lr *likeRepo) DeleteForGraph(ctx context.Context, tx *gorm.DB, userID, graphID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	return transaction.WithContext(ctx).
		Where("user_id = ? AND graph_id = ?", userID, graphID).
		Delete(&types.Like{}).Error
}

func (lr *likeRepo) DeleteForReview(ctx context.Context, tx *gorm.DB, userID, reviewID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	return transaction.WithContext(ctx).
		Where("user_id = ? AND review_id = ?", userID, reviewID).
		Delete(&types.Like{}).Error
}

func (lr *likeRepo) ExistsForGraph(ctx context.Context, tx *gorm.DB, userID, graphID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Like{}).
		Where("user_id = ? AND graph_id = ?", userID, graphID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (lr *likeRepo) ExistsForReview(ctx context.Context, tx *gorm.DB, userID, reviewID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Like{}).
		Where("user_id = ? AND review_id = ?", userID, reviewID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (lr *likeRepo) CountForGraph(ctx context.Context, tx *gorm.DB, graphID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Like{}).
		Where("graph_id = ?", graphID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (lr *likeRepo) CountForReview(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Like{}).
		Where("review_id = ?", reviewID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
