package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

type FollowerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, follows []*types.Follower) ([]*types.Follower, error)
	Exists(ctx context.Context, tx *gorm.DB, followerID, followingID uuid.UUID) (bool, error)
	DeletePair(ctx context.Context, tx *gorm.DB, followerID, followingID uuid.UUID) error
	ListFollowers(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Follower, error)
	ListFollowing(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Follower, error)
}

type followerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFollowerRepo(db *gorm.DB, baseLog *logger.Logger) FollowerRepo {
	repoLog := baseLog.With("repo", "FollowerRepo")
	return &followerRepo{db: db, log: repoLog}
}

func (fr *followerRepo) Create(ctx context.Context, tx *gorm.DB, follows []*types.Follower) ([]*types.Follower, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if len(follows) == 0 {
		return []*types.Follower{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&follows).Error; err != nil {
		return nil, err
	}
	return follows, nil
}

func (fr *followerRepo) Exists(ctx context.Context, tx *gorm.DB, followerID, followingID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Follower{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (fr *followerRepo) DeletePair(ctx context.Context, tx *gorm.DB, followerID, followingID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	return transaction.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&types.Follower{}).Error
}

func (fr *followerRepo) ListFollowers(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Follower, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var results []*types.Follower
	if err := transaction.WithContext(ctx).
		Where("following_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (fr *followerRepo) ListFollowing(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Follower, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var results []*types.Follower
	if err := transaction.WithContext(ctx).
		Where("follower_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
