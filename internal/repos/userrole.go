package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

type UserRoleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, roles []*types.UserRole) ([]*types.UserRole, error)
	HasAnyRole(ctx context.Context, tx *gorm.DB, userID uuid.UUID, roles []types.AppRole) (bool, error)
}

type userRoleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRoleRepo(db *gorm.DB, baseLog *logger.Logger) UserRoleRepo {
	repoLog := baseLog.With("repo", "UserRoleRepo")
	return &userRoleRepo{db: db, log: repoLog}
}

func (rr *userRoleRepo) Create(ctx context.Context, tx *gorm.DB, roles []*types.UserRole) ([]*types.UserRole, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(roles) == 0 {
		return []*types.UserRole{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (rr *userRoleRepo) HasAnyRole(ctx context.Context, tx *gorm.DB, userID uuid.UUID, roles []types.AppRole) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(roles) == 0 {
		return false, nil
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.UserRole{}).
		Where("user_id = ? AND role IN ?", userID, roles).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
