package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/normalization"
	"github.com/filmpulse/filmpulse-backend/internal/repos"
	"github.com/filmpulse/filmpulse-backend/internal/requestdata"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateProfile(ctx context.Context, displayName, bio string) (*types.User, error)
	UpdateAvatarFromImage(ctx context.Context, raw []byte) (*types.User, error)
}

type userService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	avatarService AvatarService
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, avatarService AvatarService) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		avatarService: avatarService,
	}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("No request data found in context")
	}
	return us.GetUser(ctx, rd.UserID)
}

func (us *userService) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("Failed to load user: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("User not found")
	}
	return users[0], nil
}

func (us *userService) UpdateProfile(ctx context.Context, displayName, bio string) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("No request data found in context")
	}

	displayName = normalization.TrimInputString(displayName)
	bio = normalization.TrimInputString(bio)
	if displayName == "" {
		return nil, fmt.Errorf("Display name cannot be empty")
	}

	if err := us.userRepo.UpdateProfile(ctx, nil, rd.UserID, displayName, bio); err != nil {
		return nil, fmt.Errorf("Failed to update profile: %w", err)
	}
	return us.GetUser(ctx, rd.UserID)
}

func (us *userService) UpdateAvatarFromImage(ctx context.Context, raw []byte) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("No request data found in context")
	}
	user, err := us.GetUser(ctx, rd.UserID)
	if err != nil {
		return nil, err
	}

	err = us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if aErr := us.avatarService.CreateAndUploadUserAvatarFromImage(ctx, tx, user, raw); aErr != nil {
			return aErr
		}
		return us.userRepo.UpdateAvatarFields(ctx, tx, user.ID, user.AvatarBucketKey, user.AvatarURL)
	})
	if err != nil {
		return nil, fmt.Errorf("Failed to update avatar: %w", err)
	}
	return user, nil
}
