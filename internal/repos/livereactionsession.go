package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

type LiveReactionSessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sessions []*types.LiveReactionSession) ([]*types.LiveReactionSession, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.LiveReactionSession, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.LiveReactionSession, error)
	MarkCompleted(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, sessionData datatypes.JSON, graphID uuid.UUID) error
}

type liveReactionSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLiveReactionSessionRepo(db *gorm.DB, baseLog *logger.Logger) LiveReactionSessionRepo {
	repoLog := baseLog.With("repo", "LiveReactionSessionRepo")
	return &liveReactionSessionRepo{db: db, log: repoLog}
}

func (sr *liveReactionSessionRepo) Create(ctx context.Context, tx *gorm.DB, sessions []*types.LiveReactionSession) ([]*types.LiveReactionSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(sessions) == 0 {
		return []*types.LiveReactionSession{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (sr *liveReactionSessionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.LiveReactionSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.LiveReactionSession
	if len(sessionIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", sessionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *liveReactionSessionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.LiveReactionSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.LiveReactionSession
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *liveReactionSessionRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, sessionData datatypes.JSON, graphID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	now := time.Now()
	result := transaction.WithContext(ctx).
		Model(&types.LiveReactionSession{}).
		Where("id = ? AND is_completed = FALSE", sessionID).
		Updates(map[string]interface{}{
			"is_completed": true,
			"completed_at": &now,
			"session_data": sessionData,
			"graph_id":     graphID,
		})
	if result.Error != nil {
		return result.Error
	}
	// Exactly one writer may complete a session; a concurrent finish already
	// claimed this row.
	if result.RowsAffected == 0 {
		return fmt.Errorf("session %s already completed", sessionID)
	}
	return nil
}
