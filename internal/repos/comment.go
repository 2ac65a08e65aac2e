package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

type CommentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, comments []*types.Comment) ([]*types.Comment, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, commentIDs []uuid.UUID) ([]*types.Comment, error)
	ListForGraph(ctx context.Context, tx *gorm.DB, graphID uuid.UUID) ([]*types.Comment, error)
	ListForReview(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID) ([]*types.Comment, error)
	UpdateModerationStatus(ctx context.Context, tx *gorm.DB, commentID uuid.UUID, status types.ModerationStatus) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, commentIDs []uuid.UUID) error
}

type commentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	repoLog := baseLog.With("repo", "CommentRepo")
	return &commentRepo{db: db, log: repoLog}
}

func (cr *commentRepo) Create(ctx context.Context, tx *gorm.DB, comments []*types.Comment) ([]*types.Comment, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(comments) == 0 {
		return []*types.Comment{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (cr *commentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, commentIDs []uuid.UUID) ([]*types.Comment, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.Comment
	if len(commentIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", commentIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *commentRepo) ListForGraph(ctx context.Context, tx *gorm.DB, graphID uuid.UUID) ([]*types.Comment, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.Comment
	if err := transaction.WithContext(ctx).
		Where("graph_id = ? AND moderation_status = ?", graphID, types.ModerationApproved).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *commentRepo) ListForReview(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID) ([]*types.Comment, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.Comment
	if err := transaction.WithContext(ctx).
		Where("review_id = ? AND moderation_status = ?", reviewID, types.ModerationApproved).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *commentRepo) UpdateModerationStatus(ctx context.Context, tx *gorm.DB, commentID uuid.UUID, status types.ModerationStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Comment{}).
		Where("id = ?", commentID).
		Updates(map[string]interface{}{"moderation_status": status, "updated_at": gorm.Expr("now()")}).Error
}

func (cr *commentRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, commentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(commentIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", commentIDs).
		Delete(&types.Comment{}).Error
}
