package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

type CollectionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, collections []*types.Collection) ([]*types.Collection, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, collectionIDs []uuid.UUID) ([]*types.Collection, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, publicOnly bool) ([]*types.Collection, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, collectionIDs []uuid.UUID) error
	AddItems(ctx context.Context, tx *gorm.DB, items []*types.CollectionItem) ([]*types.CollectionItem, error)
	RemoveItem(ctx context.Context, tx *gorm.DB, collectionID, itemID uuid.UUID) error
	ListItems(ctx context.Context, tx *gorm.DB, collectionID uuid.UUID) ([]*types.CollectionItem, error)
}

type collectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCollectionRepo(db *gorm.DB, baseLog *logger.Logger) CollectionRepo {
	repoLog := baseLog.With("repo", "CollectionRepo")
	return &collectionRepo{db: db, log: repoLog}
}

func (cr *collectionRepo) Create(ctx context.Context, tx *gorm.DB, collections []*types.Collection) ([]*types.Collection, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(collections) == 0 {
		return []*types.Collection{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&collections).Error; err != nil {
		return nil, err
	}
	return collections, nil
}

func (cr *collectionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, collectionIDs []uuid.UUID) ([]*types.Collection, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.Collection
	if len(collectionIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", collectionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *collectionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, publicOnly bool) ([]*types.Collection, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	query := transaction.WithContext(ctx).Where("user_id = ?", userID)
	if publicOnly {
		query = query.Where("is_public = TRUE")
	}
	var results []*types.Collection
	if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *collectionRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, collectionIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(collectionIDs) == 0 {
		return nil
	}
	if err := transaction.WithContext(ctx).
		Where("collection_id IN ?", collectionIDs).
		Delete(&types.CollectionItem{}).Error; err != nil {
		return err
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", collectionIDs).
		Delete(&types.Collection{}).Error
}

func (cr *collectionRepo) AddItems(ctx context.Context, tx *gorm.DB, items []*types.CollectionItem) ([]*types.CollectionItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(items) == 0 {
		return []*types.CollectionItem{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (cr *collectionRepo) RemoveItem(ctx context.Context, tx *gorm.DB, collectionID, itemID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Where("collection_id = ? AND id = ?", collectionID, itemID).
		Delete(&types.CollectionItem{}).Error
}

func (cr *collectionRepo) ListItems(ctx context.Context, tx *gorm.DB, collectionID uuid.UUID) ([]*types.CollectionItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.CollectionItem
	if err := transaction.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Order("added_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
