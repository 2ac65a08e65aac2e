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

type CollectionService interface {
	CreateCollection(ctx context.Context, userID uuid.UUID, name, description string, isPublic bool) (*types.Collection, error)
	ListUserCollections(ctx context.Context, ownerID, viewerID uuid.UUID) ([]*types.Collection, error)
	DeleteCollection(ctx context.Context, userID, collectionID uuid.UUID) error
	AddItem(ctx context.Context, userID, collectionID, movieID uuid.UUID, graphID *uuid.UUID) (*types.CollectionItem, error)
	RemoveItem(ctx context.Context, userID, collectionID, itemID uuid.UUID) error
	ListItems(ctx context.Context, viewerID, collectionID uuid.UUID) ([]*types.CollectionItem, error)
}

type collectionService struct {
	db             *gorm.DB
	log            *logger.Logger
	collectionRepo repos.CollectionRepo
	movieRepo      repos.MovieRepo
}

func NewCollectionService(
	db *gorm.DB,
	log *logger.Logger,
	collectionRepo repos.CollectionRepo,
	movieRepo repos.MovieRepo,
) CollectionService {
	serviceLog := log.With("service", "CollectionService")
	return &collectionService{
		db:             db,
		log:            serviceLog,
		collectionRepo: collectionRepo,
		movieRepo:      movieRepo,
	}
}

func (cs *collectionService) CreateCollection(ctx context.Context, userID uuid.UUID, name, description string, isPublic bool) (*types.Collection, error) {
	name = normalization.TrimInputString(name)
	if name == "" {
		return nil, fmt.Errorf("Collection name required")
	}
	collection := &types.Collection{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Description: normalization.TrimInputString(description),
		IsPublic:    isPublic,
	}
	if _, err := cs.collectionRepo.Create(ctx, nil, []*types.Collection{collection}); err != nil {
		return nil, fmt.Errorf("Failed to create collection: %w", err)
	}
	return collection, nil
}

func (cs *collectionService) ListUserCollections(ctx context.Context, ownerID, viewerID uuid.UUID) ([]*types.Collection, error) {
	publicOnly := ownerID != viewerID
	return cs.collectionRepo.ListByUser(ctx, nil, ownerID, publicOnly)
}

func (cs *collectionService) DeleteCollection(ctx context.Context, userID, collectionID uuid.UUID) error {
	collection, err := cs.ownedCollection(ctx, userID, collectionID)
	if err != nil {
		return err
	}
	return cs.collectionRepo.DeleteByIDs(ctx, nil, []uuid.UUID{collection.ID})
}

func (cs *collectionService) AddItem(ctx context.Context, userID, collectionID, movieID uuid.UUID, graphID *uuid.UUID) (*types.CollectionItem, error) {
	if _, err := cs.ownedCollection(ctx, userID, collectionID); err != nil {
		return nil, err
	}
	movies, mErr := cs.movieRepo.GetByIDs(ctx, nil, []uuid.UUID{movieID})
	if mErr != nil {
		return nil, fmt.Errorf("Failed to load movie: %w", mErr)
	}
	if len(movies) == 0 {
		return nil, fmt.Errorf("Movie not found")
	}

	item := &types.CollectionItem{
		ID:           uuid.New(),
		CollectionID: collectionID,
		MovieID:      movieID,
		GraphID:      graphID,
	}
	if _, err := cs.collectionRepo.AddItems(ctx, nil, []*types.CollectionItem{item}); err != nil {
		return nil, fmt.Errorf("Failed to add collection item: %w", err)
	}
	return item, nil
}

func (cs *collectionService) RemoveItem(ctx context.Context, userID, collectionID, itemID uuid.UUID) error {
	if _, err := cs.ownedCollection(ctx, userID, collectionID); err != nil {
		return err
	}
	return cs.collectionRepo.RemoveItem(ctx, nil, collectionID, itemID)
}

func (cs *collectionService) ListItems(ctx context.Context, viewerID, collectionID uuid.UUID) ([]*types.CollectionItem, error) {
	collections, err := cs.collectionRepo.GetByIDs(ctx, nil, []uuid.UUID{collectionID})
	if err != nil {
		return nil, fmt.Errorf("Failed to load collection: %w", err)
	}
	if len(collections) == 0 {
		return nil, fmt.Errorf("Collection not found")
	}
	collection := collections[0]
	if !collection.IsPublic && collection.UserID != viewerID {
		return nil, fmt.Errorf("Collection is private")
	}
	return cs.collectionRepo.ListItems(ctx, nil, collectionID)
}

func (cs *collectionService) ownedCollection(ctx context.Context, userID, collectionID uuid.UUID) (*types.Collection, error) {
	collections, err := cs.collectionRepo.GetByIDs(ctx, nil, []uuid.UUID{collectionID})
	if err != nil {
		return nil, fmt.Errorf("Failed to load collection: %w", err)
	}
	if len(collections) == 0 {
		return nil, fmt.Errorf("Collection not found")
	}
	if collections[0].UserID != userID {
		return nil, fmt.Errorf("Collection does not belong to user")
	}
	return collections[0], nil
}
