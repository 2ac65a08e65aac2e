package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filmpulse/filmpulse-backend/internal/clients/redis"
	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/repos"
	"github.com/filmpulse/filmpulse-backend/internal/sse"
	"github.com/filmpulse/filmpulse-backend/internal/timeline"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

// AggregationResult describes one completed consensus rebuild.
type AggregationResult struct {
	PointsAggregated int `json:"pointsAggregated"`
	GraphsUsed       int `json:"graphsUsed"`
}

// BatchAggregationResult summarizes a rebuild across the whole catalog.
type BatchAggregationResult struct {
	SuccessCount int `json:"successCount"`
	Total        int `json:"total"`
}

type AggregationService interface {
	// AggregateMovie rebuilds the consensus graph for one movie. When the
	// movie has no eligible input graphs it performs no write and returns a
	// result with GraphsUsed == 0.
	AggregateMovie(ctx context.Context, movieID uuid.UUID) (*AggregationResult, error)
	// AggregateAll rebuilds every movie's consensus sequentially. A failure
	// on one movie is logged and does not stop the rest.
	AggregateAll(ctx context.Context) (*BatchAggregationResult, error)
}

type aggregationService struct {
	db        *gorm.DB
	log       *logger.Logger
	movieRepo repos.MovieRepo
	graphRepo repos.EmotionGraphRepo
	hub       *sse.SSEHub
	bus       redis.SSEBus
}

func NewAggregationService(
	db *gorm.DB,
	log *logger.Logger,
	movieRepo repos.MovieRepo,
	graphRepo repos.EmotionGraphRepo,
	hub *sse.SSEHub,
	bus redis.SSEBus,
) AggregationService {
	serviceLog := log.With("service", "AggregationService")
	return &aggregationService{
		db:        db,
		log:       serviceLog,
		movieRepo: movieRepo,
		graphRepo: graphRepo,
		hub:       hub,
		bus:       bus,
	}
}

func (ags *aggregationService) AggregateMovie(ctx context.Context, movieID uuid.UUID) (*AggregationResult, error) {
	eligible, err := ags.graphRepo.ListEligibleForAggregation(ctx, nil, movieID)
	if err != nil {
		return nil, fmt.Errorf("Failed to list eligible graphs: %w", err)
	}

	inputs := make([]timeline.SourcedPoints, 0, len(eligible))
	for _, g := range eligible {
		points, pErr := g.Points()
		if pErr != nil {
			// A corrupt stored graph must not block the rest of the inputs.
			ags.log.Warn("Skipping graph with invalid graph_data", "graphID", g.ID, "error", pErr)
			continue
		}
		inputs = append(inputs, timeline.SourcedPoints{Source: g.SourceType, Points: points})
	}

	if len(inputs) == 0 {
		return &AggregationResult{PointsAggregated: 0, GraphsUsed: 0}, nil
	}

	consensus := timeline.Consensus(inputs)

	if err := ags.runInTransaction(ctx, func(tx *gorm.DB) error {
		existing, gErr := ags.graphRepo.GetConsensusByMovieID(ctx, tx, movieID)
		if gErr != nil {
			return fmt.Errorf("Failed to load consensus graph: %w", gErr)
		}
		if existing == nil {
			graph := &types.EmotionGraph{
				ID:               uuid.New(),
				MovieID:          movieID,
				SourceType:       timeline.SourceConsensus,
				IsPublic:         true,
				ModerationStatus: types.ModerationApproved,
			}
			if sErr := graph.SetPoints(consensus); sErr != nil {
				return fmt.Errorf("Failed to serialize consensus points: %w", sErr)
			}
			if _, cErr := ags.graphRepo.Create(ctx, tx, []*types.EmotionGraph{graph}); cErr != nil {
				return fmt.Errorf("Failed to create consensus graph: %w", cErr)
			}
			return nil
		}
		if sErr := existing.SetPoints(consensus); sErr != nil {
			return fmt.Errorf("Failed to serialize consensus points: %w", sErr)
		}
		if uErr := ags.graphRepo.UpdateGraphData(ctx, tx, existing.ID, existing.GraphData); uErr != nil {
			return fmt.Errorf("Failed to update consensus graph: %w", uErr)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	result := &AggregationResult{
		PointsAggregated: len(consensus),
		GraphsUsed:       len(inputs),
	}

	msg := sse.SSEMessage{
		Channel: sse.MovieChannel(movieID),
		Event:   sse.SSEEventConsensusUpdated,
		Data:    result,
	}
	if ags.hub != nil {
		ags.hub.Broadcast(msg)
	}
	if ags.bus != nil {
		if pErr := ags.bus.Publish(ctx, msg); pErr != nil {
			ags.log.Warn("Failed to publish consensus update to redis", "error", pErr)
		}
	}

	return result, nil
}

// runInTransaction tolerates a nil handle; repos fall back to their own
// handle when tx is nil.
func (ags *aggregationService) runInTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if ags.db == nil {
		return fn(nil)
	}
	return ags.db.WithContext(ctx).Transaction(fn)
}

func (ags *aggregationService) AggregateAll(ctx context.Context) (*BatchAggregationResult, error) {
	movieIDs, err := ags.movieRepo.ListAllIDs(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Failed to list movies: %w", err)
	}

	successCount := 0
	for _, movieID := range movieIDs {
		if _, aErr := ags.AggregateMovie(ctx, movieID); aErr != nil {
			ags.log.Warn("Aggregation failed for movie", "movieID", movieID, "error", aErr)
			continue
		}
		successCount++
	}

	return &BatchAggregationResult{SuccessCount: successCount, Total: len(movieIDs)}, nil
}
