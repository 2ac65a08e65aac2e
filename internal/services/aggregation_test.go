package services

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/repos"
	"github.com/filmpulse/filmpulse-backend/internal/timeline"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

// -------------------- fakes --------------------

type fakeMovieRepo struct {
	ids    []uuid.UUID
	movies []*types.Movie
}

func (f *fakeMovieRepo) Create(ctx context.Context, tx *gorm.DB, movies []*types.Movie) ([]*types.Movie, error) {
	return movies, nil
}

func (f *fakeMovieRepo) GetByIDs(ctx context.Context, tx *gorm.DB, movieIDs []uuid.UUID) ([]*types.Movie, error) {
	var out []*types.Movie
	for _, m := range f.movies {
		for _, id := range movieIDs {
			if m.ID == id {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func (f *fakeMovieRepo) GetByTmdbIDs(ctx context.Context, tx *gorm.DB, tmdbIDs []int64) ([]*types.Movie, error) {
	return nil, nil
}

func (f *fakeMovieRepo) Search(ctx context.Context, tx *gorm.DB, filter repos.MovieSearchFilter) ([]*types.Movie, error) {
	return nil, nil
}

func (f *fakeMovieRepo) ListAllIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error) {
	return f.ids, nil
}

func (f *fakeMovieRepo) UpsertByTmdbID(ctx context.Context, tx *gorm.DB, movies []*types.Movie) ([]*types.Movie, error) {
	return movies, nil
}

type fakeGraphRepo struct {
	graphs      []*types.EmotionGraph
	failMovies  map[uuid.UUID]bool
	updateCalls int
	createCalls int
}

func (f *fakeGraphRepo) Create(ctx context.Context, tx *gorm.DB, graphs []*types.EmotionGraph) ([]*types.EmotionGraph, error) {
	f.createCalls++
	f.graphs = append(f.graphs, graphs...)
	return graphs, nil
}

func (f *fakeGraphRepo) GetByIDs(ctx context.Context, tx *gorm.DB, graphIDs []uuid.UUID) ([]*types.EmotionGraph, error) {
	var out []*types.EmotionGraph
	for _, g := range f.graphs {
		for _, id := range graphIDs {
			if g.ID == id {
				out = append(out, g)
			}
		}
	}
	return out, nil
}

func (f *fakeGraphRepo) ListByMovie(ctx context.Context, tx *gorm.DB, movieID uuid.UUID, publicOnly bool) ([]*types.EmotionGraph, error) {
	return nil, nil
}

func (f *fakeGraphRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.EmotionGraph, error) {
	return nil, nil
}

func (f *fakeGraphRepo) ListEligibleForAggregation(ctx context.Context, tx *gorm.DB, movieID uuid.UUID) ([]*types.EmotionGraph, error) {
	if f.failMovies[movieID] {
		return nil, fmt.Errorf("storage unavailable")
	}
	var out []*types.EmotionGraph
	for _, g := range f.graphs {
		if g.MovieID != movieID || g.SourceType == timeline.SourceConsensus {
			continue
		}
		if !g.IsPublic || g.ModerationStatus != types.ModerationApproved {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (f *fakeGraphRepo) GetConsensusByMovieID(ctx context.Context, tx *gorm.DB, movieID uuid.UUID) (*types.EmotionGraph, error) {
	for _, g := range f.graphs {
		if g.MovieID == movieID && g.SourceType == timeline.SourceConsensus {
			return g, nil
		}
	}
	return nil, nil
}

func (f *fakeGraphRepo) UpdateGraphData(ctx context.Context, tx *gorm.DB, graphID uuid.UUID, graphData datatypes.JSON) error {
	f.updateCalls++
	for _, g := range f.graphs {
		if g.ID == graphID {
			g.GraphData = graphData
			return nil
		}
	}
	return fmt.Errorf("graph %s not found", graphID)
}

func (f *fakeGraphRepo) UpdateModerationStatus(ctx context.Context, tx *gorm.DB, graphID uuid.UUID, status types.ModerationStatus) error {
	for _, g := range f.graphs {
		if g.ID == graphID {
			g.ModerationStatus = status
			return nil
		}
	}
	return fmt.Errorf("graph %s not found", graphID)
}

func (f *fakeGraphRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, graphIDs []uuid.UUID) error {
	return nil
}

func approvedGraph(movieID uuid.UUID, source timeline.SourceType, points []timeline.Point) *types.EmotionGraph {
	g := &types.EmotionGraph{
		ID:               uuid.New(),
		MovieID:          movieID,
		SourceType:       source,
		IsPublic:         true,
		ModerationStatus: types.ModerationApproved,
	}
	if err := g.SetPoints(points); err != nil {
		panic(err)
	}
	return g
}

// -------------------- tests --------------------

func TestAggregateMovieWeightedUpsert(t *testing.T) {
	movieID := uuid.New()
	graphRepo := &fakeGraphRepo{}
	graphRepo.graphs = append(graphRepo.graphs,
		approvedGraph(movieID, timeline.SourceLiveReaction, []timeline.Point{{TOffset: 10, Score: 8}}),
		approvedGraph(movieID, timeline.SourceNLPAnalysis, []timeline.Point{{TOffset: 10, Score: 2}}),
	)

	svc := NewAggregationService(nil, testLogger(t), &fakeMovieRepo{}, graphRepo, nil, nil)

	result, err := svc.AggregateMovie(context.Background(), movieID)
	if err != nil {
		t.Fatalf("AggregateMovie: %v", err)
	}
	if result.GraphsUsed != 2 {
		t.Fatalf("GraphsUsed = %d, want 2", result.GraphsUsed)
	}
	if result.PointsAggregated != 1 {
		t.Fatalf("PointsAggregated = %d, want 1", result.PointsAggregated)
	}

	consensus, err := graphRepo.GetConsensusByMovieID(context.Background(), nil, movieID)
	if err != nil {
		t.Fatalf("GetConsensusByMovieID: %v", err)
	}
	if consensus == nil {
		t.Fatal("no consensus graph written")
	}
	points, err := consensus.Points()
	if err != nil {
		t.Fatalf("consensus Points: %v", err)
	}
	// (8*1.0 + 2*0.6) / 1.6 = 5.75
	if len(points) != 1 || math.Abs(points[0].Score-5.75) > 1e-9 {
		t.Fatalf("consensus points = %+v, want single point with score 5.75", points)
	}

	// A second run must update the same row, not insert a sibling.
	createsBefore := graphRepo.createCalls
	if _, err := svc.AggregateMovie(context.Background(), movieID); err != nil {
		t.Fatalf("second AggregateMovie: %v", err)
	}
	if graphRepo.createCalls != createsBefore {
		t.Fatalf("second run created a new consensus row")
	}
	if graphRepo.updateCalls == 0 {
		t.Fatalf("second run did not update the existing consensus row")
	}
}

func TestAggregateMovieNoEligibleGraphs(t *testing.T) {
	movieID := uuid.New()
	graphRepo := &fakeGraphRepo{}

	svc := NewAggregationService(nil, testLogger(t), &fakeMovieRepo{}, graphRepo, nil, nil)

	result, err := svc.AggregateMovie(context.Background(), movieID)
	if err != nil {
		t.Fatalf("AggregateMovie: %v", err)
	}
	if result.GraphsUsed != 0 || result.PointsAggregated != 0 {
		t.Fatalf("result = %+v, want zero result", result)
	}
	if graphRepo.createCalls != 0 || graphRepo.updateCalls != 0 {
		t.Fatal("no-input aggregation must not write")
	}
}

func TestAggregateMovieSkipsCorruptGraph(t *testing.T) {
	movieID := uuid.New()
	graphRepo := &fakeGraphRepo{}
	graphRepo.graphs = append(graphRepo.graphs,
		approvedGraph(movieID, timeline.SourceLiveReaction, []timeline.Point{{TOffset: 10, Score: 8}}),
	)
	corrupt := &types.EmotionGraph{
		ID:               uuid.New(),
		MovieID:          movieID,
		SourceType:       timeline.SourceManualReview,
		GraphData:        datatypes.JSON([]byte(`{"not":"an array"}`)),
		IsPublic:         true,
		ModerationStatus: types.ModerationApproved,
	}
	graphRepo.graphs = append(graphRepo.graphs, corrupt)

	svc := NewAggregationService(nil, testLogger(t), &fakeMovieRepo{}, graphRepo, nil, nil)

	result, err := svc.AggregateMovie(context.Background(), movieID)
	if err != nil {
		t.Fatalf("AggregateMovie: %v", err)
	}
	if result.GraphsUsed != 1 {
		t.Fatalf("GraphsUsed = %d, want 1 (corrupt graph skipped)", result.GraphsUsed)
	}
}

func TestAggregateAllIsolatesFailures(t *testing.T) {
	healthyA := uuid.New()
	broken := uuid.New()
	healthyB := uuid.New()

	graphRepo := &fakeGraphRepo{failMovies: map[uuid.UUID]bool{broken: true}}
	graphRepo.graphs = append(graphRepo.graphs,
		approvedGraph(healthyA, timeline.SourceLiveReaction, []timeline.Point{{TOffset: 0, Score: 5}}),
		approvedGraph(healthyB, timeline.SourceManualReview, []timeline.Point{{TOffset: 0, Score: 7}}),
	)
	movieRepo := &fakeMovieRepo{ids: []uuid.UUID{healthyA, broken, healthyB}}

	svc := NewAggregationService(nil, testLogger(t), movieRepo, graphRepo, nil, nil)

	result, err := svc.AggregateAll(context.Background())
	if err != nil {
		t.Fatalf("AggregateAll: %v", err)
	}
	if result.Total != 3 {
		t.Fatalf("Total = %d, want 3", result.Total)
	}
	if result.SuccessCount != 2 {
		t.Fatalf("SuccessCount = %d, want 2", result.SuccessCount)
	}

	// Both healthy movies must have consensus rows despite the failure.
	for _, movieID := range []uuid.UUID{healthyA, healthyB} {
		consensus, cErr := graphRepo.GetConsensusByMovieID(context.Background(), nil, movieID)
		if cErr != nil || consensus == nil {
			t.Fatalf("movie %s missing consensus after batch", movieID)
		}
	}
}
