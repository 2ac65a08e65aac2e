package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/filmpulse/filmpulse-backend/internal/timeline"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*types.LiveReactionSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*types.LiveReactionSession)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, tx *gorm.DB, sessions []*types.LiveReactionSession) ([]*types.LiveReactionSession, error) {
	for _, s := range sessions {
		f.sessions[s.ID] = s
	}
	return sessions, nil
}

func (f *fakeSessionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.LiveReactionSession, error) {
	var out []*types.LiveReactionSession
	for _, id := range sessionIDs {
		if s, ok := f.sessions[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.LiveReactionSession, error) {
	var out []*types.LiveReactionSession
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

// MarkCompleted mirrors the row-level guard of the real repo: only a
// still-open session can be completed.
func (f *fakeSessionRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, sessionData datatypes.JSON, graphID uuid.UUID) error {
	s, ok := f.sessions[sessionID]
	if !ok || s.IsCompleted {
		return fmt.Errorf("session %s already completed", sessionID)
	}
	now := time.Now()
	s.IsCompleted = true
	s.CompletedAt = &now
	s.SessionData = sessionData
	id := graphID
	s.GraphID = &id
	return nil
}

func TestFinishSessionGraphEligibleForAggregation(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	graphRepo := &fakeGraphRepo{}
	svc := NewLiveReactionService(nil, testLogger(t), sessionRepo, graphRepo)

	userID := uuid.New()
	movieID := uuid.New()
	state, err := svc.StartSession(context.Background(), userID, movieID)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := svc.SetScore(context.Background(), userID, state.SessionID, 8); err != nil {
		t.Fatalf("SetScore: %v", err)
	}

	graph, err := svc.FinishSession(context.Background(), userID, state.SessionID)
	if err != nil {
		t.Fatalf("FinishSession: %v", err)
	}
	if graph.SourceType != timeline.SourceLiveReaction {
		t.Fatalf("graph source = %q, want %q", graph.SourceType, timeline.SourceLiveReaction)
	}
	if !graph.IsPublic || graph.ModerationStatus != types.ModerationApproved {
		t.Fatalf("finished graph public=%v status=%q, want public and approved", graph.IsPublic, graph.ModerationStatus)
	}

	// The capture must feed the consensus with no moderator action in between.
	agg := NewAggregationService(nil, testLogger(t), &fakeMovieRepo{}, graphRepo, nil, nil)
	result, aErr := agg.AggregateMovie(context.Background(), movieID)
	if aErr != nil {
		t.Fatalf("AggregateMovie: %v", aErr)
	}
	if result.GraphsUsed != 1 {
		t.Fatalf("GraphsUsed = %d, want 1 (finished session graph)", result.GraphsUsed)
	}
}

func TestFinishSessionCompletesOnlyOnce(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	graphRepo := &fakeGraphRepo{}
	svc := NewLiveReactionService(nil, testLogger(t), sessionRepo, graphRepo).(*liveReactionService)

	userID := uuid.New()
	movieID := uuid.New()
	state, err := svc.StartSession(context.Background(), userID, movieID)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	points := []timeline.Point{{TOffset: 1, Score: 7}}
	if _, pErr := svc.persistFinishedSession(context.Background(), userID, movieID, state.SessionID, points); pErr != nil {
		t.Fatalf("first persist: %v", pErr)
	}
	// A second writer racing the first (manual finish vs. the clock's
	// auto-finish) must fail at completion instead of storing a sibling graph.
	if _, pErr := svc.persistFinishedSession(context.Background(), userID, movieID, state.SessionID, points); pErr == nil {
		t.Fatal("second persist succeeded for a completed session")
	}
	if _, fErr := svc.FinishSession(context.Background(), userID, state.SessionID); fErr == nil {
		t.Fatal("FinishSession succeeded for a completed session")
	}
}
