package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/repos"
	"github.com/filmpulse/filmpulse-backend/internal/timeline"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

// SessionState is the snapshot returned to the recording client.
type SessionState struct {
	SessionID uuid.UUID `json:"session_id"`
	Progress  float64   `json:"progress"`
	Score     float64   `json:"score"`
	Running   bool      `json:"running"`
	Finished  bool      `json:"finished"`
	Points    int       `json:"points"`
}

type LiveReactionService interface {
	StartSession(ctx context.Context, userID, movieID uuid.UUID) (*SessionState, error)
	SetScore(ctx context.Context, userID, sessionID uuid.UUID, score float64) (*SessionState, error)
	PauseSession(ctx context.Context, userID, sessionID uuid.UUID) (*SessionState, error)
	ResumeSession(ctx context.Context, userID, sessionID uuid.UUID) (*SessionState, error)
	ResetSession(ctx context.Context, userID, sessionID uuid.UUID) (*SessionState, error)
	FinishSession(ctx context.Context, userID, sessionID uuid.UUID) (*types.EmotionGraph, error)
	GetState(ctx context.Context, userID, sessionID uuid.UUID) (*SessionState, error)
}

type liveReactionService struct {
	db          *gorm.DB
	log         *logger.Logger
	sessionRepo repos.LiveReactionSessionRepo
	graphRepo   repos.EmotionGraphRepo

	mu        sync.Mutex
	recorders map[uuid.UUID]*timeline.Recorder
}

func NewLiveReactionService(
	db *gorm.DB,
	log *logger.Logger,
	sessionRepo repos.LiveReactionSessionRepo,
	graphRepo repos.EmotionGraphRepo,
) LiveReactionService {
	serviceLog := log.With("service", "LiveReactionService")
	return &liveReactionService{
		db:          db,
		log:         serviceLog,
		sessionRepo: sessionRepo,
		graphRepo:   graphRepo,
		recorders:   make(map[uuid.UUID]*timeline.Recorder),
	}
}

func (ls *liveReactionService) StartSession(ctx context.Context, userID, movieID uuid.UUID) (*SessionState, error) {
	session := &types.LiveReactionSession{
		ID:        uuid.New(),
		MovieID:   movieID,
		UserID:    userID,
		StartedAt: time.Now(),
	}
	if _, err := ls.sessionRepo.Create(ctx, nil, []*types.LiveReactionSession{session}); err != nil {
		return nil, fmt.Errorf("Failed to create live reaction session: %w", err)
	}

	sessionID := session.ID
	recorder := timeline.NewRecorder(func(points []timeline.Point) {
		// The clock hit 100 on its own; the request that started the session
		// is long gone, so persist with a fresh context.
		bg, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := ls.persistSession(bg, userID, movieID, sessionID, points); err != nil {
			ls.log.Warn("Failed to persist auto-finished session; finish can be retried", "sessionID", sessionID, "error", err)
		}
	})

	ls.mu.Lock()
	ls.recorders[sessionID] = recorder
	ls.mu.Unlock()

	recorder.Start()
	return ls.stateFor(sessionID, recorder), nil
}

func (ls *liveReactionService) SetScore(ctx context.Context, userID, sessionID uuid.UUID, score float64) (*SessionState, error) {
	recorder, err := ls.recorderFor(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if sErr := recorder.SetScore(score); sErr != nil {
		return nil, sErr
	}
	return ls.stateFor(sessionID, recorder), nil
}

func (ls *liveReactionService) PauseSession(ctx context.Context, userID, sessionID uuid.UUID) (*SessionState, error) {
	recorder, err := ls.recorderFor(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	recorder.Pause()
	return ls.stateFor(sessionID, recorder), nil
}

func (ls *liveReactionService) ResumeSession(ctx context.Context, userID, sessionID uuid.UUID) (*SessionState, error) {
	recorder, err := ls.recorderFor(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	recorder.Start()
	return ls.stateFor(sessionID, recorder), nil
}

func (ls *liveReactionService) ResetSession(ctx context.Context, userID, sessionID uuid.UUID) (*SessionState, error) {
	recorder, err := ls.recorderFor(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	recorder.Reset()
	return ls.stateFor(sessionID, recorder), nil
}

func (ls *liveReactionService) GetState(ctx context.Context, userID, sessionID uuid.UUID) (*SessionState, error) {
	recorder, err := ls.recorderFor(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return ls.stateFor(sessionID, recorder), nil
}

// FinishSession stops the clock, persists the captured timeline as an
// emotion graph and marks the session completed. If persistence fails the
// session row stays incomplete and the call can be retried.
func (ls *liveReactionService) FinishSession(ctx context.Context, userID, sessionID uuid.UUID) (*types.EmotionGraph, error) {
	sessions, err := ls.sessionRepo.GetByIDs(ctx, nil, []uuid.UUID{sessionID})
	if err != nil {
		return nil, fmt.Errorf("Failed to load session: %w", err)
	}
	if len(sessions) == 0 {
		return nil, fmt.Errorf("Session not found")
	}
	session := sessions[0]
	if session.UserID != userID {
		return nil, fmt.Errorf("Session does not belong to user")
	}
	if session.IsCompleted {
		return nil, fmt.Errorf("Session already completed")
	}

	ls.mu.Lock()
	recorder, ok := ls.recorders[sessionID]
	ls.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("No active recorder for session")
	}

	points := recorder.Finish()
	graph, pErr := ls.persistFinishedSession(ctx, userID, session.MovieID, sessionID, points)
	if pErr != nil {
		return nil, pErr
	}

	ls.mu.Lock()
	delete(ls.recorders, sessionID)
	ls.mu.Unlock()

	return graph, nil
}

func (ls *liveReactionService) persistSession(ctx context.Context, userID, movieID, sessionID uuid.UUID, points []timeline.Point) error {
	_, err := ls.persistFinishedSession(ctx, userID, movieID, sessionID, points)
	if err == nil {
		ls.mu.Lock()
		delete(ls.recorders, sessionID)
		ls.mu.Unlock()
	}
	return err
}

func (ls *liveReactionService) persistFinishedSession(ctx context.Context, userID, movieID, sessionID uuid.UUID, points []timeline.Point) (*types.EmotionGraph, error) {
	var graph *types.EmotionGraph
	err := ls.runInTransaction(ctx, func(tx *gorm.DB) error {
		// First-party captures skip the moderation queue; they are eligible
		// for aggregation as soon as the session completes.
		g := &types.EmotionGraph{
			ID:               uuid.New(),
			MovieID:          movieID,
			UserID:           &userID,
			SourceType:       timeline.SourceLiveReaction,
			IsPublic:         true,
			ModerationStatus: types.ModerationApproved,
		}
		if sErr := g.SetPoints(points); sErr != nil {
			return fmt.Errorf("Failed to serialize session points: %w", sErr)
		}
		if _, cErr := ls.graphRepo.Create(ctx, tx, []*types.EmotionGraph{g}); cErr != nil {
			return fmt.Errorf("Failed to create emotion graph: %w", cErr)
		}

		sessionData, mErr := json.Marshal(map[string]any{
			"points_captured": len(points),
			"finished_at":     time.Now().UTC(),
		})
		if mErr != nil {
			return mErr
		}
		// MarkCompleted only touches a still-open row; when a manual finish
		// races the auto-finish the loser fails here and its graph insert
		// rolls back with the transaction.
		if uErr := ls.sessionRepo.MarkCompleted(ctx, tx, sessionID, datatypes.JSON(sessionData), g.ID); uErr != nil {
			return fmt.Errorf("Failed to mark session completed: %w", uErr)
		}
		graph = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return graph, nil
}

// runInTransaction tolerates a nil handle; repos fall back to their own
// handle when tx is nil.
func (ls *liveReactionService) runInTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if ls.db == nil {
		return fn(nil)
	}
	return ls.db.WithContext(ctx).Transaction(fn)
}

func (ls *liveReactionService) recorderFor(ctx context.Context, userID, sessionID uuid.UUID) (*timeline.Recorder, error) {
	sessions, err := ls.sessionRepo.GetByIDs(ctx, nil, []uuid.UUID{sessionID})
	if err != nil {
		return nil, fmt.Errorf("Failed to load session: %w", err)
	}
	if len(sessions) == 0 {
		return nil, fmt.Errorf("Session not found")
	}
	if sessions[0].UserID != userID {
		return nil, fmt.Errorf("Session does not belong to user")
	}

	ls.mu.Lock()
	recorder, ok := ls.recorders[sessionID]
	ls.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("No active recorder for session")
	}
	return recorder, nil
}

func (ls *liveReactionService) stateFor(sessionID uuid.UUID, recorder *timeline.Recorder) *SessionState {
	return &SessionState{
		SessionID: sessionID,
		Progress:  recorder.Progress(),
		Score:     recorder.Score(),
		Running:   recorder.Running(),
		Finished:  recorder.Finished(),
		Points:    len(recorder.Points()),
	}
}
