package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/filmpulse/filmpulse-backend/internal/clients/openai"
	"github.com/filmpulse/filmpulse-backend/internal/timeline"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

type fakeAIClient struct {
	response string
	err      error
}

func (f *fakeAIClient) GenerateText(ctx context.Context, system string, user string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestAnalyzeMovieReviewsErrorClasses(t *testing.T) {
	movieID := uuid.New()
	movie := &types.Movie{ID: movieID, Title: "Test Movie"}
	review := func(text string) *types.ManualReview {
		return &types.ManualReview{ID: uuid.New(), MovieID: movieID, UserID: uuid.New(), ReviewText: text, IsPublic: true}
	}

	cases := []struct {
		name    string
		ai      openai.Client
		movies  []*types.Movie
		reviews []*types.ManualReview
		want    error
	}{
		{"no client wired", nil, []*types.Movie{movie}, []*types.ManualReview{review("tense ending")}, ErrModelNotConfigured},
		{"unknown movie", &fakeAIClient{}, nil, nil, ErrMovieNotFound},
		{"no review text", &fakeAIClient{}, []*types.Movie{movie}, []*types.ManualReview{review("   ")}, ErrNoReviewText},
		{"model transport failure", &fakeAIClient{err: fmt.Errorf("upstream 503")}, []*types.Movie{movie}, []*types.ManualReview{review("tense ending")}, ErrModelRequestFailed},
		{"malformed model output", &fakeAIClient{response: "sure, here is your timeline"}, []*types.Movie{movie}, []*types.ManualReview{review("tense ending")}, ErrModelOutputRejected},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			graphRepo := &fakeGraphRepo{}
			svc := NewNLPService(nil, testLogger(t), &fakeMovieRepo{movies: tc.movies}, &fakeReviewRepo{reviews: tc.reviews}, graphRepo, tc.ai)

			_, err := svc.AnalyzeMovieReviews(context.Background(), movieID)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if graphRepo.createCalls != 0 {
				t.Fatal("failed analysis must not write a graph")
			}
		})
	}
}

func TestAnalyzeMovieReviewsStoresApprovedGraph(t *testing.T) {
	movieID := uuid.New()
	movieRepo := &fakeMovieRepo{movies: []*types.Movie{{ID: movieID, Title: "Test Movie", Synopsis: "A movie."}}}
	reviewRepo := &fakeReviewRepo{reviews: []*types.ManualReview{
		{ID: uuid.New(), MovieID: movieID, UserID: uuid.New(), ReviewText: "Slow start, strong finish.", IsPublic: true},
	}}
	graphRepo := &fakeGraphRepo{}
	ai := &fakeAIClient{response: "```json\n[{\"t_offset\": 0, \"score\": 4}, {\"t_offset\": 50, \"score\": 8}]\n```"}

	svc := NewNLPService(nil, testLogger(t), movieRepo, reviewRepo, graphRepo, ai)

	graph, err := svc.AnalyzeMovieReviews(context.Background(), movieID)
	if err != nil {
		t.Fatalf("AnalyzeMovieReviews: %v", err)
	}
	if graph.SourceType != timeline.SourceNLPAnalysis {
		t.Fatalf("graph source = %q, want %q", graph.SourceType, timeline.SourceNLPAnalysis)
	}
	if !graph.IsPublic || graph.ModerationStatus != types.ModerationApproved {
		t.Fatalf("graph public=%v status=%q, want public and approved", graph.IsPublic, graph.ModerationStatus)
	}
	if graph.UserID != nil {
		t.Fatalf("system-attributed graph carries user %s", graph.UserID)
	}
	points, pErr := graph.Points()
	if pErr != nil {
		t.Fatalf("graph Points: %v", pErr)
	}
	if len(points) != 2 {
		t.Fatalf("stored %d points, want 2", len(points))
	}
	if graphRepo.createCalls != 1 {
		t.Fatalf("createCalls = %d, want 1", graphRepo.createCalls)
	}
}
