package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filmpulse/filmpulse-backend/internal/timeline"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

type fakeReviewRepo struct {
	reviews []*types.ManualReview
}

func (f *fakeReviewRepo) Create(ctx context.Context, tx *gorm.DB, reviews []*types.ManualReview) ([]*types.ManualReview, error) {
	f.reviews = append(f.reviews, reviews...)
	return reviews, nil
}

func (f *fakeReviewRepo) GetByIDs(ctx context.Context, tx *gorm.DB, reviewIDs []uuid.UUID) ([]*types.ManualReview, error) {
	var out []*types.ManualReview
	for _, r := range f.reviews {
		for _, id := range reviewIDs {
			if r.ID == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) ListByMovie(ctx context.Context, tx *gorm.DB, movieID uuid.UUID, publicOnly bool) ([]*types.ManualReview, error) {
	var out []*types.ManualReview
	for _, r := range f.reviews {
		if r.MovieID != movieID {
			continue
		}
		if publicOnly && !r.IsPublic {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReviewRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ManualReview, error) {
	return nil, nil
}

func (f *fakeReviewRepo) SetGraphID(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, graphID uuid.UUID) error {
	for _, r := range f.reviews {
		if r.ID == reviewID {
			id := graphID
			r.GraphID = &id
			return nil
		}
	}
	return fmt.Errorf("review %s not found", reviewID)
}

func (f *fakeReviewRepo) UpdateModerationStatus(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, status types.ModerationStatus) error {
	for _, r := range f.reviews {
		if r.ID == reviewID {
			r.ModerationStatus = status
			return nil
		}
	}
	return fmt.Errorf("review %s not found", reviewID)
}

func TestSubmitReviewExpandsAndLinksGraph(t *testing.T) {
	reviewRepo := &fakeReviewRepo{}
	graphRepo := &fakeGraphRepo{}
	svc := NewReviewService(nil, testLogger(t), reviewRepo, graphRepo)

	ratings := timeline.SectionRatings{
		Opening:       3,
		RisingAction:  5,
		Climax:        9,
		FallingAction: 6,
		Resolution:    7,
	}
	userID := uuid.New()
	movieID := uuid.New()

	review, err := svc.SubmitReview(context.Background(), userID, movieID, ratings, "  Slow start, great climax.  ", true)
	if err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}
	if review.GraphID == nil {
		t.Fatal("review not linked to a graph")
	}
	if review.ReviewText != "Slow start, great climax." {
		t.Fatalf("review text = %q, want trimmed", review.ReviewText)
	}
	if review.OverallRating != 6 {
		t.Fatalf("OverallRating = %v, want 6", review.OverallRating)
	}

	graphs, gErr := graphRepo.GetByIDs(context.Background(), nil, []uuid.UUID{*review.GraphID})
	if gErr != nil || len(graphs) != 1 {
		t.Fatalf("linked graph not stored: %v", gErr)
	}
	graph := graphs[0]
	if graph.SourceType != timeline.SourceManualReview {
		t.Fatalf("graph source = %q, want %q", graph.SourceType, timeline.SourceManualReview)
	}
	points, pErr := graph.Points()
	if pErr != nil {
		t.Fatalf("graph Points: %v", pErr)
	}
	if len(points) != 21 {
		t.Fatalf("expanded to %d points, want 21", len(points))
	}
	if points[0].TOffset != 0 || points[0].Score != 3 {
		t.Fatalf("first point = %+v, want offset 0 score 3", points[0])
	}
	if points[len(points)-1].TOffset != 100 || points[len(points)-1].Score != 7 {
		t.Fatalf("last point = %+v, want offset 100 score 7", points[len(points)-1])
	}
}

func TestSubmitReviewRejectsOutOfRangeRatings(t *testing.T) {
	reviewRepo := &fakeReviewRepo{}
	graphRepo := &fakeGraphRepo{}
	svc := NewReviewService(nil, testLogger(t), reviewRepo, graphRepo)

	ratings := timeline.SectionRatings{Opening: 11, RisingAction: 5, Climax: 5, FallingAction: 5, Resolution: 5}
	if _, err := svc.SubmitReview(context.Background(), uuid.New(), uuid.New(), ratings, "", true); err == nil {
		t.Fatal("expected validation error for rating 11")
	}
	if len(reviewRepo.reviews) != 0 || len(graphRepo.graphs) != 0 {
		t.Fatal("rejected review must not persist anything")
	}
}

func TestRegenerateGraphConverges(t *testing.T) {
	reviewRepo := &fakeReviewRepo{}
	graphRepo := &fakeGraphRepo{}
	svc := NewReviewService(nil, testLogger(t), reviewRepo, graphRepo)

	ratings := timeline.SectionRatings{Opening: 2, RisingAction: 4, Climax: 8, FallingAction: 6, Resolution: 5}
	review, err := svc.SubmitReview(context.Background(), uuid.New(), uuid.New(), ratings, "fine", true)
	if err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}
	originalGraphID := *review.GraphID

	graph, rErr := svc.RegenerateGraph(context.Background(), review.ID)
	if rErr != nil {
		t.Fatalf("RegenerateGraph: %v", rErr)
	}
	if graph.ID != originalGraphID {
		t.Fatalf("regeneration replaced the graph instead of updating it")
	}

	regenerated, pErr := graph.Points()
	if pErr != nil {
		t.Fatalf("regenerated Points: %v", pErr)
	}
	expected, eErr := timeline.ExpandSectionRatings(ratings)
	if eErr != nil {
		t.Fatalf("ExpandSectionRatings: %v", eErr)
	}
	if len(regenerated) != len(expected) {
		t.Fatalf("regenerated %d points, want %d", len(regenerated), len(expected))
	}
	for i := range expected {
		if regenerated[i] != expected[i] {
			t.Fatalf("point %d = %+v, want %+v", i, regenerated[i], expected[i])
		}
	}
}

func TestRegenerateGraphRecreatesMissingGraph(t *testing.T) {
	reviewRepo := &fakeReviewRepo{}
	graphRepo := &fakeGraphRepo{}
	svc := NewReviewService(nil, testLogger(t), reviewRepo, graphRepo)

	ratings := timeline.SectionRatings{Opening: 5, RisingAction: 5, Climax: 5, FallingAction: 5, Resolution: 5}
	review := &types.ManualReview{
		ID:            uuid.New(),
		MovieID:       uuid.New(),
		UserID:        uuid.New(),
		OverallRating: ratings.OverallRating(),
		IsPublic:      true,
	}
	if err := review.SetRatings(ratings); err != nil {
		t.Fatalf("SetRatings: %v", err)
	}
	reviewRepo.reviews = append(reviewRepo.reviews, review)

	graph, err := svc.RegenerateGraph(context.Background(), review.ID)
	if err != nil {
		t.Fatalf("RegenerateGraph: %v", err)
	}
	if review.GraphID == nil || *review.GraphID != graph.ID {
		t.Fatal("regeneration did not link the new graph to the review")
	}
	if graph.SourceType != timeline.SourceManualReview {
		t.Fatalf("graph source = %q, want %q", graph.SourceType, timeline.SourceManualReview)
	}
}
