package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/filmpulse/filmpulse-backend/internal/services"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

type stubNLPService struct {
	graph *types.EmotionGraph
	err   error
}

func (s *stubNLPService) AnalyzeMovieReviews(ctx context.Context, movieID uuid.UUID) (*types.EmotionGraph, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.graph, nil
}

func TestAnalyzeMovieStatusCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, http.StatusOK},
		{"movie not found", services.ErrMovieNotFound, http.StatusNotFound},
		{"no review text", services.ErrNoReviewText, http.StatusBadRequest},
		{"client not configured", services.ErrModelNotConfigured, http.StatusServiceUnavailable},
		{"model transport failure", fmt.Errorf("%w: upstream 503", services.ErrModelRequestFailed), http.StatusBadGateway},
		{"model output rejected", fmt.Errorf("%w: not a JSON point array", services.ErrModelOutputRejected), http.StatusBadGateway},
		{"storage failure", fmt.Errorf("Failed to create nlp graph: connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewNLPHandler(&stubNLPService{graph: &types.EmotionGraph{ID: uuid.New()}, err: tc.err})
			router := gin.New()
			router.POST("/api/admin/movies/:id/analyze", handler.AnalyzeMovie)

			req := httptest.NewRequest(http.MethodPost, "/api/admin/movies/"+uuid.NewString()+"/analyze", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}
