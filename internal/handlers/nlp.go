package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/filmpulse/filmpulse-backend/internal/services"
)

type NLPHandler struct {
	nlpService services.NLPService
}

func NewNLPHandler(nlpService services.NLPService) *NLPHandler {
	return &NLPHandler{nlpService: nlpService}
}

func (nh *NLPHandler) AnalyzeMovie(c *gin.Context) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_movie_id", err)
		return
	}
	graph, err := nh.nlpService.AnalyzeMovieReviews(c.Request.Context(), movieID)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrMovieNotFound):
		RespondError(c, http.StatusNotFound, "movie_not_found", err)
		return
	case errors.Is(err, services.ErrNoReviewText):
		RespondError(c, http.StatusBadRequest, "no_review_text", err)
		return
	case errors.Is(err, services.ErrModelNotConfigured):
		RespondError(c, http.StatusServiceUnavailable, "nlp_not_configured", err)
		return
	case errors.Is(err, services.ErrModelRequestFailed), errors.Is(err, services.ErrModelOutputRejected):
		RespondError(c, http.StatusBadGateway, "nlp_model_failed", err)
		return
	default:
		// Storage and other wrapped internal failures.
		RespondError(c, http.StatusInternalServerError, "nlp_analysis_failed", err)
		return
	}
	RespondOK(c, gin.H{"graph": graph})
}
