package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/filmpulse/filmpulse-backend/internal/services"
)

type AggregationHandler struct {
	aggregationService services.AggregationService
}

func NewAggregationHandler(aggregationService services.AggregationService) *AggregationHandler {
	return &AggregationHandler{aggregationService: aggregationService}
}

func (ah *AggregationHandler) AggregateMovie(c *gin.Context) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_movie_id", err)
		return
	}
	result, err := ah.aggregationService.AggregateMovie(c.Request.Context(), movieID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "aggregation_failed", err)
		return
	}
	if result.GraphsUsed == 0 {
		RespondOK(c, gin.H{"success": true, "message": "No graphs to aggregate"})
		return
	}
	RespondOK(c, gin.H{"success": true, "pointsAggregated": result.PointsAggregated, "graphsUsed": result.GraphsUsed})
}

func (ah *AggregationHandler) AggregateAll(c *gin.Context) {
	result, err := ah.aggregationService.AggregateAll(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "aggregation_failed", err)
		return
	}
	RespondOK(c, result)
}
