package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/filmpulse/filmpulse-backend/internal/services"
)

type TMDbHandler struct {
	importService services.TMDbImportService
}

func NewTMDbHandler(importService services.TMDbImportService) *TMDbHandler {
	return &TMDbHandler{importService: importService}
}

func (th *TMDbHandler) SearchCatalog(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		RespondError(c, http.StatusBadRequest, "missing_query", fmt.Errorf("query parameter q required"))
		return
	}
	page := 1
	if pageStr := c.Query("page"); pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p < 1 {
			RespondError(c, http.StatusBadRequest, "invalid_page", fmt.Errorf("invalid page"))
			return
		}
		page = p
	}
	results, err := th.importService.SearchCatalog(c.Request.Context(), query, page)
	if errors.Is(err, services.ErrTMDbNotConfigured) {
		RespondError(c, http.StatusServiceUnavailable, "tmdb_not_configured", err)
		return
	}
	if err != nil {
		RespondError(c, http.StatusBadGateway, "tmdb_search_failed", err)
		return
	}
	RespondOK(c, gin.H{"results": results})
}

func (th *TMDbHandler) ImportMovie(c *gin.Context) {
	var req struct {
		TmdbID int64 `json:"tmdb_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.TmdbID == 0 {
		RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("tmdb_id required"))
		return
	}
	movie, err := th.importService.ImportMovie(c.Request.Context(), req.TmdbID)
	if errors.Is(err, services.ErrTMDbNotConfigured) {
		RespondError(c, http.StatusServiceUnavailable, "tmdb_not_configured", err)
		return
	}
	if err != nil {
		RespondError(c, http.StatusBadGateway, "tmdb_import_failed", err)
		return
	}
	RespondOK(c, gin.H{"movie": movie})
}
