package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/filmpulse/filmpulse-backend/internal/clients/gcp"
	"github.com/filmpulse/filmpulse-backend/internal/clients/tmdb"
	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/repos"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

// ErrTMDbNotConfigured is returned when no TMDb client was wired at startup
// (missing TMDB_API_KEY).
var ErrTMDbNotConfigured = errors.New("TMDb client is not configured")

type TMDbImportService interface {
	SearchCatalog(ctx context.Context, query string, page int) ([]tmdb.SearchResult, error)
	// ImportMovie fetches full metadata from TMDb and upserts the local
	// movie row keyed by tmdb_id.
	ImportMovie(ctx context.Context, tmdbID int64) (*types.Movie, error)
}

type tmdbImportService struct {
	db            *gorm.DB
	log           *logger.Logger
	movieRepo     repos.MovieRepo
	tmdbClient    tmdb.Client
	bucketService gcp.BucketService
	mirrorPosters bool
	httpClient    *http.Client
}

func NewTMDbImportService(
	db *gorm.DB,
	log *logger.Logger,
	movieRepo repos.MovieRepo,
	tmdbClient tmdb.Client,
	bucketService gcp.BucketService,
) TMDbImportService {
	serviceLog := log.With("service", "TMDbImportService")
	mirror := strings.EqualFold(strings.TrimSpace(os.Getenv("TMDB_MIRROR_POSTERS")), "true")
	return &tmdbImportService{
		db:            db,
		log:           serviceLog,
		movieRepo:     movieRepo,
		tmdbClient:    tmdbClient,
		bucketService: bucketService,
		mirrorPosters: mirror,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (ts *tmdbImportService) SearchCatalog(ctx context.Context, query string, page int) ([]tmdb.SearchResult, error) {
	if ts.tmdbClient == nil {
		return nil, ErrTMDbNotConfigured
	}
	return ts.tmdbClient.SearchMovies(ctx, query, page)
}

func (ts *tmdbImportService) ImportMovie(ctx context.Context, tmdbID int64) (*types.Movie, error) {
	if ts.tmdbClient == nil {
		return nil, ErrTMDbNotConfigured
	}
	details, err := ts.tmdbClient.FetchMovie(ctx, tmdbID)
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch movie from TMDb: %w", err)
	}

	genres, mErr := json.Marshal(details.Genres)
	if mErr != nil {
		return nil, mErr
	}
	castMembers, mErr := json.Marshal(details.CastMembers)
	if mErr != nil {
		return nil, mErr
	}

	movie := &types.Movie{
		ID:          uuid.New(),
		TmdbID:      &details.TmdbID,
		Title:       details.Title,
		Synopsis:    details.Synopsis,
		Year:        details.Year,
		Runtime:     details.Runtime,
		Director:    details.Director,
		Genres:      datatypes.JSON(genres),
		CastMembers: datatypes.JSON(castMembers),
		PosterURL:   details.PosterURL,
		BackdropURL: details.BackdropURL,
		TrailerURL:  details.TrailerURL,
		Rating:      details.Rating,
	}

	// Best-effort: serve posters from our own bucket instead of hotlinking.
	if ts.mirrorPosters && movie.PosterURL != "" && ts.bucketService != nil {
		if mirrored, pErr := ts.mirrorPoster(ctx, details.TmdbID, movie.PosterURL); pErr != nil {
			ts.log.Warn("Failed to mirror poster (ignored)", "tmdbID", details.TmdbID, "error", pErr)
		} else {
			movie.PosterURL = mirrored
		}
	}

	if _, uErr := ts.movieRepo.UpsertByTmdbID(ctx, nil, []*types.Movie{movie}); uErr != nil {
		return nil, fmt.Errorf("Failed to upsert movie: %w", uErr)
	}

	// Re-read so the caller sees the surviving row on conflict.
	rows, gErr := ts.movieRepo.GetByTmdbIDs(ctx, nil, []int64{details.TmdbID})
	if gErr != nil {
		return nil, gErr
	}
	if len(rows) == 0 {
		return movie, nil
	}
	return rows[0], nil
}

func (ts *tmdbImportService) mirrorPoster(ctx context.Context, tmdbID int64, posterURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", posterURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("poster download http %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("poster/%d.jpg", tmdbID)
	if err := ts.bucketService.UploadFile(ctx, gcp.BucketCategoryPoster, key, bytes.NewReader(raw)); err != nil {
		return "", err
	}
	return ts.bucketService.GetPublicURL(gcp.BucketCategoryPoster, key), nil
}
