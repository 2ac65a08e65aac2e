package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/filmpulse/filmpulse-backend/internal/httpx"
	"github.com/filmpulse/filmpulse-backend/internal/logger"
)

const (
	posterBase   = "https://image.tmdb.org/t/p/w500"
	backdropBase = "https://image.tmdb.org/t/p/original"
)

type SearchResult struct {
	TmdbID      int64  `json:"tmdb_id"`
	Title       string `json:"title"`
	Synopsis    string `json:"synopsis"`
	Year        *int   `json:"year"`
	PosterURL   string `json:"poster_url"`
	VoteAverage float64 `json:"vote_average"`
}

// MovieDetails is the merged result of the details, credits and videos
// endpoints for a single movie.
type MovieDetails struct {
	TmdbID      int64
	Title       string
	Synopsis    string
	Year        *int
	Runtime     *int
	Director    string
	Genres      []string
	CastMembers []string
	PosterURL   string
	BackdropURL string
	TrailerURL  string
	Rating      *float64
}

// Client is the TMDb API client used by the catalog import pipeline.
type Client interface {
	SearchMovies(ctx context.Context, query string, page int) ([]SearchResult, error)
	FetchMovie(ctx context.Context, tmdbID int64) (*MovieDetails, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client

	maxRetries int
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	apiKey := strings.TrimSpace(os.Getenv("TMDB_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing TMDB_API_KEY")
	}

	baseURL := strings.TrimSpace(os.Getenv("TMDB_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api.themoviedb.org/3"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeoutSec := 30
	if v := os.Getenv("TMDB_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	maxRetries := 3
	if v := os.Getenv("TMDB_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	return &client{
		log:        log.With("service", "TMDbClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

type tmdbHTTPError struct {
	StatusCode int
	Body       string
}

func (e *tmdbHTTPError) Error() string {
	return fmt.Sprintf("tmdb http %d: %s", e.StatusCode, e.Body)
}

func (e *tmdbHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) doOnce(ctx context.Context, path string, query url.Values) (*http.Response, []byte, error) {
	q := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &tmdbHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) get(ctx context.Context, path string, query url.Values, out any) error {
	backoff := 500 * time.Millisecond

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, path, query)
		if err == nil {
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("tmdb decode error: %w; raw=%s", uErr, string(raw))
			}
			return nil
		}

		if !httpx.IsRetryableError(err) {
			return err
		}
		if attempt == c.maxRetries {
			return err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 5*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		c.log.Warn("TMDb request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}

type searchResponse struct {
	Results []struct {
		ID          int64   `json:"id"`
		Title       string  `json:"title"`
		Overview    string  `json:"overview"`
		ReleaseDate string  `json:"release_date"`
		PosterPath  string  `json:"poster_path"`
		VoteAverage float64 `json:"vote_average"`
	} `json:"results"`
}

func (c *client) SearchMovies(ctx context.Context, query string, page int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query required")
	}
	if page <= 0 {
		page = 1
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("include_adult", "false")

	var resp searchResponse
	if err := c.get(ctx, "/search/movie", q, &resp); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		sr := SearchResult{
			TmdbID:      r.ID,
			Title:       r.Title,
			Synopsis:    r.Overview,
			Year:        releaseYear(r.ReleaseDate),
			VoteAverage: r.VoteAverage,
		}
		if r.PosterPath != "" {
			sr.PosterURL = posterBase + r.PosterPath
		}
		results = append(results, sr)
	}
	return results, nil
}

type detailsResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	Runtime     int     `json:"runtime"`
	PosterPath  string  `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
	VoteAverage float64 `json:"vote_average"`
	Genres      []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

type creditsResponse struct {
	Cast []struct {
		Name  string `json:"name"`
		Order int    `json:"order"`
	} `json:"cast"`
	Crew []struct {
		Name string `json:"name"`
		Job  string `json:"job"`
	} `json:"crew"`
}

type videosResponse struct {
	Results []struct {
		Key      string `json:"key"`
		Site     string `json:"site"`
		Type     string `json:"type"`
		Official bool   `json:"official"`
	} `json:"results"`
}

// FetchMovie fans out to the details, credits and videos endpoints
// concurrently and merges the results.
func (c *client) FetchMovie(ctx context.Context, tmdbID int64) (*MovieDetails, error) {
	if tmdbID <= 0 {
		return nil, fmt.Errorf("tmdb id required")
	}

	base := fmt.Sprintf("/movie/%d", tmdbID)

	var (
		details detailsResponse
		credits creditsResponse
		videos  videosResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.get(gctx, base, nil, &details) })
	g.Go(func() error { return c.get(gctx, base+"/credits", nil, &credits) })
	g.Go(func() error { return c.get(gctx, base+"/videos", nil, &videos) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &MovieDetails{
		TmdbID:   details.ID,
		Title:    details.Title,
		Synopsis: details.Overview,
		Year:     releaseYear(details.ReleaseDate),
	}
	if details.Runtime > 0 {
		runtime := details.Runtime
		out.Runtime = &runtime
	}
	if details.VoteAverage > 0 {
		rating := details.VoteAverage
		out.Rating = &rating
	}
	if details.PosterPath != "" {
		out.PosterURL = posterBase + details.PosterPath
	}
	if details.BackdropPath != "" {
		out.BackdropURL = backdropBase + details.BackdropPath
	}
	for _, g := range details.Genres {
		if g.Name != "" {
			out.Genres = append(out.Genres, g.Name)
		}
	}

	for _, crew := range credits.Crew {
		if crew.Job == "Director" {
			out.Director = crew.Name
			break
		}
	}
	for _, cast := range credits.Cast {
		if cast.Order < 10 && cast.Name != "" {
			out.CastMembers = append(out.CastMembers, cast.Name)
		}
	}

	// Prefer an official YouTube trailer; fall back to any YouTube trailer.
	var fallback string
	for _, v := range videos.Results {
		if v.Site != "YouTube" || v.Type != "Trailer" || v.Key == "" {
			continue
		}
		watchURL := "https://www.youtube.com/watch?v=" + v.Key
		if v.Official {
			out.TrailerURL = watchURL
			break
		}
		if fallback == "" {
			fallback = watchURL
		}
	}
	if out.TrailerURL == "" {
		out.TrailerURL = fallback
	}

	return out, nil
}

func releaseYear(releaseDate string) *int {
	releaseDate = strings.TrimSpace(releaseDate)
	if len(releaseDate) < 4 {
		return nil
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil {
		return nil
	}
	return &year
}
