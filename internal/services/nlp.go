package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filmpulse/filmpulse-backend/internal/clients/openai"
	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/repos"
	"github.com/filmpulse/filmpulse-backend/internal/timeline"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

const nlpSystemPrompt = `You analyze written movie reviews and produce an emotional intensity timeline.
Respond with ONLY a JSON array of objects, each {"t_offset": <0-100>, "score": <0-10>}.
t_offset is the percentage of the movie's runtime, score is the emotional intensity at that moment.
Return 10 to 20 points sorted by t_offset. No prose, no markdown.`

// Sentinel errors let the handler separate caller mistakes from upstream
// model failures when choosing a status code.
var (
	// ErrModelNotConfigured is returned when no language model client was
	// wired at startup (missing OPENAI_API_KEY).
	ErrModelNotConfigured = errors.New("Language model client is not configured")
	// ErrNoReviewText means the movie has no non-empty public review text.
	ErrNoReviewText = errors.New("No review text available for analysis")
	// ErrModelRequestFailed wraps transport failures talking to the model.
	ErrModelRequestFailed = errors.New("Model request failed")
	// ErrModelOutputRejected wraps model output that did not parse as a
	// valid timeline.
	ErrModelOutputRejected = errors.New("Model output rejected")
)

type NLPService interface {
	// AnalyzeMovieReviews feeds the movie's approved review texts through the
	// language model and stores the parsed timeline as a system-attributed
	// nlp_analysis graph. Malformed model output fails the whole call; no
	// graph row is written.
	AnalyzeMovieReviews(ctx context.Context, movieID uuid.UUID) (*types.EmotionGraph, error)
}

type nlpService struct {
	db         *gorm.DB
	log        *logger.Logger
	movieRepo  repos.MovieRepo
	reviewRepo repos.ManualReviewRepo
	graphRepo  repos.EmotionGraphRepo
	ai         openai.Client
}

func NewNLPService(
	db *gorm.DB,
	log *logger.Logger,
	movieRepo repos.MovieRepo,
	reviewRepo repos.ManualReviewRepo,
	graphRepo repos.EmotionGraphRepo,
	ai openai.Client,
) NLPService {
	serviceLog := log.With("service", "NLPService")
	return &nlpService{
		db:         db,
		log:        serviceLog,
		movieRepo:  movieRepo,
		reviewRepo: reviewRepo,
		graphRepo:  graphRepo,
		ai:         ai,
	}
}

func (ns *nlpService) AnalyzeMovieReviews(ctx context.Context, movieID uuid.UUID) (*types.EmotionGraph, error) {
	if ns.ai == nil {
		return nil, ErrModelNotConfigured
	}
	movies, err := ns.movieRepo.GetByIDs(ctx, nil, []uuid.UUID{movieID})
	if err != nil {
		return nil, fmt.Errorf("Failed to load movie: %w", err)
	}
	if len(movies) == 0 {
		return nil, ErrMovieNotFound
	}
	movie := movies[0]

	reviews, rErr := ns.reviewRepo.ListByMovie(ctx, nil, movieID, true)
	if rErr != nil {
		return nil, fmt.Errorf("Failed to load reviews: %w", rErr)
	}

	var texts []string
	for _, r := range reviews {
		if t := strings.TrimSpace(r.ReviewText); t != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) == 0 {
		return nil, ErrNoReviewText
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Movie: %s\n", movie.Title)
	if movie.Synopsis != "" {
		fmt.Fprintf(&prompt, "Synopsis: %s\n", movie.Synopsis)
	}
	prompt.WriteString("\nReviews:\n")
	for i, t := range texts {
		fmt.Fprintf(&prompt, "%d. %s\n", i+1, t)
	}

	raw, aiErr := ns.ai.GenerateText(ctx, nlpSystemPrompt, prompt.String())
	if aiErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelRequestFailed, aiErr)
	}

	points, pErr := timeline.ParseModelTimeline(raw)
	if pErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelOutputRejected, pErr)
	}

	graph := &types.EmotionGraph{
		ID:               uuid.New(),
		MovieID:          movieID,
		SourceType:       timeline.SourceNLPAnalysis,
		IsPublic:         true,
		ModerationStatus: types.ModerationApproved,
	}
	if sErr := graph.SetPoints(points); sErr != nil {
		return nil, fmt.Errorf("Failed to serialize parsed points: %w", sErr)
	}
	if _, cErr := ns.graphRepo.Create(ctx, nil, []*types.EmotionGraph{graph}); cErr != nil {
		return nil, fmt.Errorf("Failed to create nlp graph: %w", cErr)
	}

	ns.log.Info("Stored NLP analysis graph", "movieID", movieID, "points", len(points), "reviews", len(texts))
	return graph, nil
}
