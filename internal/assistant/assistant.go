// Package assistant implements the conversational core of the platform:
// an intent router over three specialized agents, a bounded tool-call loop
// between the model and the catalogue tools, and a normalizer that shapes
// heterogeneous tool outputs into typed renderable variants.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"golang.org/x/time/rate"

	"github.com/mmogomedia/kaya/internal/music"
	"github.com/mmogomedia/kaya/internal/tools"
)

// Config holds everything needed to assemble the assistant.
type Config struct {
	Genkit   *genkit.Genkit
	Registry *tools.Registry
	Store    music.Store

	ModelName   string // provider-qualified, e.g. "googleai/gemini-2.5-flash"
	Temperature float32
	MaxTokens   int

	// MaxToolRounds caps model round-trips per query.
	MaxToolRounds int
	// CompiledPlaylistMaxTracks caps tracks in a compiled playlist.
	CompiledPlaylistMaxTracks int
	// SupplementaryTracks caps the track_list "other" rail.
	SupplementaryTracks int

	MediaBaseURL string

	// TrackSummaries enables the best-effort per-track summary call on
	// track_list responses. Off by default: it costs one model call per
	// track.
	TrackSummaries bool

	// ModelQPS limits generate calls per second across all agents.
	// Zero disables limiting.
	ModelQPS float64

	Retry  *RetryConfig
	Logger *slog.Logger
}

// New assembles the router and its three agents over a shared engine.
func New(cfg Config) (*Router, error) {
	if cfg.Genkit == nil {
		return nil, fmt.Errorf("assistant: Genkit instance is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("assistant: tool registry is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("assistant: music store is required")
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("assistant: model name is required")
	}
	if cfg.MaxToolRounds < 1 {
		return nil, fmt.Errorf("assistant: MaxToolRounds must be at least 1, got %d", cfg.MaxToolRounds)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	retryCfg := DefaultRetryConfig()
	if cfg.Retry != nil {
		retryCfg = *cfg.Retry
	}

	var limiter *rate.Limiter
	if cfg.ModelQPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.ModelQPS), 1)
	}

	var genConfig *ai.GenerationCommonConfig
	if cfg.Temperature > 0 || cfg.MaxTokens > 0 {
		genConfig = &ai.GenerationCommonConfig{
			Temperature:     float64(cfg.Temperature),
			MaxOutputTokens: cfg.MaxTokens,
		}
	}

	eng := &engine{
		g:         cfg.Genkit,
		registry:  cfg.Registry,
		modelName: cfg.ModelName,
		config:    genConfig,
		maxRounds: cfg.MaxToolRounds,
		limiter:   limiter,
		retry:     retryCfg,
		logger:    logger,
	}

	var summarize Summarizer
	if cfg.TrackSummaries {
		summarize = newModelSummarizer(cfg.Genkit, cfg.ModelName)
	}

	normalizer := NewNormalizer(
		cfg.Store,
		cfg.MediaBaseURL,
		cfg.CompiledPlaylistMaxTracks,
		cfg.SupplementaryTracks,
		summarize,
		logger,
	)

	discovery := NewDiscoveryAgent(eng, normalizer, logger)
	playback := NewPlaybackAgent(eng, logger)
	recommendation := NewRecommendationAgent(eng, normalizer, logger)

	return NewRouter(discovery, playback, recommendation, logger), nil
}

// newModelSummarizer builds the secondary text-generation call used for
// per-track blurbs on track_list responses.
func newModelSummarizer(g *genkit.Genkit, modelName string) Summarizer {
	return func(ctx context.Context, track music.Track) (string, error) {
		resp, err := genkit.Generate(ctx, g,
			ai.WithModelName(modelName),
			ai.WithSystem("Write one short, warm sentence introducing a track to a listener. No quotes, no emoji."),
			ai.WithMessages(ai.NewUserMessage(ai.NewTextPart(
				fmt.Sprintf("Track: %s. Artist: %s. Genre: %s.", track.Title, track.ArtistName, track.Genre),
			))),
		)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(resp.Text()), nil
	}
}
