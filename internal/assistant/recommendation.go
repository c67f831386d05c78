package assistant

import (
	"context"
	"log/slog"

	"github.com/mmogomedia/kaya/internal/tools"
)

const recommendationSystemPrompt = `You are Kaya, the music recommender for a South African streaming
platform. The listener wants suggestions tuned to their taste or mood.

Use the tools to ground every suggestion in real catalogue data: trending
tracks, genre listings, featured playlists and listener statistics per
province. Lead with why a pick fits, in one sentence each. Never suggest
music the tools did not return.`

// recommendationToolNames is the discovery tool subset plus the analytics
// tools, since good suggestions draw on both.
var recommendationToolNames = []string{
	tools.NameSearchTracks,
	tools.NameSearchArtists,
	tools.NameTracksByGenre,
	tools.NameTrendingTracks,
	tools.NameFeaturedPlaylists,
	tools.NameGenreStats,
	tools.NameProvinceStats,
}

// RecommendationAgent handles taste and mood queries. Its normalization is
// shallower than discovery's: results pass through without compilation,
// summaries or the supplementary rail, because recommendations read as
// commentary rather than as a browsable result page.
type RecommendationAgent struct {
	engine     *engine
	normalizer *Normalizer
	logger     *slog.Logger
}

// NewRecommendationAgent creates the recommendation agent over a shared engine.
func NewRecommendationAgent(e *engine, n *Normalizer, logger *slog.Logger) *RecommendationAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecommendationAgent{engine: e, normalizer: n, logger: logger}
}

// Name implements Agent.
func (a *RecommendationAgent) Name() string { return "recommendation" }

// Process implements Agent.
func (a *RecommendationAgent) Process(ctx context.Context, query string, uc *AgentContext) (resp *AgentResponse) {
	defer recoverToApology(a.Name(), a.logger, &resp)

	res, err := a.engine.run(ctx, withFilters(recommendationSystemPrompt, uc), a.engine.registry.RefsFor(recommendationToolNames...), uc, query)
	if err != nil {
		a.logger.Error("recommendation run failed", "error", err)
		return errorResponse(a.Name(), err)
	}

	variant := a.normalizer.NormalizeShallow(ctx, query, res.results)
	return buildResponse(a.Name(), res, variant)
}
