package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmogomedia/kaya/internal/tools"
)

const apologyMessage = "Sorry, something went wrong while handling that. Please try again in a moment."

// fallbackMessage covers the case where the model produced neither text nor
// usable tool data.
const fallbackMessage = "I couldn't find anything for that. Try naming a track, artist or genre."

const discoverySystemPrompt = `You are Kaya, the music guide for a South African streaming platform.
Help listeners find tracks, artists, playlists and genres in the catalogue.

Use the provided tools to look up real catalogue data before answering.
Prefer tracks_by_genre when the listener names a genre such as amapiano,
gqom or afro house. Never invent tracks or artists that the tools did not
return. When the tools come back empty, say so plainly and suggest a
different search. Keep answers short and warm.`

// discoveryToolNames is the fixed tool subset the discovery agent exposes.
var discoveryToolNames = []string{
	tools.NameSearchTracks,
	tools.NameSearchArtists,
	tools.NameSearchPlaylists,
	tools.NameTracksByGenre,
	tools.NameTrendingTracks,
	tools.NameFeaturedPlaylists,
	tools.NameGetArtist,
	tools.NameGenreStats,
}

// DiscoveryAgent handles catalogue search and browsing queries. It is also
// the fallback for unclassifiable queries, and owns the full normalization
// pipeline including playlist compilation.
type DiscoveryAgent struct {
	engine     *engine
	normalizer *Normalizer
	logger     *slog.Logger
}

// NewDiscoveryAgent creates the discovery agent over a shared engine.
func NewDiscoveryAgent(e *engine, n *Normalizer, logger *slog.Logger) *DiscoveryAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiscoveryAgent{engine: e, normalizer: n, logger: logger}
}

// Name implements Agent.
func (a *DiscoveryAgent) Name() string { return "discovery" }

// Process implements Agent. It never returns an error: failures become an
// apology response with Metadata.Error set.
func (a *DiscoveryAgent) Process(ctx context.Context, query string, uc *AgentContext) (resp *AgentResponse) {
	defer recoverToApology(a.Name(), a.logger, &resp)

	res, err := a.engine.run(ctx, withFilters(discoverySystemPrompt, uc), a.engine.registry.RefsFor(discoveryToolNames...), uc, query)
	if err != nil {
		a.logger.Error("discovery run failed", "error", err)
		return errorResponse(a.Name(), err)
	}

	variant := a.normalizer.Normalize(ctx, query, res.results)
	return buildResponse(a.Name(), res, variant)
}

// withFilters appends the caller's active catalogue filters to the system
// prompt so the model scopes its tool calls accordingly.
func withFilters(prompt string, uc *AgentContext) string {
	if uc == nil || (uc.Genre == "" && uc.Province == "") {
		return prompt
	}
	var filters []string
	if uc.Genre != "" {
		filters = append(filters, "genre="+uc.Genre)
	}
	if uc.Province != "" {
		filters = append(filters, "province="+uc.Province)
	}
	return prompt + "\n\nActive listener filters: " + strings.Join(filters, ", ") + "."
}

// buildResponse assembles the terminal AgentResponse from a loop result and
// an optional variant. The variant's message wins when present; otherwise
// the model's final text, otherwise the generic fallback.
func buildResponse(agent string, res *loopResult, variant *Variant) *AgentResponse {
	message := strings.TrimSpace(res.finalText)
	if variant != nil {
		message = variant.Message
	}
	if message == "" {
		message = fallbackMessage
	}

	return &AgentResponse{
		Message: message,
		Data:    variant,
		Metadata: ResponseMetadata{
			Agent:      agent,
			Iterations: res.iterations,
			ToolCalls:  len(res.results),
			Truncated:  res.truncated,
		},
	}
}

// errorResponse converts a failure into the user-safe apology shape.
func errorResponse(agent string, err error) *AgentResponse {
	return &AgentResponse{
		Message: apologyMessage,
		Metadata: ResponseMetadata{
			Agent: agent,
			Error: err.Error(),
		},
	}
}

// recoverToApology converts a panic anywhere below the agent boundary into
// an apology response. The caller must never see a raw panic.
func recoverToApology(agent string, logger *slog.Logger, resp **AgentResponse) {
	if r := recover(); r != nil {
		logger.Error("agent panicked", "agent", agent, "panic", r)
		*resp = errorResponse(agent, fmt.Errorf("internal error: %v", r))
	}
}
