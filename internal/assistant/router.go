package assistant

import (
	"context"
	"log/slog"
	"strings"
)

// Intent is the coarse category assigned to a user query.
type Intent string

const (
	IntentDiscovery      Intent = "discovery"
	IntentPlayback       Intent = "playback"
	IntentRecommendation Intent = "recommendation"
	IntentUnknown        Intent = "unknown"
)

// RoutingDecision is the router's verdict for one query.
type RoutingDecision struct {
	Intent      Intent  `json:"intent"`
	Confidence  float64 `json:"confidence"`
	TargetAgent string  `json:"target_agent"`
}

// Agent handles one intent category. Process never returns an error: all
// failures are recovered at the agent boundary into an apology response
// with Metadata.Error set.
type Agent interface {
	Name() string
	Process(ctx context.Context, query string, uc *AgentContext) *AgentResponse
}

// Router scores a query against the intent keyword lists and dispatches to
// the matching agent. Scoring is deterministic keyword counting rather than
// a model call: it runs with zero external latency and is unit-testable on
// its own.
type Router struct {
	discovery      Agent
	playback       Agent
	recommendation Agent
	logger         *slog.Logger
}

// NewRouter creates a router over the three specialized agents.
func NewRouter(discovery, playback, recommendation Agent, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		discovery:      discovery,
		playback:       playback,
		recommendation: recommendation,
		logger:         logger,
	}
}

// countMatches counts how many keywords appear as substrings of the
// lower-cased query.
func countMatches(query string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(query, kw) {
			count++
		}
	}
	return count
}

// Classify scores a query against the intent keyword lists. It is
// synchronous, side-effect-free, and needs no agents, so callers can use
// it for inspection without assembling the assistant.
//
// Ties resolve by fixed priority playback > recommendation > discovery:
// action words are rarer and more decisive than general nouns, so a query
// containing both "play" and "recommend" routes to playback.
func Classify(query string) RoutingDecision {
	q := strings.ToLower(query)

	playbackScore := countMatches(q, playbackKeywords)
	recommendationScore := countMatches(q, recommendationKeywords)
	discoveryScore := countMatches(q, discoveryKeywords)

	maxScore := max(playbackScore, recommendationScore, discoveryScore)
	if maxScore == 0 {
		return RoutingDecision{
			Intent:      IntentUnknown,
			Confidence:  0,
			TargetAgent: "discovery",
		}
	}

	confidence := func(score int, keywords []string) float64 {
		return min(float64(score)/float64(len(keywords)), 1)
	}

	switch {
	case playbackScore == maxScore:
		return RoutingDecision{
			Intent:      IntentPlayback,
			Confidence:  confidence(playbackScore, playbackKeywords),
			TargetAgent: "playback",
		}
	case recommendationScore == maxScore:
		return RoutingDecision{
			Intent:      IntentRecommendation,
			Confidence:  confidence(recommendationScore, recommendationKeywords),
			TargetAgent: "recommendation",
		}
	default:
		return RoutingDecision{
			Intent:      IntentDiscovery,
			Confidence:  confidence(discoveryScore, discoveryKeywords),
			TargetAgent: "discovery",
		}
	}
}

// Decision classifies a query without executing it.
func (r *Router) Decision(query string) RoutingDecision {
	return Classify(query)
}

// Route classifies the query and delegates to the matching agent. The router
// itself never fails: absence of signal degrades to the discovery agent with
// unknown intent.
func (r *Router) Route(ctx context.Context, query string, uc *AgentContext) *AgentResponse {
	decision := r.Decision(query)

	r.logger.Debug("routing query",
		"intent", decision.Intent,
		"confidence", decision.Confidence,
		"agent", decision.TargetAgent,
	)

	var agent Agent
	switch decision.Intent {
	case IntentPlayback:
		agent = r.playback
	case IntentRecommendation:
		agent = r.recommendation
	default:
		agent = r.discovery
	}

	resp := agent.Process(ctx, query, uc)
	resp.Metadata.Intent = decision.Intent
	return resp
}
