package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubAgent records the queries it receives and returns a canned response.
type stubAgent struct {
	name    string
	queries []string
}

func (s *stubAgent) Name() string { return s.name }

func (s *stubAgent) Process(_ context.Context, query string, _ *AgentContext) *AgentResponse {
	s.queries = append(s.queries, query)
	return &AgentResponse{
		Message:  "handled by " + s.name,
		Metadata: ResponseMetadata{Agent: s.name},
	}
}

func newTestRouter() (*Router, *stubAgent, *stubAgent, *stubAgent) {
	discovery := &stubAgent{name: "discovery"}
	playback := &stubAgent{name: "playback"}
	recommendation := &stubAgent{name: "recommendation"}
	return NewRouter(discovery, playback, recommendation, nil), discovery, playback, recommendation
}

func TestDecisionPlaybackOnly(t *testing.T) {
	router, _, _, _ := newTestRouter()

	for _, query := range []string{
		"play Midnight Groove",
		"pause the music",
		"skip this one",
		"shuffle my queue",
	} {
		decision := router.Decision(query)
		assert.Equal(t, IntentPlayback, decision.Intent, "query %q", query)
		assert.Equal(t, "playback", decision.TargetAgent)
		assert.Greater(t, decision.Confidence, 0.0)
	}
}

func TestDecisionTieBreakPrefersPlayback(t *testing.T) {
	router, _, _, _ := newTestRouter()

	// One playback keyword and one recommendation keyword: the fixed
	// priority order resolves the tie, not the literal counts.
	decision := router.Decision("play and recommend something")
	assert.Equal(t, IntentPlayback, decision.Intent)
}

func TestDecisionRecommendationBeatsDiscoveryOnTie(t *testing.T) {
	router, _, _, _ := newTestRouter()

	decision := router.Decision("suggest a vibe")
	assert.Equal(t, IntentRecommendation, decision.Intent)
}

func TestDecisionUnknownFallsBackToDiscovery(t *testing.T) {
	router, _, _, _ := newTestRouter()

	decision := router.Decision("hello")
	assert.Equal(t, IntentUnknown, decision.Intent)
	assert.Zero(t, decision.Confidence)
	assert.Equal(t, "discovery", decision.TargetAgent)
}

func TestDecisionDiscovery(t *testing.T) {
	router, _, _, _ := newTestRouter()

	decision := router.Decision("find me Amapiano tracks")
	assert.Equal(t, IntentDiscovery, decision.Intent)
	assert.Equal(t, "discovery", decision.TargetAgent)
}

func TestDecisionConfidenceBounded(t *testing.T) {
	router, _, _, _ := newTestRouter()

	// A query stuffed with every playback keyword still caps at 1.
	query := "play pause stop resume skip next song queue shuffle repeat turn up turn down volume"
	decision := router.Decision(query)
	assert.Equal(t, IntentPlayback, decision.Intent)
	assert.LessOrEqual(t, decision.Confidence, 1.0)
	assert.Equal(t, 1.0, decision.Confidence)
}

func TestRouteDispatchesAndStampsIntent(t *testing.T) {
	router, discovery, playback, recommendation := newTestRouter()
	ctx := context.Background()

	resp := router.Route(ctx, "play something", nil)
	assert.Equal(t, IntentPlayback, resp.Metadata.Intent)
	assert.Len(t, playback.queries, 1)

	resp = router.Route(ctx, "suggest a vibe for me", nil)
	assert.Equal(t, IntentRecommendation, resp.Metadata.Intent)
	assert.Len(t, recommendation.queries, 1)

	resp = router.Route(ctx, "hello", nil)
	assert.Equal(t, IntentUnknown, resp.Metadata.Intent)
	assert.Len(t, discovery.queries, 1)
}
