package assistant

import (
	"context"
	"testing"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmogomedia/kaya/internal/log"
	"github.com/mmogomedia/kaya/internal/testutil"
	"github.com/mmogomedia/kaya/internal/tools"
)

// newTestEngine wires a mock model, the seeded catalogue and a registry
// into an engine with the given round cap.
func newTestEngine(t *testing.T, mock *testutil.MockLLM, maxRounds int) *engine {
	t.Helper()
	g := genkit.Init(context.Background())
	mock.RegisterModel(g)

	kit, err := tools.NewKit(tools.KitConfig{Store: testutil.SeedCatalog(), Logger: log.NewNop()})
	require.NoError(t, err)
	registry := kit.Register(g)

	return &engine{
		g:         g,
		registry:  registry,
		modelName: "mock/test-model",
		maxRounds: maxRounds,
		retry:     DefaultRetryConfig(),
		logger:    log.NewNop(),
	}
}

func searchRequest(ref, query string) *ai.ToolRequest {
	return &ai.ToolRequest{
		Name:  tools.NameSearchTracks,
		Ref:   ref,
		Input: map[string]any{"query": query},
	}
}

func TestLoopTextOnlyAnswer(t *testing.T) {
	mock := testutil.NewMockLLM("Just vibes, no tools needed.")
	eng := newTestEngine(t, mock, 3)

	res, err := eng.run(context.Background(), "system", eng.registry.Refs(), nil, "hello there")
	require.NoError(t, err)

	assert.Equal(t, "Just vibes, no tools needed.", res.finalText)
	assert.Equal(t, 1, res.iterations)
	assert.False(t, res.truncated)
	assert.Empty(t, res.results)
}

func TestLoopToolRoundThenAnswer(t *testing.T) {
	mock := testutil.NewMockLLM("fallback")
	mock.AddToolResponse("amapiano", []*ai.ToolRequest{searchRequest("call-1", "amapiano")}, "Here you go.")
	eng := newTestEngine(t, mock, 3)

	res, err := eng.run(context.Background(), "system", eng.registry.Refs(), nil, "find amapiano tracks")
	require.NoError(t, err)

	assert.Equal(t, 2, res.iterations)
	assert.False(t, res.truncated)
	require.Len(t, res.results, 1)
	assert.Equal(t, tools.NameSearchTracks, res.results[0].Name)
	assert.Empty(t, res.results[0].Err)

	out, ok := res.results[0].Output.(tools.TrackResults)
	require.True(t, ok, "expected TrackResults, got %T", res.results[0].Output)
	assert.NotEmpty(t, out.Tracks)
}

func TestLoopTruncatesAtRoundCap(t *testing.T) {
	mock := testutil.NewMockLLM("fallback")
	mock.AddLoopingToolResponse("keep searching", []*ai.ToolRequest{searchRequest("call-n", "amapiano")})
	eng := newTestEngine(t, mock, 3)

	res, err := eng.run(context.Background(), "system", eng.registry.Refs(), nil, "keep searching forever")
	require.NoError(t, err)

	assert.Equal(t, 3, res.iterations)
	assert.True(t, res.truncated)
	assert.Len(t, res.results, 3)
}

func TestLoopToolErrorFedBackAsData(t *testing.T) {
	mock := testutil.NewMockLLM("fallback")
	// Empty query makes search_tracks return a ToolError.
	mock.AddToolResponse("broken", []*ai.ToolRequest{{
		Name:  tools.NameSearchTracks,
		Ref:   "call-1",
		Input: map[string]any{},
	}}, "Could not search, sorry.")
	eng := newTestEngine(t, mock, 3)

	res, err := eng.run(context.Background(), "system", eng.registry.Refs(), nil, "broken tool call")
	require.NoError(t, err, "tool failures must not raise past the loop boundary")

	require.Len(t, res.results, 1)
	assert.Contains(t, res.results[0].Err, "query is required")
	assert.Nil(t, res.results[0].Output)
	assert.Equal(t, "Could not search, sorry.", res.finalText)
	assert.False(t, res.truncated)
}

func TestLoopUnknownToolFedBackAsData(t *testing.T) {
	mock := testutil.NewMockLLM("fallback")
	mock.AddToolResponse("mystery", []*ai.ToolRequest{{
		Name:  "no_such_tool",
		Ref:   "call-1",
		Input: map[string]any{},
	}}, "Never mind.")
	eng := newTestEngine(t, mock, 3)

	res, err := eng.run(context.Background(), "system", eng.registry.Refs(), nil, "mystery request")
	require.NoError(t, err)

	require.Len(t, res.results, 1)
	assert.Contains(t, res.results[0].Err, "no_such_tool")
}

func TestLoopDoesNotMutateCallerHistory(t *testing.T) {
	mock := testutil.NewMockLLM("done")
	eng := newTestEngine(t, mock, 3)

	history := []*ai.Message{ai.NewUserMessage(ai.NewTextPart("earlier question"))}
	uc := &AgentContext{History: history}

	_, err := eng.run(context.Background(), "system", eng.registry.Refs(), uc, "new question")
	require.NoError(t, err)

	require.Len(t, uc.History, 1)
	assert.Equal(t, "earlier question", uc.History[0].Text())
}
