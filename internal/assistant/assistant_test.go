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

// newTestAssistant assembles the full router over a mock model and the
// seeded catalogue.
func newTestAssistant(t *testing.T, mock *testutil.MockLLM) *Router {
	t.Helper()
	g := genkit.Init(context.Background())
	mock.RegisterModel(g)

	store := testutil.SeedCatalog()
	kit, err := tools.NewKit(tools.KitConfig{Store: store, Logger: log.NewNop()})
	require.NoError(t, err)
	registry := kit.Register(g)

	router, err := New(Config{
		Genkit:                    g,
		Registry:                  registry,
		Store:                     store,
		ModelName:                 "mock/test-model",
		MaxToolRounds:             3,
		CompiledPlaylistMaxTracks: 30,
		SupplementaryTracks:       5,
		MediaBaseURL:              "/api/stream",
		Logger:                    log.NewNop(),
	})
	require.NoError(t, err)
	return router
}

func TestEndToEndDiscoveryTrackList(t *testing.T) {
	mock := testutil.NewMockLLM("fallback")
	// Two tool calls return overlapping sets: search by text and by genre
	// both cover the whole amapiano catalogue.
	mock.AddToolResponse("amapiano", []*ai.ToolRequest{
		{Name: tools.NameSearchTracks, Ref: "c1", Input: map[string]any{"query": "amapiano"}},
		{Name: tools.NameTracksByGenre, Ref: "c2", Input: map[string]any{"genre": "amapiano"}},
	}, "Here are some amapiano tracks.")
	router := newTestAssistant(t, mock)

	resp := router.Route(context.Background(), "Find me Amapiano tracks", nil)

	assert.Equal(t, IntentDiscovery, resp.Metadata.Intent)
	assert.Equal(t, "discovery", resp.Metadata.Agent)
	assert.Equal(t, 2, resp.Metadata.ToolCalls)
	assert.False(t, resp.Metadata.Truncated)
	assert.Empty(t, resp.Metadata.Error)

	require.NotNil(t, resp.Data)
	require.Equal(t, VariantTrackList, resp.Data.Type)
	data := resp.Data.Data.(TrackListData)
	assert.Equal(t, "Amapiano", data.Metadata["genre"])

	// Seed catalogue holds 4 amapiano tracks; both tools returned all of
	// them, so dedup collapses 8 results to 4 unique identifiers.
	require.Len(t, data.Tracks, 4)
	seen := map[string]bool{}
	for _, track := range data.Tracks {
		assert.False(t, seen[track.ID], "duplicate track %s", track.ID)
		seen[track.ID] = true
		assert.NotEmpty(t, track.StreamURL)
	}
}

func TestEndToEndPlaybackAction(t *testing.T) {
	mock := testutil.NewMockLLM("fallback")
	mock.AddToolResponse("midnight groove", []*ai.ToolRequest{
		{Name: tools.NamePlayTrack, Ref: "c1", Input: map[string]any{"query": "Midnight Groove"}},
	}, "Playing it now.")
	router := newTestAssistant(t, mock)

	resp := router.Route(context.Background(), "play Midnight Groove", nil)

	assert.Equal(t, IntentPlayback, resp.Metadata.Intent)
	require.NotNil(t, resp.Data)
	require.Equal(t, VariantAction, resp.Data.Type)
	data := resp.Data.Data.(ActionData)
	assert.Equal(t, tools.ActionPlay, data.Action)
	require.NotNil(t, data.Track)
	assert.Equal(t, "track-1", data.Track.ID)
}

func TestEndToEndRecommendation(t *testing.T) {
	mock := testutil.NewMockLLM("fallback")
	mock.AddToolResponse("vibe", []*ai.ToolRequest{
		{Name: tools.NameTrendingTracks, Ref: "c1", Input: map[string]any{"limit": 3}},
	}, "These are trending.")
	router := newTestAssistant(t, mock)

	resp := router.Route(context.Background(), "suggest a vibe for tonight", nil)

	assert.Equal(t, IntentRecommendation, resp.Metadata.Intent)
	require.NotNil(t, resp.Data)
	require.Equal(t, VariantTrackList, resp.Data.Type)
	data := resp.Data.Data.(TrackListData)
	assert.Len(t, data.Tracks, 3)
	// Shallow normalization: no supplementary rail.
	assert.Empty(t, data.Other)
}

func TestEndToEndCompilePlaylist(t *testing.T) {
	mock := testutil.NewMockLLM("fallback")
	// The model returns no usable tool data; the normalizer backfills by
	// genre because the query asks for synthesis.
	router := newTestAssistant(t, mock)

	resp := router.Route(context.Background(), "create a playlist of amapiano tracks for me", nil)

	require.NotNil(t, resp.Data)
	require.Equal(t, VariantPlaylist, resp.Data.Type)
	data := resp.Data.Data.(PlaylistData)
	assert.Contains(t, data.Playlist.Name, "Amapiano")
	assert.NotEmpty(t, data.Playlist.Tracks)
}

func TestEndToEndTruncationFlagged(t *testing.T) {
	mock := testutil.NewMockLLM("fallback")
	mock.AddLoopingToolResponse("everything", []*ai.ToolRequest{
		{Name: tools.NameSearchTracks, Ref: "c", Input: map[string]any{"query": "amapiano"}},
	})
	router := newTestAssistant(t, mock)

	resp := router.Route(context.Background(), "find everything", nil)

	assert.True(t, resp.Metadata.Truncated)
	assert.Equal(t, 3, resp.Metadata.Iterations)
	// The tool data gathered before truncation is still normalized.
	require.NotNil(t, resp.Data)
	assert.Equal(t, VariantTrackList, resp.Data.Type)
}

func TestEndToEndEmptyResultsFallbackMessage(t *testing.T) {
	mock := testutil.NewMockLLM("")
	router := newTestAssistant(t, mock)

	resp := router.Route(context.Background(), "find xyzzy", nil)

	assert.Nil(t, resp.Data)
	assert.Equal(t, fallbackMessage, resp.Message)
}

func TestAgentBoundaryConvertsModelFailure(t *testing.T) {
	g := genkit.Init(context.Background())
	store := testutil.SeedCatalog()
	kit, err := tools.NewKit(tools.KitConfig{Store: store, Logger: log.NewNop()})
	require.NoError(t, err)
	registry := kit.Register(g)

	// No model registered under this name: every generate call fails.
	router, err := New(Config{
		Genkit:                    g,
		Registry:                  registry,
		Store:                     store,
		ModelName:                 "mock/absent-model",
		MaxToolRounds:             3,
		CompiledPlaylistMaxTracks: 30,
		SupplementaryTracks:       5,
		Logger:                    log.NewNop(),
	})
	require.NoError(t, err)

	resp := router.Route(context.Background(), "find amapiano", nil)

	require.NotNil(t, resp)
	assert.Equal(t, apologyMessage, resp.Message)
	assert.NotEmpty(t, resp.Metadata.Error)
	assert.Nil(t, resp.Data)
}

func TestNewValidatesConfig(t *testing.T) {
	g := genkit.Init(context.Background())
	store := testutil.SeedCatalog()
	kit, err := tools.NewKit(tools.KitConfig{Store: store})
	require.NoError(t, err)
	registry := kit.Register(g)

	base := Config{
		Genkit:        g,
		Registry:      registry,
		Store:         store,
		ModelName:     "mock/test-model",
		MaxToolRounds: 3,
	}

	for name, mutate := range map[string]func(*Config){
		"missing genkit":   func(c *Config) { c.Genkit = nil },
		"missing registry": func(c *Config) { c.Registry = nil },
		"missing store":    func(c *Config) { c.Store = nil },
		"missing model":    func(c *Config) { c.ModelName = "" },
		"zero rounds":      func(c *Config) { c.MaxToolRounds = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			_, err := New(cfg)
			assert.Error(t, err)
		})
	}
}
