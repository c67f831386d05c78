package tools

import (
	"errors"
	"testing"

	"github.com/firebase/genkit/go/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmogomedia/kaya/internal/testutil"
)

func newTestKit(t *testing.T) (*Kit, *testutil.MusicStore) {
	t.Helper()
	store := testutil.SeedCatalog()
	kit, err := NewKit(KitConfig{Store: store})
	require.NoError(t, err)
	return kit, store
}

func TestNewKitRequiresStore(t *testing.T) {
	_, err := NewKit(KitConfig{})
	assert.Error(t, err)
}

func TestSearchTracks(t *testing.T) {
	kit, _ := newTestKit(t)

	out, err := kit.SearchTracks(nil, SearchTracksInput{Query: "amapiano"})
	require.NoError(t, err)
	assert.Len(t, out.Tracks, 4)
	assert.Equal(t, "amapiano", out.Query)
	// Ordered by play count.
	assert.Equal(t, "Midnight Groove", out.Tracks[0].Title)
}

func TestSearchTracksEmptyQuery(t *testing.T) {
	kit, _ := newTestKit(t)

	_, err := kit.SearchTracks(nil, SearchTracksInput{})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "InvalidArguments", toolErr.ErrorType)
}

func TestSearchTracksStoreFailure(t *testing.T) {
	kit, store := newTestKit(t)
	store.Err = errors.New("connection refused")

	_, err := kit.SearchTracks(nil, SearchTracksInput{Query: "amapiano"})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "StoreUnavailable", toolErr.ErrorType)
}

func TestSearchTracksLimitClamped(t *testing.T) {
	kit, _ := newTestKit(t)

	out, err := kit.SearchTracks(nil, SearchTracksInput{Query: "amapiano", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, out.Tracks, 2)
}

func TestTracksByGenre(t *testing.T) {
	kit, _ := newTestKit(t)

	out, err := kit.TracksByGenre(nil, TracksByGenreInput{Genre: "Afro House"})
	require.NoError(t, err)
	require.Len(t, out.Tracks, 1)
	assert.Equal(t, "Cape Sunrise", out.Tracks[0].Title)
	assert.Equal(t, "Afro House", out.Genre)
}

func TestTrendingTracksProvinceScope(t *testing.T) {
	kit, _ := newTestKit(t)

	out, err := kit.TrendingTracks(nil, TrendingTracksInput{Province: "Gauteng"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Tracks)
	for _, track := range out.Tracks {
		assert.NotEqual(t, "Cape Sunrise", track.Title)
	}
}

func TestGetArtist(t *testing.T) {
	kit, _ := newTestKit(t)

	out, err := kit.GetArtist(nil, GetArtistInput{ArtistID: "artist-1"})
	require.NoError(t, err)
	require.Len(t, out.Artists, 1)
	assert.Equal(t, "DJ Sizwe", out.Artists[0].Name)
}

func TestGetArtistNotFound(t *testing.T) {
	kit, _ := newTestKit(t)

	_, err := kit.GetArtist(nil, GetArtistInput{ArtistID: "artist-999"})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "NotFound", toolErr.ErrorType)
}

func TestFeaturedPlaylists(t *testing.T) {
	kit, _ := newTestKit(t)

	out, err := kit.FeaturedPlaylists(nil, FeaturedPlaylistsInput{})
	require.NoError(t, err)
	require.Len(t, out.Playlists, 1)
	assert.Equal(t, "Amapiano Heat", out.Playlists[0].Name)
}

func TestPlayTrack(t *testing.T) {
	kit, _ := newTestKit(t)

	out, err := kit.PlayTrack(nil, PlayTrackInput{Query: "Midnight Groove"})
	require.NoError(t, err)
	assert.Equal(t, ActionPlay, out.Action)
	require.NotNil(t, out.Track)
	assert.Equal(t, "track-1", out.Track.ID)
	assert.Contains(t, out.Message, "Midnight Groove")
}

func TestPlayTrackNoMatch(t *testing.T) {
	kit, _ := newTestKit(t)

	_, err := kit.PlayTrack(nil, PlayTrackInput{Query: "nonexistent song"})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "NotFound", toolErr.ErrorType)
}

func TestShufflePlayGenre(t *testing.T) {
	kit, _ := newTestKit(t)

	out, err := kit.ShufflePlay(nil, ShufflePlayInput{Genre: "Amapiano"})
	require.NoError(t, err)
	assert.Equal(t, ActionShuffle, out.Action)
	assert.Len(t, out.Tracks, 4)
	for _, track := range out.Tracks {
		assert.Equal(t, "Amapiano", track.Genre)
	}
}

func TestSkipTrack(t *testing.T) {
	kit, _ := newTestKit(t)

	out, err := kit.SkipTrack(nil, SkipTrackInput{})
	require.NoError(t, err)
	assert.Equal(t, ActionSkip, out.Action)
}

func TestGenreStats(t *testing.T) {
	kit, _ := newTestKit(t)

	out, err := kit.GenreStats(nil, GenreStatsInput{})
	require.NoError(t, err)
	require.Len(t, out.Genres, 2)
	assert.Equal(t, "Amapiano", out.Genres[0].Genre)
}

func TestNewToolJSONInputConversion(t *testing.T) {
	kit, _ := newTestKit(t)
	tool := NewTool(NameSearchTracks, "search", kit.SearchTracks)

	// The model hands tool inputs over as map[string]any.
	out, err := tool.Execute(&ai.ToolContext{}, map[string]any{"query": "amapiano", "limit": 3})
	require.NoError(t, err)

	results, ok := out.(TrackResults)
	require.True(t, ok, "expected TrackResults, got %T", out)
	assert.Len(t, results.Tracks, 3)
}

func TestToolErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *ToolError
		want string
	}{
		{"nil", nil, "<nil ToolError>"},
		{"empty", &ToolError{}, "<empty ToolError>"},
		{"type only", &ToolError{ErrorType: "NotFound"}, "NotFound"},
		{"message only", &ToolError{Message: "boom"}, "boom"},
		{"both", &ToolError{ErrorType: "NotFound", Message: "no such track"}, "NotFound: no such track"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestRegistryExecuteUnknownTool(t *testing.T) {
	r := newRegistry(nil)

	_, err := r.Execute(nil, "no_such_tool", nil)
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "UnknownTool", toolErr.ErrorType)
}

func TestRegistryAddAndLookup(t *testing.T) {
	kit, _ := newTestKit(t)
	r := newRegistry(nil)
	r.add(NewTool(NameSearchTracks, "search", kit.SearchTracks))

	assert.Equal(t, 1, r.Count())
	require.NotNil(t, r.Lookup(NameSearchTracks))
	assert.Nil(t, r.Lookup(NameSkipTrack))

	assert.Panics(t, func() {
		r.add(NewTool(NameSearchTracks, "dup", kit.SearchTracks))
	})
}
