package tools

import (
	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// Tool name constants. The router and normalizer reference tool calls by
// name, so these are the single source of truth.
const (
	NameSearchTracks      = "search_tracks"
	NameSearchArtists     = "search_artists"
	NameSearchPlaylists   = "search_playlists"
	NameTracksByGenre     = "tracks_by_genre"
	NameTrendingTracks    = "trending_tracks"
	NameFeaturedPlaylists = "featured_playlists"
	NameGetArtist         = "get_artist"
	NameGenreStats        = "genre_stats"
	NameProvinceStats     = "province_stats"
	NamePlayTrack         = "play_track"
	NameQueueTrack        = "queue_track"
	NameShufflePlay       = "shuffle_play"
	NameSkipTrack         = "skip_track"
)

var toolNames = []string{
	NameSearchTracks,
	NameSearchArtists,
	NameSearchPlaylists,
	NameTracksByGenre,
	NameTrendingTracks,
	NameFeaturedPlaylists,
	NameGetArtist,
	NameGenreStats,
	NameProvinceStats,
	NamePlayTrack,
	NameQueueTrack,
	NameShufflePlay,
	NameSkipTrack,
}

// ToolNames returns all registered tool names.
func ToolNames() []string {
	return toolNames
}

// define registers one tool in both places it is needed: with Genkit for
// input schema generation and model exposure, and in the Registry for
// execution during the tool-call loop.
func define[In, Out any](
	g *genkit.Genkit,
	r *Registry,
	name, description string,
	handler func(*ai.ToolContext, In) (Out, error),
) {
	genkit.DefineTool(g, name, description, handler)
	r.add(NewTool(name, description, handler))
}

// Register wires the Kit's tools into Genkit and returns the Registry used
// to execute them.
func (k *Kit) Register(g *genkit.Genkit) *Registry {
	r := newRegistry(g)

	define(g, r, NameSearchTracks,
		"Search the catalogue for tracks by title, artist name or genre. "+
			"Use this for any request to find specific songs or music matching a phrase.",
		k.SearchTracks)

	define(g, r, NameSearchArtists,
		"Search the catalogue for artists by name or genre. "+
			"Use this when the user asks about a musician, DJ, band or producer.",
		k.SearchArtists)

	define(g, r, NameSearchPlaylists,
		"Search user and editorial playlists by name or description.",
		k.SearchPlaylists)

	define(g, r, NameTracksByGenre,
		"List tracks in a specific genre such as amapiano, gqom, afro house, kwaito or gospel, "+
			"most played first. Prefer this over search_tracks when the request names a genre.",
		k.TracksByGenre)

	define(g, r, NameTrendingTracks,
		"Get the most played tracks right now, optionally scoped to a South African province. "+
			"Use this for requests about what is hot, popular or trending.",
		k.TrendingTracks)

	define(g, r, NameFeaturedPlaylists,
		"Get the platform's editorially featured playlists with their tracks.",
		k.FeaturedPlaylists)

	define(g, r, NameGetArtist,
		"Get full details for one artist by their unique identifier. "+
			"Use after search_artists when the user wants more about a specific artist.",
		k.GetArtist)

	define(g, r, NameGenreStats,
		"Get the list of genres on the platform with track and play counts. "+
			"Use this when the user asks what genres or kinds of music are available.",
		k.GenreStats)

	define(g, r, NameProvinceStats,
		"Get listener statistics per South African province, including each province's top genre.",
		k.ProvinceStats)

	define(g, r, NamePlayTrack,
		"Start playing the best catalogue match for a track query. "+
			"Use this when the user asks to play a specific song.",
		k.PlayTrack)

	define(g, r, NameQueueTrack,
		"Add the best catalogue match for a track query to the play queue.",
		k.QueueTrack)

	define(g, r, NameShufflePlay,
		"Start shuffle playback, optionally within one genre. "+
			"Use this when the user asks to shuffle or just wants music on.",
		k.ShufflePlay)

	define(g, r, NameSkipTrack,
		"Skip to the next track in the queue.",
		k.SkipTrack)

	return r
}
