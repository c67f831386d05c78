package tools

// SearchTracksInput defines input for the search_tracks tool.
type SearchTracksInput struct {
	Query string `json:"query" jsonschema_description:"Search text matched against track title, artist name and genre"`
	Limit int    `json:"limit,omitempty" jsonschema_description:"Maximum results to return (1-50, default 10)"`
}

// SearchArtistsInput defines input for the search_artists tool.
type SearchArtistsInput struct {
	Query string `json:"query" jsonschema_description:"Search text matched against artist name and genre"`
	Limit int    `json:"limit,omitempty" jsonschema_description:"Maximum results to return (1-50, default 10)"`
}

// SearchPlaylistsInput defines input for the search_playlists tool.
type SearchPlaylistsInput struct {
	Query string `json:"query" jsonschema_description:"Search text matched against playlist name and description"`
	Limit int    `json:"limit,omitempty" jsonschema_description:"Maximum results to return (1-50, default 10)"`
}

// TracksByGenreInput defines input for the tracks_by_genre tool.
type TracksByGenreInput struct {
	Genre string `json:"genre" jsonschema_description:"Genre name, e.g. amapiano, gqom, afro house"`
	Limit int    `json:"limit,omitempty" jsonschema_description:"Maximum results to return (1-50, default 10)"`
}

// TrendingTracksInput defines input for the trending_tracks tool.
type TrendingTracksInput struct {
	Province string `json:"province,omitempty" jsonschema_description:"Optional South African province to scope trending to, e.g. Gauteng, KwaZulu-Natal"`
	Limit    int    `json:"limit,omitempty" jsonschema_description:"Maximum results to return (1-50, default 10)"`
}

// FeaturedPlaylistsInput defines input for the featured_playlists tool.
type FeaturedPlaylistsInput struct {
	Limit int `json:"limit,omitempty" jsonschema_description:"Maximum playlists to return (1-20, default 6)"`
}

// GetArtistInput defines input for the get_artist tool.
type GetArtistInput struct {
	ArtistID string `json:"artist_id" jsonschema_description:"The artist's unique identifier"`
}

// GenreStatsInput defines input for the genre_stats tool (no input needed).
type GenreStatsInput struct{}

// ProvinceStatsInput defines input for the province_stats tool (no input needed).
type ProvinceStatsInput struct{}

// PlayTrackInput defines input for the play_track tool.
type PlayTrackInput struct {
	Query string `json:"query" jsonschema_description:"Title or title plus artist of the track to play"`
}

// QueueTrackInput defines input for the queue_track tool.
type QueueTrackInput struct {
	Query string `json:"query" jsonschema_description:"Title or title plus artist of the track to add to the queue"`
}

// ShufflePlayInput defines input for the shuffle_play tool.
type ShufflePlayInput struct {
	Genre string `json:"genre,omitempty" jsonschema_description:"Optional genre to shuffle within; trending tracks are used when empty"`
}

// SkipTrackInput defines input for the skip_track tool (no input needed).
type SkipTrackInput struct{}
