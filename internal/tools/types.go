package tools

import "github.com/mmogomedia/kaya/internal/music"

// ToolError defines a structured error format for model consumption.
// It allows tools to return specific error types and messages that the model
// can understand and correct.
type ToolError struct {
	ErrorType string `json:"error_type"` // e.g. "NotFound", "InvalidArguments", "StoreUnavailable"
	Message   string `json:"message"`
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	if e == nil {
		return "<nil ToolError>"
	}
	if e.ErrorType == "" && e.Message == "" {
		return "<empty ToolError>"
	}
	if e.ErrorType == "" {
		return e.Message
	}
	if e.Message == "" {
		return e.ErrorType
	}
	return e.ErrorType + ": " + e.Message
}

// Typed tool outputs. The response normalizer type-switches on these to decide
// the rendering shape, so every catalogue tool returns one of them.

// TrackResults is the output of track-returning tools.
type TrackResults struct {
	Tracks []music.Track `json:"tracks"`
	Query  string        `json:"query,omitempty"`
	Genre  string        `json:"genre,omitempty"`
}

// ArtistResults is the output of artist-returning tools.
type ArtistResults struct {
	Artists []music.Artist `json:"artists"`
	Query   string         `json:"query,omitempty"`
}

// PlaylistResults is the output of playlist-returning tools.
type PlaylistResults struct {
	Playlists []music.Playlist `json:"playlists"`
	Query     string           `json:"query,omitempty"`
}

// GenreListResult is the output of the genre_stats tool.
type GenreListResult struct {
	Genres []music.GenreStat `json:"genres"`
}

// ProvinceStatsResult is the output of the province_stats tool.
type ProvinceStatsResult struct {
	Provinces []music.ProvinceStat `json:"provinces"`
}

// Player action identifiers returned in ActionResult.Action.
const (
	ActionPlay    = "play"
	ActionQueue   = "queue"
	ActionShuffle = "shuffle"
	ActionSkip    = "skip"
)

// ActionResult is the output of playback tools. The assistant does not drive
// the player itself; the client executes the action against its local queue.
type ActionResult struct {
	Action  string        `json:"action"`
	Track   *music.Track  `json:"track,omitempty"`  // resolved target for play/queue
	Tracks  []music.Track `json:"tracks,omitempty"` // shuffle queue
	Message string        `json:"message,omitempty"`
}
