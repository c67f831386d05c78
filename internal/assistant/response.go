package assistant

import (
	"time"

	"github.com/mmogomedia/kaya/internal/music"
)

// VariantType discriminates the renderable response shapes.
type VariantType string

const (
	VariantText          VariantType = "text"
	VariantTrackList     VariantType = "track_list"
	VariantPlaylist      VariantType = "playlist"
	VariantPlaylistGrid  VariantType = "playlist_grid"
	VariantArtist        VariantType = "artist"
	VariantSearchResults VariantType = "search_results"
	VariantAction        VariantType = "action"
	VariantGenreList     VariantType = "genre_list"
)

// Payload is the sealed set of variant payload shapes. Pairing each
// VariantType with exactly one payload type keeps illegal combinations
// (a track_list tag carrying an artist payload) unrepresentable: payloads
// are only built through the variant constructors below.
type Payload interface{ payload() }

// TrackListData is the payload of a track_list variant.
type TrackListData struct {
	Tracks []music.Track `json:"tracks"`
	// Other is a best-effort recommendation rail drawn from featured
	// playlists; empty when unavailable.
	Other    []music.Track     `json:"other,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// PlaylistData is the payload of a playlist variant. The playlist may be a
// stored one or a compiled virtual one; compiled playlists carry a
// "compiled-" identifier prefix and no backing row.
type PlaylistData struct {
	Playlist music.Playlist `json:"playlist"`
}

// PlaylistGridData is the payload of a playlist_grid variant.
type PlaylistGridData struct {
	Playlists []music.Playlist `json:"playlists"`
}

// ArtistData is the payload of an artist variant.
type ArtistData struct {
	Artist music.Artist `json:"artist"`
}

// SearchResultsData is the payload of a search_results variant.
type SearchResultsData struct {
	Tracks   []music.Track     `json:"tracks,omitempty"`
	Artists  []music.Artist    `json:"artists,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ActionData is the payload of an action variant: a player instruction the
// client executes against its local queue.
type ActionData struct {
	Action string        `json:"action"`
	Track  *music.Track  `json:"track,omitempty"`
	Tracks []music.Track `json:"tracks,omitempty"`
}

// GenreListData is the payload of a genre_list variant.
type GenreListData struct {
	Genres []music.GenreStat `json:"genres"`
}

func (TrackListData) payload()     {}
func (PlaylistData) payload()      {}
func (PlaylistGridData) payload()  {}
func (ArtistData) payload()        {}
func (SearchResultsData) payload() {}
func (ActionData) payload()        {}
func (GenreListData) payload()     {}

// Variant is one tagged renderable response shape.
type Variant struct {
	Type      VariantType `json:"type"`
	Message   string      `json:"message"`
	Timestamp time.Time   `json:"timestamp"`
	Data      Payload     `json:"data,omitempty"`
}

func newVariant(t VariantType, message string, data Payload) *Variant {
	return &Variant{
		Type:      t,
		Message:   message,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// ResponseMetadata carries diagnostics about one agent run.
type ResponseMetadata struct {
	Agent      string `json:"agent"`
	Intent     Intent `json:"intent,omitempty"`
	Iterations int    `json:"iterations"`
	ToolCalls  int    `json:"tool_calls"`
	Truncated  bool   `json:"truncated,omitempty"`
	Error      string `json:"error,omitempty"`
}

// AgentResponse is the terminal output of one Process call. Exactly one
// Variant (or none) is attached; when tool results are empty, Data is nil
// and Message falls back to explanatory text.
type AgentResponse struct {
	Message  string           `json:"message"`
	Data     *Variant         `json:"data,omitempty"`
	Metadata ResponseMetadata `json:"metadata"`
}
