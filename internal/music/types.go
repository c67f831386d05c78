// Package music defines the catalogue domain records and the Store
// capability the assistant's tools are built on.
//
// All records carry stable string identifiers. The assistant core never
// mutates catalogue data; it only aggregates and reshapes query results.
package music

import "time"

// Track is a single playable recording in the catalogue.
type Track struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	ArtistID   string `json:"artistId,omitempty"`
	ArtistName string `json:"artistName,omitempty"`
	Genre      string `json:"genre,omitempty"`
	CoverURL   string `json:"coverUrl,omitempty"`
	FilePath   string `json:"-"` // storage path, resolved to StreamURL before leaving the service
	StreamURL  string `json:"streamUrl,omitempty"`
	Duration   int    `json:"duration,omitempty"` // seconds
	PlayCount  int64  `json:"playCount,omitempty"`
	Summary    string `json:"summary,omitempty"` // optional model-generated blurb
}

// Artist is a catalogue artist profile.
type Artist struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Bio      string `json:"bio,omitempty"`
	Genre    string `json:"genre,omitempty"`
	Province string `json:"province,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	Verified bool   `json:"verified,omitempty"`
}

// Playlist is a curated or user-owned collection of tracks.
// Compiled (virtual) playlists produced by the assistant share this shape
// but carry a generated ID and are never persisted.
type Playlist struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CoverURL    string    `json:"coverUrl,omitempty"`
	OwnerID     string    `json:"ownerId,omitempty"`
	Featured    bool      `json:"featured,omitempty"`
	Tracks      []Track   `json:"tracks,omitempty"`
	TrackCount  int       `json:"trackCount"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// GenreStat aggregates play activity for one genre.
type GenreStat struct {
	Genre      string `json:"genre"`
	TrackCount int    `json:"trackCount"`
	PlayCount  int64  `json:"playCount"`
}

// ProvinceStat aggregates listener activity for one South African province.
type ProvinceStat struct {
	Province      string `json:"province"`
	ListenerCount int    `json:"listenerCount"`
	TopGenre      string `json:"topGenre,omitempty"`
}
