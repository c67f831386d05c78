package music

import (
	"context"
	"errors"
)

// Sentinel errors for catalogue lookups.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
)

// Store is the catalogue capability consumed by the assistant's tools.
// Implementations must be safe for concurrent use; every method is a
// read-only query against the platform catalogue.
//
// The postgres implementation lives in postgres.go. Tests use the
// in-memory double in internal/testutil.
type Store interface {
	// SearchTracks returns tracks whose title, artist, or genre matches
	// the free-text query, most played first.
	SearchTracks(ctx context.Context, query string, limit int) ([]Track, error)

	// SearchArtists returns artists whose name or genre matches the query.
	SearchArtists(ctx context.Context, query string, limit int) ([]Artist, error)

	// SearchPlaylists returns playlists whose name or description matches
	// the query.
	SearchPlaylists(ctx context.Context, query string, limit int) ([]Playlist, error)

	// TracksByGenre returns tracks tagged with the given genre,
	// most played first.
	TracksByGenre(ctx context.Context, genre string, limit int) ([]Track, error)

	// TrendingTracks returns the currently most-played tracks, optionally
	// restricted to one province ("" = platform-wide).
	TrendingTracks(ctx context.Context, province string, limit int) ([]Track, error)

	// FeaturedPlaylists returns platform-curated playlists with their
	// tracks populated.
	FeaturedPlaylists(ctx context.Context, limit int) ([]Playlist, error)

	// Artist returns one artist by ID. Returns ErrNotFound if absent.
	Artist(ctx context.Context, id string) (*Artist, error)

	// GenreStats returns per-genre play aggregates, highest play count first.
	GenreStats(ctx context.Context) ([]GenreStat, error)

	// ProvinceStats returns per-province listener aggregates.
	ProvinceStats(ctx context.Context) ([]ProvinceStat, error)
}
