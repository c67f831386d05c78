package music

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store against the platform catalogue database.
// It is read-only: catalogue writes happen in the upload and admin surfaces,
// which are outside the assistant service.
//
// Safe for concurrent use; pgxpool handles connection management.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore creates a catalogue store over an existing connection pool.
func NewPostgresStore(pool *pgxpool.Pool, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{pool: pool, logger: logger}
}

const trackColumns = `t.id, t.title, t.artist_id, a.name, t.genre, t.cover_url, t.file_path, t.duration, t.play_count`

func scanTracks(rows pgx.Rows) ([]Track, error) {
	var tracks []Track
	for rows.Next() {
		var t Track
		if err := rows.Scan(&t.ID, &t.Title, &t.ArtistID, &t.ArtistName, &t.Genre,
			&t.CoverURL, &t.FilePath, &t.Duration, &t.PlayCount); err != nil {
			return nil, fmt.Errorf("scanning track: %w", err)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tracks: %w", err)
	}
	return tracks, nil
}

// SearchTracks matches title, artist name, or genre, most played first.
func (s *PostgresStore) SearchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+trackColumns+`
		FROM tracks t
		JOIN artists a ON a.id = t.artist_id
		WHERE t.title ILIKE '%' || $1 || '%'
		   OR a.name ILIKE '%' || $1 || '%'
		   OR t.genre ILIKE '%' || $1 || '%'
		ORDER BY t.play_count DESC
		LIMIT $2`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching tracks: %w", err)
	}
	defer rows.Close()
	return scanTracks(rows)
}

// SearchArtists matches artist name or genre.
func (s *PostgresStore) SearchArtists(ctx context.Context, query string, limit int) ([]Artist, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, bio, genre, province, image_url, verified
		FROM artists
		WHERE name ILIKE '%' || $1 || '%'
		   OR genre ILIKE '%' || $1 || '%'
		ORDER BY verified DESC, name
		LIMIT $2`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching artists: %w", err)
	}
	defer rows.Close()

	var artists []Artist
	for rows.Next() {
		var a Artist
		if err := rows.Scan(&a.ID, &a.Name, &a.Bio, &a.Genre, &a.Province, &a.ImageURL, &a.Verified); err != nil {
			return nil, fmt.Errorf("scanning artist: %w", err)
		}
		artists = append(artists, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating artists: %w", err)
	}
	return artists, nil
}

// SearchPlaylists matches playlist name or description. Track lists are not
// populated here; the grid rendering only needs playlist metadata.
func (s *PostgresStore) SearchPlaylists(ctx context.Context, query string, limit int) ([]Playlist, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, description, cover_url, owner_id, featured, track_count, created_at
		FROM playlists
		WHERE name ILIKE '%' || $1 || '%'
		   OR description ILIKE '%' || $1 || '%'
		ORDER BY featured DESC, created_at DESC
		LIMIT $2`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching playlists: %w", err)
	}
	defer rows.Close()
	return scanPlaylists(rows)
}

func scanPlaylists(rows pgx.Rows) ([]Playlist, error) {
	var playlists []Playlist
	for rows.Next() {
		var p Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CoverURL,
			&p.OwnerID, &p.Featured, &p.TrackCount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating playlists: %w", err)
	}
	return playlists, nil
}

// TracksByGenre returns tracks tagged with the genre, most played first.
func (s *PostgresStore) TracksByGenre(ctx context.Context, genre string, limit int) ([]Track, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+trackColumns+`
		FROM tracks t
		JOIN artists a ON a.id = t.artist_id
		WHERE t.genre ILIKE $1
		ORDER BY t.play_count DESC
		LIMIT $2`, genre, limit)
	if err != nil {
		return nil, fmt.Errorf("tracks by genre: %w", err)
	}
	defer rows.Close()
	return scanTracks(rows)
}

// TrendingTracks returns the most-played tracks over the trailing window
// maintained by the platform's play-count rollup, optionally scoped to a
// province via the artist's home province.
func (s *PostgresStore) TrendingTracks(ctx context.Context, province string, limit int) ([]Track, error) {
	query := `
		SELECT ` + trackColumns + `
		FROM tracks t
		JOIN artists a ON a.id = t.artist_id`
	args := []any{limit}
	if province != "" {
		query += ` WHERE a.province ILIKE $2`
		args = append(args, province)
	}
	query += ` ORDER BY t.play_count DESC LIMIT $1`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("trending tracks: %w", err)
	}
	defer rows.Close()
	return scanTracks(rows)
}

// FeaturedPlaylists returns platform-curated playlists with tracks populated,
// newest first. Used by the normalizer's supplementary recommendation rail.
func (s *PostgresStore) FeaturedPlaylists(ctx context.Context, limit int) ([]Playlist, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, description, cover_url, owner_id, featured, track_count, created_at
		FROM playlists
		WHERE featured
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("featured playlists: %w", err)
	}
	playlists, err := scanPlaylists(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	for i := range playlists {
		tracks, err := s.playlistTracks(ctx, playlists[i].ID)
		if err != nil {
			// Partial results are acceptable for a recommendation rail.
			s.logger.Warn("loading playlist tracks", "playlist", playlists[i].ID, "error", err)
			continue
		}
		playlists[i].Tracks = tracks
	}
	return playlists, nil
}

func (s *PostgresStore) playlistTracks(ctx context.Context, playlistID string) ([]Track, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+trackColumns+`
		FROM playlist_tracks pt
		JOIN tracks t ON t.id = pt.track_id
		JOIN artists a ON a.id = t.artist_id
		WHERE pt.playlist_id = $1
		ORDER BY pt.position`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("playlist tracks: %w", err)
	}
	defer rows.Close()
	return scanTracks(rows)
}

// Artist returns one artist by ID.
func (s *PostgresStore) Artist(ctx context.Context, id string) (*Artist, error) {
	var a Artist
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, bio, genre, province, image_url, verified
		FROM artists
		WHERE id = $1`, id).
		Scan(&a.ID, &a.Name, &a.Bio, &a.Genre, &a.Province, &a.ImageURL, &a.Verified)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("artist %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading artist: %w", err)
	}
	return &a, nil
}

// GenreStats aggregates play counts per genre.
func (s *PostgresStore) GenreStats(ctx context.Context) ([]GenreStat, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT genre, COUNT(*), COALESCE(SUM(play_count), 0)
		FROM tracks
		WHERE genre <> ''
		GROUP BY genre
		ORDER BY SUM(play_count) DESC`)
	if err != nil {
		return nil, fmt.Errorf("genre stats: %w", err)
	}
	defer rows.Close()

	var stats []GenreStat
	for rows.Next() {
		var g GenreStat
		if err := rows.Scan(&g.Genre, &g.TrackCount, &g.PlayCount); err != nil {
			return nil, fmt.Errorf("scanning genre stat: %w", err)
		}
		stats = append(stats, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating genre stats: %w", err)
	}
	return stats, nil
}

// ProvinceStats aggregates listener counts per province from the play log.
func (s *PostgresStore) ProvinceStats(ctx context.Context) ([]ProvinceStat, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT province, listener_count, top_genre
		FROM province_stats
		ORDER BY listener_count DESC`)
	if err != nil {
		return nil, fmt.Errorf("province stats: %w", err)
	}
	defer rows.Close()

	var stats []ProvinceStat
	for rows.Next() {
		var p ProvinceStat
		if err := rows.Scan(&p.Province, &p.ListenerCount, &p.TopGenre); err != nil {
			return nil, fmt.Errorf("scanning province stat: %w", err)
		}
		stats = append(stats, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating province stats: %w", err)
	}
	return stats, nil
}

// Compile-time interface check.
var _ Store = (*PostgresStore)(nil)
