// Package testutil provides test doubles shared across packages: an
// in-memory catalogue store and a scriptable mock model.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mmogomedia/kaya/internal/music"
)

// MusicStore is an in-memory music.Store backed by slices.
// Matching mirrors the SQL store: case-insensitive substring match,
// ordered by play count. Err, when set, is returned by every method,
// which lets tests exercise failure paths.
type MusicStore struct {
	TracksData    []music.Track
	ArtistsData   []music.Artist
	PlaylistsData []music.Playlist
	GenreData     []music.GenreStat
	ProvinceData  []music.ProvinceStat

	Err error
}

var _ music.Store = (*MusicStore)(nil)

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func byPlayCount(tracks []music.Track) []music.Track {
	out := make([]music.Track, len(tracks))
	copy(out, tracks)
	sort.SliceStable(out, func(i, j int) bool { return out[i].PlayCount > out[j].PlayCount })
	return out
}

func capTracks(tracks []music.Track, limit int) []music.Track {
	if limit > 0 && len(tracks) > limit {
		return tracks[:limit]
	}
	return tracks
}

func (s *MusicStore) SearchTracks(_ context.Context, query string, limit int) ([]music.Track, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var matched []music.Track
	for _, t := range s.TracksData {
		if containsFold(t.Title, query) || containsFold(t.ArtistName, query) || containsFold(t.Genre, query) {
			matched = append(matched, t)
		}
	}
	return capTracks(byPlayCount(matched), limit), nil
}

func (s *MusicStore) SearchArtists(_ context.Context, query string, limit int) ([]music.Artist, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var matched []music.Artist
	for _, a := range s.ArtistsData {
		if containsFold(a.Name, query) || containsFold(a.Genre, query) {
			matched = append(matched, a)
		}
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *MusicStore) SearchPlaylists(_ context.Context, query string, limit int) ([]music.Playlist, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var matched []music.Playlist
	for _, p := range s.PlaylistsData {
		if containsFold(p.Name, query) || containsFold(p.Description, query) {
			matched = append(matched, p)
		}
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *MusicStore) TracksByGenre(_ context.Context, genre string, limit int) ([]music.Track, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var matched []music.Track
	for _, t := range s.TracksData {
		if strings.EqualFold(t.Genre, genre) {
			matched = append(matched, t)
		}
	}
	return capTracks(byPlayCount(matched), limit), nil
}

func (s *MusicStore) TrendingTracks(_ context.Context, province string, limit int) ([]music.Track, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	matched := s.TracksData
	if province != "" {
		provinces := make(map[string]string, len(s.ArtistsData))
		for _, a := range s.ArtistsData {
			provinces[a.ID] = a.Province
		}
		var scoped []music.Track
		for _, t := range matched {
			if strings.EqualFold(provinces[t.ArtistID], province) {
				scoped = append(scoped, t)
			}
		}
		matched = scoped
	}
	return capTracks(byPlayCount(matched), limit), nil
}

func (s *MusicStore) FeaturedPlaylists(_ context.Context, limit int) ([]music.Playlist, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var featured []music.Playlist
	for _, p := range s.PlaylistsData {
		if p.Featured {
			featured = append(featured, p)
		}
	}
	if limit > 0 && len(featured) > limit {
		featured = featured[:limit]
	}
	return featured, nil
}

func (s *MusicStore) Artist(_ context.Context, id string) (*music.Artist, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, a := range s.ArtistsData {
		if a.ID == id {
			artist := a
			return &artist, nil
		}
	}
	return nil, fmt.Errorf("artist %s: %w", id, music.ErrNotFound)
}

func (s *MusicStore) GenreStats(_ context.Context) ([]music.GenreStat, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.GenreData, nil
}

func (s *MusicStore) ProvinceStats(_ context.Context) ([]music.ProvinceStat, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.ProvinceData, nil
}

// SeedCatalog returns a MusicStore populated with a small amapiano-heavy
// fixture catalogue used across package tests.
func SeedCatalog() *MusicStore {
	return &MusicStore{
		ArtistsData: []music.Artist{
			{ID: "artist-1", Name: "DJ Sizwe", Genre: "Amapiano", Province: "Gauteng", Verified: true},
			{ID: "artist-2", Name: "Thandi M", Genre: "Afro House", Province: "Western Cape"},
			{ID: "artist-3", Name: "Kasi Kings", Genre: "Amapiano", Province: "Gauteng"},
		},
		TracksData: []music.Track{
			{ID: "track-1", Title: "Midnight Groove", ArtistID: "artist-1", ArtistName: "DJ Sizwe", Genre: "Amapiano", FilePath: "tracks/midnight-groove.mp3", Duration: 312, PlayCount: 5400},
			{ID: "track-2", Title: "Joburg Nights", ArtistID: "artist-1", ArtistName: "DJ Sizwe", Genre: "Amapiano", FilePath: "tracks/joburg-nights.mp3", Duration: 287, PlayCount: 4100},
			{ID: "track-3", Title: "Cape Sunrise", ArtistID: "artist-2", ArtistName: "Thandi M", Genre: "Afro House", FilePath: "tracks/cape-sunrise.mp3", Duration: 341, PlayCount: 3900},
			{ID: "track-4", Title: "Kasi Anthem", ArtistID: "artist-3", ArtistName: "Kasi Kings", Genre: "Amapiano", FilePath: "tracks/kasi-anthem.mp3", Duration: 295, PlayCount: 2800},
			{ID: "track-5", Title: "Deep Mzansi", ArtistID: "artist-3", ArtistName: "Kasi Kings", Genre: "Amapiano", FilePath: "tracks/deep-mzansi.mp3", Duration: 276, PlayCount: 1700},
		},
		PlaylistsData: []music.Playlist{
			{ID: "pl-1", Name: "Amapiano Heat", Description: "The hottest amapiano right now", Featured: true, TrackCount: 2,
				Tracks: []music.Track{
					{ID: "track-1", Title: "Midnight Groove", ArtistID: "artist-1", ArtistName: "DJ Sizwe", Genre: "Amapiano", PlayCount: 5400},
					{ID: "track-4", Title: "Kasi Anthem", ArtistID: "artist-3", ArtistName: "Kasi Kings", Genre: "Amapiano", PlayCount: 2800},
				}},
			{ID: "pl-2", Name: "Sunday Chill", Description: "Laid back afro house", TrackCount: 1,
				Tracks: []music.Track{
					{ID: "track-3", Title: "Cape Sunrise", ArtistID: "artist-2", ArtistName: "Thandi M", Genre: "Afro House", PlayCount: 3900},
				}},
		},
		GenreData: []music.GenreStat{
			{Genre: "Amapiano", TrackCount: 4, PlayCount: 14000},
			{Genre: "Afro House", TrackCount: 1, PlayCount: 3900},
		},
		ProvinceData: []music.ProvinceStat{
			{Province: "Gauteng", ListenerCount: 120000, TopGenre: "Amapiano"},
			{Province: "Western Cape", ListenerCount: 64000, TopGenre: "Afro House"},
		},
	}
}
