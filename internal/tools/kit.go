// Package tools provides the catalogue and playback tools exposed to the model.
//
// Tools are thin adapters over the music store: they validate and clamp
// arguments, query the catalogue, and return typed results the response
// normalizer can switch on. Business logic lives in Kit methods, which are
// testable without Genkit; registration wires the same methods into Genkit
// for schema generation and into the Registry for execution.
package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/firebase/genkit/go/ai"

	"github.com/mmogomedia/kaya/internal/music"
)

const (
	defaultSearchLimit   = 10
	maxSearchLimit       = 50
	defaultPlaylistLimit = 6
	maxPlaylistLimit     = 20
)

// KitConfig holds all required dependencies for Kit.
type KitConfig struct {
	Store  music.Store
	Logger *slog.Logger
}

// Kit provides the catalogue and playback tools.
type Kit struct {
	store  music.Store
	logger *slog.Logger
}

// NewKit creates a tool kit. The store is required.
func NewKit(cfg KitConfig) (*Kit, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("KitConfig.Store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Kit{store: cfg.Store, logger: logger}, nil
}

// clampLimit normalizes a model-supplied result limit.
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// toolCtx unwraps the request context from a Genkit tool context.
// Unit tests construct a bare ToolContext; a nil inner context falls back
// to Background so store calls never receive nil.
func toolCtx(ctx *ai.ToolContext) context.Context {
	if ctx == nil || ctx.Context == nil {
		return context.Background()
	}
	return ctx.Context
}

// SearchTracks implements the search_tracks tool.
func (k *Kit) SearchTracks(ctx *ai.ToolContext, input SearchTracksInput) (TrackResults, error) {
	if input.Query == "" {
		return TrackResults{}, &ToolError{ErrorType: "InvalidArguments", Message: "query is required"}
	}
	limit := clampLimit(input.Limit, defaultSearchLimit, maxSearchLimit)

	tracks, err := k.store.SearchTracks(toolCtx(ctx), input.Query, limit)
	if err != nil {
		k.logger.Error("search_tracks failed", "query", input.Query, "error", err)
		return TrackResults{}, &ToolError{ErrorType: "StoreUnavailable", Message: "track search failed"}
	}
	return TrackResults{Tracks: tracks, Query: input.Query}, nil
}

// SearchArtists implements the search_artists tool.
func (k *Kit) SearchArtists(ctx *ai.ToolContext, input SearchArtistsInput) (ArtistResults, error) {
	if input.Query == "" {
		return ArtistResults{}, &ToolError{ErrorType: "InvalidArguments", Message: "query is required"}
	}
	limit := clampLimit(input.Limit, defaultSearchLimit, maxSearchLimit)

	artists, err := k.store.SearchArtists(toolCtx(ctx), input.Query, limit)
	if err != nil {
		k.logger.Error("search_artists failed", "query", input.Query, "error", err)
		return ArtistResults{}, &ToolError{ErrorType: "StoreUnavailable", Message: "artist search failed"}
	}
	return ArtistResults{Artists: artists, Query: input.Query}, nil
}

// SearchPlaylists implements the search_playlists tool.
func (k *Kit) SearchPlaylists(ctx *ai.ToolContext, input SearchPlaylistsInput) (PlaylistResults, error) {
	if input.Query == "" {
		return PlaylistResults{}, &ToolError{ErrorType: "InvalidArguments", Message: "query is required"}
	}
	limit := clampLimit(input.Limit, defaultSearchLimit, maxSearchLimit)

	playlists, err := k.store.SearchPlaylists(toolCtx(ctx), input.Query, limit)
	if err != nil {
		k.logger.Error("search_playlists failed", "query", input.Query, "error", err)
		return PlaylistResults{}, &ToolError{ErrorType: "StoreUnavailable", Message: "playlist search failed"}
	}
	return PlaylistResults{Playlists: playlists, Query: input.Query}, nil
}

// TracksByGenre implements the tracks_by_genre tool.
func (k *Kit) TracksByGenre(ctx *ai.ToolContext, input TracksByGenreInput) (TrackResults, error) {
	if input.Genre == "" {
		return TrackResults{}, &ToolError{ErrorType: "InvalidArguments", Message: "genre is required"}
	}
	limit := clampLimit(input.Limit, defaultSearchLimit, maxSearchLimit)

	tracks, err := k.store.TracksByGenre(toolCtx(ctx), input.Genre, limit)
	if err != nil {
		k.logger.Error("tracks_by_genre failed", "genre", input.Genre, "error", err)
		return TrackResults{}, &ToolError{ErrorType: "StoreUnavailable", Message: "genre lookup failed"}
	}
	return TrackResults{Tracks: tracks, Genre: input.Genre}, nil
}

// TrendingTracks implements the trending_tracks tool.
func (k *Kit) TrendingTracks(ctx *ai.ToolContext, input TrendingTracksInput) (TrackResults, error) {
	limit := clampLimit(input.Limit, defaultSearchLimit, maxSearchLimit)

	tracks, err := k.store.TrendingTracks(toolCtx(ctx), input.Province, limit)
	if err != nil {
		k.logger.Error("trending_tracks failed", "province", input.Province, "error", err)
		return TrackResults{}, &ToolError{ErrorType: "StoreUnavailable", Message: "trending lookup failed"}
	}
	return TrackResults{Tracks: tracks}, nil
}

// FeaturedPlaylists implements the featured_playlists tool.
func (k *Kit) FeaturedPlaylists(ctx *ai.ToolContext, input FeaturedPlaylistsInput) (PlaylistResults, error) {
	limit := clampLimit(input.Limit, defaultPlaylistLimit, maxPlaylistLimit)

	playlists, err := k.store.FeaturedPlaylists(toolCtx(ctx), limit)
	if err != nil {
		k.logger.Error("featured_playlists failed", "error", err)
		return PlaylistResults{}, &ToolError{ErrorType: "StoreUnavailable", Message: "featured playlists lookup failed"}
	}
	return PlaylistResults{Playlists: playlists}, nil
}

// GetArtist implements the get_artist tool.
func (k *Kit) GetArtist(ctx *ai.ToolContext, input GetArtistInput) (ArtistResults, error) {
	if input.ArtistID == "" {
		return ArtistResults{}, &ToolError{ErrorType: "InvalidArguments", Message: "artist_id is required"}
	}

	artist, err := k.store.Artist(toolCtx(ctx), input.ArtistID)
	if errors.Is(err, music.ErrNotFound) {
		return ArtistResults{}, &ToolError{ErrorType: "NotFound", Message: fmt.Sprintf("artist %s not found", input.ArtistID)}
	}
	if err != nil {
		k.logger.Error("get_artist failed", "artist_id", input.ArtistID, "error", err)
		return ArtistResults{}, &ToolError{ErrorType: "StoreUnavailable", Message: "artist lookup failed"}
	}
	return ArtistResults{Artists: []music.Artist{*artist}}, nil
}

// GenreStats implements the genre_stats tool.
func (k *Kit) GenreStats(ctx *ai.ToolContext, _ GenreStatsInput) (GenreListResult, error) {
	stats, err := k.store.GenreStats(toolCtx(ctx))
	if err != nil {
		k.logger.Error("genre_stats failed", "error", err)
		return GenreListResult{}, &ToolError{ErrorType: "StoreUnavailable", Message: "genre stats lookup failed"}
	}
	return GenreListResult{Genres: stats}, nil
}

// ProvinceStats implements the province_stats tool.
func (k *Kit) ProvinceStats(ctx *ai.ToolContext, _ ProvinceStatsInput) (ProvinceStatsResult, error) {
	stats, err := k.store.ProvinceStats(toolCtx(ctx))
	if err != nil {
		k.logger.Error("province_stats failed", "error", err)
		return ProvinceStatsResult{}, &ToolError{ErrorType: "StoreUnavailable", Message: "province stats lookup failed"}
	}
	return ProvinceStatsResult{Provinces: stats}, nil
}

// PlayTrack implements the play_track tool. The best catalogue match for the
// query becomes the play target; the client drives its own player.
func (k *Kit) PlayTrack(ctx *ai.ToolContext, input PlayTrackInput) (ActionResult, error) {
	if input.Query == "" {
		return ActionResult{}, &ToolError{ErrorType: "InvalidArguments", Message: "query is required"}
	}

	tracks, err := k.store.SearchTracks(toolCtx(ctx), input.Query, 1)
	if err != nil {
		k.logger.Error("play_track search failed", "query", input.Query, "error", err)
		return ActionResult{}, &ToolError{ErrorType: "StoreUnavailable", Message: "track lookup failed"}
	}
	if len(tracks) == 0 {
		return ActionResult{}, &ToolError{ErrorType: "NotFound", Message: fmt.Sprintf("no track matching %q", input.Query)}
	}
	return ActionResult{
		Action:  ActionPlay,
		Track:   &tracks[0],
		Message: fmt.Sprintf("Playing %s by %s", tracks[0].Title, tracks[0].ArtistName),
	}, nil
}

// QueueTrack implements the queue_track tool.
func (k *Kit) QueueTrack(ctx *ai.ToolContext, input QueueTrackInput) (ActionResult, error) {
	if input.Query == "" {
		return ActionResult{}, &ToolError{ErrorType: "InvalidArguments", Message: "query is required"}
	}

	tracks, err := k.store.SearchTracks(toolCtx(ctx), input.Query, 1)
	if err != nil {
		k.logger.Error("queue_track search failed", "query", input.Query, "error", err)
		return ActionResult{}, &ToolError{ErrorType: "StoreUnavailable", Message: "track lookup failed"}
	}
	if len(tracks) == 0 {
		return ActionResult{}, &ToolError{ErrorType: "NotFound", Message: fmt.Sprintf("no track matching %q", input.Query)}
	}
	return ActionResult{
		Action:  ActionQueue,
		Track:   &tracks[0],
		Message: fmt.Sprintf("Added %s by %s to the queue", tracks[0].Title, tracks[0].ArtistName),
	}, nil
}

// ShufflePlay implements the shuffle_play tool. A genre scopes the pool;
// otherwise trending tracks seed the shuffle queue.
func (k *Kit) ShufflePlay(ctx *ai.ToolContext, input ShufflePlayInput) (ActionResult, error) {
	var (
		tracks []music.Track
		err    error
	)
	if input.Genre != "" {
		tracks, err = k.store.TracksByGenre(toolCtx(ctx), input.Genre, maxSearchLimit)
	} else {
		tracks, err = k.store.TrendingTracks(toolCtx(ctx), "", maxSearchLimit)
	}
	if err != nil {
		k.logger.Error("shuffle_play failed", "genre", input.Genre, "error", err)
		return ActionResult{}, &ToolError{ErrorType: "StoreUnavailable", Message: "shuffle pool lookup failed"}
	}
	if len(tracks) == 0 {
		return ActionResult{}, &ToolError{ErrorType: "NotFound", Message: "no tracks available to shuffle"}
	}

	rand.Shuffle(len(tracks), func(i, j int) {
		tracks[i], tracks[j] = tracks[j], tracks[i]
	})
	return ActionResult{
		Action:  ActionShuffle,
		Tracks:  tracks,
		Message: "Shuffling your mix",
	}, nil
}

// SkipTrack implements the skip_track tool.
func (k *Kit) SkipTrack(_ *ai.ToolContext, _ SkipTrackInput) (ActionResult, error) {
	return ActionResult{Action: ActionSkip, Message: "Skipping to the next track"}, nil
}
