package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmogomedia/kaya/internal/music"
	"github.com/mmogomedia/kaya/internal/tools"
)

// compiledIDPrefix marks a synthesized playlist as virtual: it has the shape
// of a stored playlist but no backing row.
const compiledIDPrefix = "compiled-"

// Summarizer produces a short natural-language blurb for one track.
// It is best-effort: failures are swallowed and the summary omitted.
type Summarizer func(ctx context.Context, track music.Track) (string, error)

// Normalizer converts the heterogeneous tool outputs of one run into a
// single tagged Variant: aggregate by domain kind, deduplicate by
// identifier, then select a shape. The playlist compilation path synthesizes
// a virtual playlist when the query carries a synthesis verb.
type Normalizer struct {
	store             music.Store
	mediaBaseURL      string
	maxPlaylistTracks int
	maxOtherTracks    int
	summarize         Summarizer // nil disables track summaries
	logger            *slog.Logger
}

// NewNormalizer creates a normalizer. The store is used for genre backfill
// and the supplementary recommendation rail; both are best-effort.
func NewNormalizer(store music.Store, mediaBaseURL string, maxPlaylistTracks, maxOtherTracks int, summarize Summarizer, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		store:             store,
		mediaBaseURL:      mediaBaseURL,
		maxPlaylistTracks: maxPlaylistTracks,
		maxOtherTracks:    maxOtherTracks,
		summarize:         summarize,
		logger:            logger,
	}
}

// aggregated holds the working sets built from one run's tool results.
type aggregated struct {
	tracks    []music.Track
	artists   []music.Artist
	playlists []music.Playlist
	genreSets []tools.GenreListResult
}

// aggregate unions tool results by the domain kind they return, independent
// of which tool produced them. Failed calls carry no output and are skipped.
func aggregate(results []ToolResult) aggregated {
	var agg aggregated
	for _, r := range results {
		if r.Err != "" {
			continue
		}
		switch out := r.Output.(type) {
		case tools.TrackResults:
			agg.tracks = append(agg.tracks, out.Tracks...)
		case tools.ArtistResults:
			agg.artists = append(agg.artists, out.Artists...)
		case tools.PlaylistResults:
			agg.playlists = append(agg.playlists, out.Playlists...)
		case tools.GenreListResult:
			agg.genreSets = append(agg.genreSets, out)
		}
	}
	return agg
}

// dedupeByID collapses items sharing an identifier, keeping first-occurrence
// order. Items without an identifier fall back to full-value equality.
func dedupeByID[T any](items []T, id func(T) string) []T {
	seen := make(map[string]struct{}, len(items))
	var anonymous []T
	out := make([]T, 0, len(items))

	for _, item := range items {
		key := id(item)
		if key == "" {
			duplicate := false
			for _, prev := range anonymous {
				if reflect.DeepEqual(prev, item) {
					duplicate = true
					break
				}
			}
			if duplicate {
				continue
			}
			anonymous = append(anonymous, item)
			out = append(out, item)
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

func (a *aggregated) dedupe() {
	a.tracks = dedupeByID(a.tracks, func(t music.Track) string { return t.ID })
	a.artists = dedupeByID(a.artists, func(ar music.Artist) string { return ar.ID })
	a.playlists = dedupeByID(a.playlists, func(p music.Playlist) string { return p.ID })
}

// hasCompileIntent reports whether the query asks for playlist synthesis.
func hasCompileIntent(query string) bool {
	q := strings.ToLower(query)
	for _, verb := range compileVerbs {
		if strings.Contains(q, verb) {
			return true
		}
	}
	return false
}

// detectGenre matches the query against the supported genre vocabulary and
// returns the canonical display name.
func detectGenre(query string) (string, bool) {
	q := strings.ToLower(query)
	for _, g := range genreVocabulary {
		if strings.Contains(q, g.match) {
			return g.display, true
		}
	}
	return "", false
}

// Normalize runs the full discovery pipeline: aggregate, dedupe, compile if
// asked, otherwise select a shape by precedence. Returns nil when no tool
// produced usable data and no synthesis was requested.
func (n *Normalizer) Normalize(ctx context.Context, query string, results []ToolResult) *Variant {
	agg := aggregate(results)
	agg.dedupe()

	// Synthesis intent takes priority over every other shape, even when the
	// track set is empty: the user asked for a playlist, so they get one.
	if hasCompileIntent(query) {
		return n.compilePlaylist(ctx, query, agg.tracks)
	}

	return n.selectShape(ctx, query, agg, true)
}

// NormalizeShallow is the recommendation pipeline: same aggregation, dedupe
// and shape precedence, but no compilation, no supplementary rail and no
// summaries. Recommendations are presented as commentary, so the payload
// stays a plain pass-through of what the tools returned.
func (n *Normalizer) NormalizeShallow(ctx context.Context, query string, results []ToolResult) *Variant {
	agg := aggregate(results)
	agg.dedupe()
	return n.selectShape(ctx, query, agg, false)
}

// selectShape applies the non-compile precedence order. enrich enables the
// track_list extras (stream URLs with summaries, supplementary rail).
func (n *Normalizer) selectShape(ctx context.Context, query string, agg aggregated, enrich bool) *Variant {
	metadata := map[string]string{}
	if genre, ok := detectGenre(query); ok {
		metadata["genre"] = genre
	}
	if len(metadata) == 0 {
		metadata = nil
	}

	switch {
	case len(agg.tracks) > 0 && len(agg.artists) > 0:
		n.resolveStreamURLs(agg.tracks)
		return newVariant(VariantSearchResults,
			fmt.Sprintf("Found %d tracks and %d artists for you.", len(agg.tracks), len(agg.artists)),
			SearchResultsData{Tracks: agg.tracks, Artists: agg.artists, Metadata: metadata})

	case len(agg.tracks) > 0:
		n.resolveStreamURLs(agg.tracks)
		data := TrackListData{Tracks: agg.tracks, Metadata: metadata}
		if enrich {
			n.summarizeTracks(ctx, data.Tracks)
			data.Other = n.supplementaryTracks(ctx, agg.tracks)
		}
		return newVariant(VariantTrackList,
			fmt.Sprintf("Found %d tracks for you.", len(agg.tracks)),
			data)

	case len(agg.artists) == 1:
		artist := agg.artists[0]
		return newVariant(VariantArtist,
			fmt.Sprintf("Here's what I found about %s.", artist.Name),
			ArtistData{Artist: artist})

	case len(agg.artists) > 1:
		return newVariant(VariantSearchResults,
			fmt.Sprintf("Found %d artists for you.", len(agg.artists)),
			SearchResultsData{Artists: agg.artists, Metadata: metadata})

	case len(agg.playlists) > 0:
		return newVariant(VariantPlaylistGrid,
			fmt.Sprintf("Found %d playlists for you.", len(agg.playlists)),
			PlaylistGridData{Playlists: agg.playlists})

	case len(agg.genreSets) == 1:
		// Flat genre list passthrough, no track/artist/playlist shaping.
		return newVariant(VariantGenreList,
			"Here are the genres on the platform.",
			GenreListData{Genres: agg.genreSets[0].Genres})

	default:
		return nil
	}
}

// compilePlaylist builds a virtual playlist from the track working set,
// backfilling from the catalogue by inferred genre when the set is empty.
// The result is always a playlist variant, even with zero tracks: the
// caller renders an editable empty playlist rather than an unrelated shape.
func (n *Normalizer) compilePlaylist(ctx context.Context, query string, tracks []music.Track) *Variant {
	genre, hasGenre := detectGenre(query)

	if len(tracks) == 0 && hasGenre {
		backfilled, err := n.store.TracksByGenre(ctx, genre, n.maxPlaylistTracks)
		if err != nil {
			n.logger.Warn("genre backfill failed", "genre", genre, "error", err)
		} else {
			tracks = backfilled
		}
	}

	if len(tracks) > n.maxPlaylistTracks {
		tracks = tracks[:n.maxPlaylistTracks]
	}
	n.resolveStreamURLs(tracks)

	name := "Your Custom Mix"
	description := "A playlist compiled from your request."
	if hasGenre {
		name = genre + " Mix"
		description = fmt.Sprintf("A compiled selection of %s tracks.", genre)
	}

	var coverURL string
	if len(tracks) > 0 {
		coverURL = tracks[0].CoverURL
	}

	playlist := music.Playlist{
		ID:          compiledIDPrefix + uuid.NewString(),
		Name:        name,
		Description: description,
		CoverURL:    coverURL,
		Tracks:      tracks,
		TrackCount:  len(tracks),
		CreatedAt:   time.Now().UTC(),
	}

	message := fmt.Sprintf("I've put together %q with %d tracks.", name, len(tracks))
	if len(tracks) == 0 {
		message = fmt.Sprintf("I've created %q for you. I couldn't find matching tracks yet, so it's empty and ready to fill.", name)
	}

	return newVariant(VariantPlaylist, message, PlaylistData{Playlist: playlist})
}

// resolveStreamURLs fills each track's playable URL from its stored path.
func (n *Normalizer) resolveStreamURLs(tracks []music.Track) {
	for i := range tracks {
		if tracks[i].StreamURL == "" {
			tracks[i].StreamURL = music.ResolveStreamURL(n.mediaBaseURL, tracks[i].FilePath)
		}
	}
}

// summarizeTracks attaches best-effort summaries. Failures leave the field
// empty and never affect the response.
func (n *Normalizer) summarizeTracks(ctx context.Context, tracks []music.Track) {
	if n.summarize == nil {
		return
	}
	for i := range tracks {
		summary, err := n.summarize(ctx, tracks[i])
		if err != nil {
			n.logger.Debug("track summary failed", "track", tracks[i].ID, "error", err)
			continue
		}
		tracks[i].Summary = summary
	}
}

// supplementaryTracks draws up to maxOtherTracks from featured playlists,
// excluding anything already in the main result. Best-effort: any failure
// returns nil and the rail is omitted.
func (n *Normalizer) supplementaryTracks(ctx context.Context, exclude []music.Track) []music.Track {
	if n.maxOtherTracks <= 0 {
		return nil
	}

	featured, err := n.store.FeaturedPlaylists(ctx, 5)
	if err != nil {
		n.logger.Debug("supplementary rail unavailable", "error", err)
		return nil
	}

	present := make(map[string]struct{}, len(exclude))
	for _, t := range exclude {
		present[t.ID] = struct{}{}
	}

	var other []music.Track
	for _, playlist := range featured {
		for _, track := range playlist.Tracks {
			if _, ok := present[track.ID]; ok {
				continue
			}
			present[track.ID] = struct{}{}
			other = append(other, track)
			if len(other) >= n.maxOtherTracks {
				n.resolveStreamURLs(other)
				return other
			}
		}
	}
	n.resolveStreamURLs(other)
	return other
}
