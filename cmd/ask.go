package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmogomedia/kaya/internal/app"
	"github.com/mmogomedia/kaya/internal/assistant"
	"github.com/mmogomedia/kaya/internal/config"
)

var (
	askGenre    string
	askProvince string
	askJSON     bool
)

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Run a single query through the assistant",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAsk(cmd.Context(), strings.Join(args, " "))
	},
}

func init() {
	askCmd.Flags().StringVar(&askGenre, "genre", "", "active genre filter")
	askCmd.Flags().StringVar(&askProvince, "province", "", "active province filter")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the full response as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(ctx context.Context, query string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	a, err := app.Setup(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "shutdown error: %v\n", closeErr)
		}
	}()

	uc := &assistant.AgentContext{
		Genre:    askGenre,
		Province: askProvince,
	}
	resp := a.Assistant.Route(ctx, query, uc)

	if askJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("encoding response: %w", err)
		}
		return nil
	}

	fmt.Println(resp.Message)
	printVariant(os.Stdout, resp.Data)
	return nil
}

// printVariant renders the typed payload as a terminal-friendly listing.
// Payloads are stored by value in the variant, so the cases match value
// types.
func printVariant(w io.Writer, v *assistant.Variant) {
	if v == nil {
		return
	}

	switch data := v.Data.(type) {
	case assistant.TrackListData:
		fmt.Fprintln(w)
		for i, tr := range data.Tracks {
			fmt.Fprintf(w, "%2d. %s - %s (%s)\n", i+1, tr.Title, tr.ArtistName, tr.Genre)
		}
		if len(data.Other) > 0 {
			fmt.Fprintln(w, "\nYou might also like:")
			for _, tr := range data.Other {
				fmt.Fprintf(w, "  - %s - %s\n", tr.Title, tr.ArtistName)
			}
		}
	case assistant.PlaylistData:
		fmt.Fprintf(w, "\n%s (%d tracks)\n", data.Playlist.Name, data.Playlist.TrackCount)
		for i, tr := range data.Playlist.Tracks {
			fmt.Fprintf(w, "%2d. %s - %s\n", i+1, tr.Title, tr.ArtistName)
		}
	case assistant.PlaylistGridData:
		fmt.Fprintln(w)
		for _, pl := range data.Playlists {
			fmt.Fprintf(w, "  %s (%d tracks)\n", pl.Name, pl.TrackCount)
		}
	case assistant.ArtistData:
		a := data.Artist
		fmt.Fprintf(w, "\n%s", a.Name)
		if a.Province != "" {
			fmt.Fprintf(w, " - %s", a.Province)
		}
		fmt.Fprintln(w)
		if a.Bio != "" {
			fmt.Fprintln(w, a.Bio)
		}
	case assistant.SearchResultsData:
		for _, ar := range data.Artists {
			fmt.Fprintf(w, "  artist: %s\n", ar.Name)
		}
		for _, tr := range data.Tracks {
			fmt.Fprintf(w, "  track:  %s - %s\n", tr.Title, tr.ArtistName)
		}
	case assistant.ActionData:
		if data.Track != nil {
			fmt.Fprintf(w, "\n[%s] %s - %s\n", data.Action, data.Track.Title, data.Track.ArtistName)
		} else {
			fmt.Fprintf(w, "\n[%s]\n", data.Action)
		}
	case assistant.GenreListData:
		fmt.Fprintln(w)
		for _, g := range data.Genres {
			fmt.Fprintf(w, "  %s (%d tracks)\n", g.Genre, g.TrackCount)
		}
	}
}
