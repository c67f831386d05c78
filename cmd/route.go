package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmogomedia/kaya/internal/assistant"
)

var routeCmd = &cobra.Command{
	Use:   "route [query]",
	Short: "Show the routing decision for a query without executing it",
	Long: `Route classifies a query against the intent keyword lists and prints
the decision as JSON. It never calls the model or the catalogue, so it
works without a database or API key.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runRoute(strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(routeCmd)
}

func runRoute(query string) error {
	decision := assistant.Classify(query)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(decision); err != nil {
		return fmt.Errorf("encoding decision: %w", err)
	}
	return nil
}
