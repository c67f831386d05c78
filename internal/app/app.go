// Package app wires the application together: configuration, database,
// Genkit, the tool kit, and the assistant router.
package app

import (
	"context"
	"log/slog"

	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmogomedia/kaya/internal/assistant"
	"github.com/mmogomedia/kaya/internal/config"
	"github.com/mmogomedia/kaya/internal/music"
	"github.com/mmogomedia/kaya/internal/session"
	"github.com/mmogomedia/kaya/internal/tools"
)

// App is the core application container.
type App struct {
	Config *config.Config

	Genkit    *genkit.Genkit
	DBPool    *pgxpool.Pool
	Store     music.Store
	Registry  *tools.Registry
	Assistant *assistant.Router
	Sessions  *session.Manager

	cancel context.CancelFunc
}

// Close gracefully shuts down all resources.
func (a *App) Close() error {
	slog.Info("shutting down application")

	if a.cancel != nil {
		a.cancel()
	}

	if a.DBPool != nil {
		a.DBPool.Close()
		slog.Info("database pool closed")
	}

	return nil
}
