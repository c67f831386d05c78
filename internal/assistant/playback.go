package assistant

import (
	"context"
	"log/slog"

	"github.com/mmogomedia/kaya/internal/tools"
)

const playbackSystemPrompt = `You are Kaya, the playback controller for a South African music streaming
platform. The listener wants to control what is playing.

Use the tools to resolve and execute playback actions: play_track for a
specific song, queue_track to add to the queue, shuffle_play for a mix,
skip_track to move on. Confirm what you did in one short sentence. If no
matching track exists, say so and suggest a search instead.`

// playbackToolNames is the fixed tool subset the playback agent exposes.
var playbackToolNames = []string{
	tools.NamePlayTrack,
	tools.NameQueueTrack,
	tools.NameShufflePlay,
	tools.NameSkipTrack,
}

// PlaybackAgent handles imperative player commands. Normalization is
// minimal: playback tools return actions, not data sets, so the first
// successful action is echoed back as an action variant.
type PlaybackAgent struct {
	engine *engine
	logger *slog.Logger
}

// NewPlaybackAgent creates the playback agent over a shared engine.
func NewPlaybackAgent(e *engine, logger *slog.Logger) *PlaybackAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaybackAgent{engine: e, logger: logger}
}

// Name implements Agent.
func (a *PlaybackAgent) Name() string { return "playback" }

// Process implements Agent.
func (a *PlaybackAgent) Process(ctx context.Context, query string, uc *AgentContext) (resp *AgentResponse) {
	defer recoverToApology(a.Name(), a.logger, &resp)

	res, err := a.engine.run(ctx, withFilters(playbackSystemPrompt, uc), a.engine.registry.RefsFor(playbackToolNames...), uc, query)
	if err != nil {
		a.logger.Error("playback run failed", "error", err)
		return errorResponse(a.Name(), err)
	}

	return buildResponse(a.Name(), res, actionVariant(res.results))
}

// actionVariant echoes the first successful playback action, if any.
func actionVariant(results []ToolResult) *Variant {
	for _, r := range results {
		if r.Err != "" {
			continue
		}
		action, ok := r.Output.(tools.ActionResult)
		if !ok {
			continue
		}
		return newVariant(VariantAction, action.Message, ActionData{
			Action: action.Action,
			Track:  action.Track,
			Tracks: action.Tracks,
		})
	}
	return nil
}
