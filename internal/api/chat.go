package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mmogomedia/kaya/internal/assistant"
	"github.com/mmogomedia/kaya/internal/session"
)

// maxChatBodyBytes bounds chat request bodies.
const maxChatBodyBytes = 64 * 1024

// Assistant is the conversational surface the chat endpoints depend on.
// *assistant.Router satisfies it.
type Assistant interface {
	Decision(query string) assistant.RoutingDecision
	Route(ctx context.Context, query string, uc *assistant.AgentContext) *assistant.AgentResponse
}

// chatRequest is the POST /api/v1/chat body. SessionID is optional: when
// absent a new session is created and returned in the response.
type chatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Query     string `json:"query"`
	Genre     string `json:"genre,omitempty"`
	Province  string `json:"province,omitempty"`
}

// chatReply is the POST /api/v1/chat response.
type chatReply struct {
	SessionID string                     `json:"session_id"`
	Message   string                     `json:"message"`
	Data      *assistant.Variant         `json:"data,omitempty"`
	Metadata  assistant.ResponseMetadata `json:"metadata"`
	Routing   assistant.RoutingDecision  `json:"routing"`
}

// chatHandler serves the conversational endpoints.
type chatHandler struct {
	assistant Assistant
	sessions  *session.Manager
	logger    *slog.Logger
}

// send handles POST /api/v1/chat.
func (h *chatHandler) send(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_body", "invalid request body", h.logger)
		return
	}

	if req.Query == "" {
		WriteError(w, http.StatusBadRequest, "missing_query", "query is required", h.logger)
		return
	}

	sess, ok := h.resolveSession(w, &req)
	if !ok {
		return
	}

	// Filters in the request override the stored ones for this call only.
	// The session itself stays untouched; it is shared across requests.
	genre := sess.Genre
	if req.Genre != "" {
		genre = req.Genre
	}
	province := sess.Province
	if req.Province != "" {
		province = req.Province
	}

	uc := &assistant.AgentContext{
		UserID:   sess.ID.String(),
		History:  sess.History.Messages(),
		Genre:    genre,
		Province: province,
	}

	decision := h.assistant.Decision(req.Query)
	resp := h.assistant.Route(r.Context(), req.Query, uc)

	if err := h.sessions.Append(sess.ID, req.Query, resp.Message); err != nil {
		// Session may have been purged mid-request. The reply itself is
		// still valid, so log and continue.
		h.logger.Warn("failed to append session history", "session_id", sess.ID, "error", err)
	}

	WriteJSON(w, http.StatusOK, chatReply{
		SessionID: sess.ID.String(),
		Message:   resp.Message,
		Data:      resp.Data,
		Metadata:  resp.Metadata,
		Routing:   decision,
	})
}

// resolveSession loads the session named in the request or creates a new
// one. Writes the error response itself when the ID is unusable.
func (h *chatHandler) resolveSession(w http.ResponseWriter, req *chatRequest) (*session.Session, bool) {
	if req.SessionID == "" {
		return h.sessions.Create(req.Genre, req.Province), true
	}

	id, err := uuid.Parse(req.SessionID)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_session_id", "session_id must be a UUID", h.logger)
		return nil, false
	}

	sess, err := h.sessions.Get(id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "session_not_found", "session not found", h.logger)
			return nil, false
		}
		WriteError(w, http.StatusInternalServerError, "session_failed", "failed to load session", h.logger)
		return nil, false
	}
	return sess, true
}

// route handles GET /api/v1/route. It reports the routing decision for a
// query without invoking any agent, so it is side-effect free.
func (h *chatHandler) route(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		WriteError(w, http.StatusBadRequest, "missing_query", "query parameter q is required", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, h.assistant.Decision(query))
}
