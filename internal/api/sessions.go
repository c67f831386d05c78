package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mmogomedia/kaya/internal/session"
)

// sessionHandler serves session lifecycle endpoints.
type sessionHandler struct {
	sessions *session.Manager
	logger   *slog.Logger
}

// createSessionRequest is the POST /api/v1/sessions body.
type createSessionRequest struct {
	Genre    string `json:"genre,omitempty"`
	Province string `json:"province,omitempty"`
}

// sessionInfo is the wire form of a session.
type sessionInfo struct {
	ID           string    `json:"id"`
	Genre        string    `json:"genre,omitempty"`
	Province     string    `json:"province,omitempty"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toSessionInfo(s *session.Session) sessionInfo {
	return sessionInfo{
		ID:           s.ID.String(),
		Genre:        s.Genre,
		Province:     s.Province,
		MessageCount: s.History.Count(),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// create handles POST /api/v1/sessions.
func (h *sessionHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// An empty body starts a session with no filters.
		req = createSessionRequest{}
	}

	s := h.sessions.Create(req.Genre, req.Province)
	WriteJSON(w, http.StatusCreated, toSessionInfo(s))
}

// get handles GET /api/v1/sessions/{id}.
func (h *sessionHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	s, err := h.sessions.Get(id)
	if err != nil {
		WriteError(w, http.StatusNotFound, "session_not_found", "session not found", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, toSessionInfo(s))
}

// delete handles DELETE /api/v1/sessions/{id}.
func (h *sessionHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	h.sessions.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

// sessionID parses the {id} path value. Writes the error response itself
// when the value is missing or malformed.
func (h *sessionHandler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.PathValue("id")
	if raw == "" {
		WriteError(w, http.StatusBadRequest, "missing_id", "session ID required", h.logger)
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_id", "invalid session ID", h.logger)
		return uuid.Nil, false
	}
	return id, true
}
