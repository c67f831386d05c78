package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmogomedia/kaya/internal/assistant"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func postJSON(t *testing.T, srv *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	r.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(w, r)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	return got
}

func TestChatCreatesSession(t *testing.T) {
	stub := defaultStub()
	srv, sessions := newTestServer(t, stub, nil)

	w := postJSON(t, srv, "/api/v1/chat", map[string]string{
		"query": "find me amapiano tracks",
		"genre": "Amapiano",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decodeBody(t, w)

	sid, ok := got["session_id"].(string)
	require.True(t, ok)
	id, err := uuid.Parse(sid)
	require.NoError(t, err)

	assert.Equal(t, "Here you go.", got["message"])
	routing, ok := got["routing"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "discovery", routing["intent"])

	// The exchange lands in the new session's history.
	msgs, err := sessions.Messages(id)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)

	// Listener filters flow through to the agent context.
	require.NotNil(t, stub.lastCtx)
	assert.Equal(t, "Amapiano", stub.lastCtx.Genre)
	assert.Equal(t, "find me amapiano tracks", stub.lastQuery)
}

func TestChatReusesSessionHistory(t *testing.T) {
	stub := defaultStub()
	srv, sessions := newTestServer(t, stub, nil)

	sess := sessions.Create("", "")
	require.NoError(t, sessions.Append(sess.ID, "first question", "first answer"))

	w := postJSON(t, srv, "/api/v1/chat", map[string]string{
		"session_id": sess.ID.String(),
		"query":      "second question",
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, stub.lastCtx)
	assert.Len(t, stub.lastCtx.History, 2)

	msgs, err := sessions.Messages(sess.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 4)
}

func TestChatFilterOverrideIsPerRequest(t *testing.T) {
	stub := defaultStub()
	srv, sessions := newTestServer(t, stub, nil)

	sess := sessions.Create("Amapiano", "Gauteng")

	w := postJSON(t, srv, "/api/v1/chat", map[string]string{
		"session_id": sess.ID.String(),
		"query":      "something harder",
		"genre":      "Gqom",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// The agent sees the request filters.
	require.NotNil(t, stub.lastCtx)
	assert.Equal(t, "Gqom", stub.lastCtx.Genre)
	assert.Equal(t, "Gauteng", stub.lastCtx.Province)

	// The stored session keeps its own.
	got, err := sessions.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amapiano", got.Genre)
	assert.Equal(t, "Gauteng", got.Province)
}

func TestChatMissingQuery(t *testing.T) {
	srv, _ := newTestServer(t, defaultStub(), nil)

	w := postJSON(t, srv, "/api/v1/chat", map[string]string{})

	require.Equal(t, http.StatusBadRequest, w.Code)
	got := decodeBody(t, w)
	errObj, ok := got["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "missing_query", errObj["code"])
}

func TestChatInvalidBody(t *testing.T) {
	srv, _ := newTestServer(t, defaultStub(), nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader([]byte("{not json")))
	srv.Handler().ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatBadSessionID(t *testing.T) {
	srv, _ := newTestServer(t, defaultStub(), nil)

	w := postJSON(t, srv, "/api/v1/chat", map[string]string{
		"session_id": "not-a-uuid",
		"query":      "play something",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, srv, "/api/v1/chat", map[string]string{
		"session_id": uuid.New().String(),
		"query":      "play something",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouteEndpoint(t *testing.T) {
	stub := defaultStub()
	stub.decision = assistant.RoutingDecision{
		Intent:      assistant.IntentPlayback,
		Confidence:  1,
		TargetAgent: "playback",
	}
	srv, sessions := newTestServer(t, stub, nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/route?q=play+the+song", nil))

	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody(t, w)
	assert.Equal(t, "playback", got["intent"])
	assert.Equal(t, 1.0, got["confidence"])

	// Inspection must not touch sessions or agents.
	assert.Equal(t, 0, sessions.Count())
}

func TestRouteMissingQuery(t *testing.T) {
	srv, _ := newTestServer(t, defaultStub(), nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/route", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionLifecycle(t *testing.T) {
	srv, _ := newTestServer(t, defaultStub(), nil)

	w := postJSON(t, srv, "/api/v1/sessions", map[string]string{
		"genre":    "Gqom",
		"province": "KwaZulu-Natal",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody(t, w)
	sid, ok := created["id"].(string)
	require.True(t, ok)
	assert.Equal(t, "Gqom", created["genre"])

	get := httptest.NewRecorder()
	srv.Handler().ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+sid, nil))
	require.Equal(t, http.StatusOK, get.Code)

	del := httptest.NewRecorder()
	srv.Handler().ServeHTTP(del, httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/"+sid, nil))
	require.Equal(t, http.StatusNoContent, del.Code)

	gone := httptest.NewRecorder()
	srv.Handler().ServeHTTP(gone, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+sid, nil))
	assert.Equal(t, http.StatusNotFound, gone.Code)
}

func TestSessionInvalidID(t *testing.T) {
	srv, _ := newTestServer(t, defaultStub(), nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/nope", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
