package api

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/goleak"

	"github.com/mmogomedia/kaya/internal/assistant"
	"github.com/mmogomedia/kaya/internal/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubAssistant returns canned routing decisions and responses and records
// what it was called with.
type stubAssistant struct {
	decision  assistant.RoutingDecision
	resp      *assistant.AgentResponse
	lastQuery string
	lastCtx   *assistant.AgentContext
}

func (s *stubAssistant) Decision(string) assistant.RoutingDecision {
	return s.decision
}

func (s *stubAssistant) Route(_ context.Context, query string, uc *assistant.AgentContext) *assistant.AgentResponse {
	s.lastQuery = query
	s.lastCtx = uc
	return s.resp
}

func newTestServer(t *testing.T, stub *stubAssistant, mutate func(*ServerConfig)) (*Server, *session.Manager) {
	t.Helper()

	sessions := session.NewManager(40, nil)
	cfg := ServerConfig{
		Assistant: stub,
		Sessions:  sessions,
	}
	if mutate != nil {
		mutate(&cfg)
	}

	srv, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return srv, sessions
}

func defaultStub() *stubAssistant {
	return &stubAssistant{
		decision: assistant.RoutingDecision{
			Intent:      assistant.IntentDiscovery,
			Confidence:  0.5,
			TargetAgent: "discovery",
		},
		resp: &assistant.AgentResponse{
			Message:  "Here you go.",
			Metadata: assistant.ResponseMetadata{Agent: "discovery"},
		},
	}
}

func TestNewServerValidation(t *testing.T) {
	if _, err := NewServer(ServerConfig{Sessions: session.NewManager(40, nil)}); err == nil {
		t.Error("NewServer() without assistant should fail")
	}
	if _, err := NewServer(ServerConfig{Assistant: defaultStub()}); err == nil {
		t.Error("NewServer() without session manager should fail")
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, defaultStub(), nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("GET /health status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestReadyWithoutPool(t *testing.T) {
	srv, _ := newTestServer(t, defaultStub(), nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if w.Code != http.StatusOK {
		t.Errorf("GET /ready status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRequestIDAssigned(t *testing.T) {
	srv, _ := newTestServer(t, defaultStub(), nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/route?q=play", nil))

	got := w.Header().Get("X-Request-ID")
	if got == "" {
		t.Fatal("X-Request-ID header not set")
	}
	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("X-Request-ID = %q, not a valid UUID", got)
	}
}

func TestRequestIDReusesValid(t *testing.T) {
	want := uuid.New().String()

	handler := requestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", want)

	handler.ServeHTTP(w, r)

	if got := w.Header().Get("X-Request-ID"); got != want {
		t.Errorf("X-Request-ID = %q, want %q", got, want)
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv, _ := newTestServer(t, defaultStub(), nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/route?q=play", nil))

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t, defaultStub(), func(cfg *ServerConfig) {
		cfg.CORSOrigins = []string{"https://app.kaya.example"}
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodOptions, "/api/v1/chat", nil)
	r.Header.Set("Origin", "https://app.kaya.example")

	srv.Handler().ServeHTTP(w, r)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.kaya.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestCORSUnknownOrigin(t *testing.T) {
	srv, _ := newTestServer(t, defaultStub(), func(cfg *ServerConfig) {
		cfg.CORSOrigins = []string{"https://app.kaya.example"}
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/route?q=play", nil)
	r.Header.Set("Origin", "https://evil.example")

	srv.Handler().ServeHTTP(w, r)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want empty", got)
	}
}

func TestRateLimitExceeded(t *testing.T) {
	srv, _ := newTestServer(t, defaultStub(), func(cfg *ServerConfig) {
		cfg.RateBurst = 1
	})

	first := httptest.NewRecorder()
	srv.Handler().ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v1/route?q=play", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want %d", first.Code, http.StatusOK)
	}

	second := httptest.NewRecorder()
	srv.Handler().ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v1/route?q=play", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want %d", second.Code, http.StatusTooManyRequests)
	}
	if got := second.Header().Get("Retry-After"); got != "1" {
		t.Errorf("Retry-After = %q, want 1", got)
	}
}

func TestRateLimitRefillConfigurable(t *testing.T) {
	// An effectively infinite refill rate never exhausts a burst of one.
	srv, _ := newTestServer(t, defaultStub(), func(cfg *ServerConfig) {
		cfg.RateRPS = math.MaxFloat64
		cfg.RateBurst = 1
	})

	for range 3 {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/route?q=play", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request status = %d, want %d", w.Code, http.StatusOK)
		}
	}
}

func TestRateLimitHealthExempt(t *testing.T) {
	srv, _ := newTestServer(t, defaultStub(), func(cfg *ServerConfig) {
		cfg.RateBurst = 1
	})

	for range 3 {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("GET /health status = %d, want %d", w.Code, http.StatusOK)
		}
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := testLogger()

	handler := recoveryMiddleware(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("panic status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		realIP     string
		forwarded  string
		trustProxy bool
		want       string
	}{
		{name: "remote addr", remoteAddr: "10.0.0.1:1234", want: "10.0.0.1"},
		{name: "real ip ignored without proxy trust", remoteAddr: "10.0.0.1:1234", realIP: "1.2.3.4", want: "10.0.0.1"},
		{name: "real ip trusted", remoteAddr: "10.0.0.1:1234", realIP: "1.2.3.4", trustProxy: true, want: "1.2.3.4"},
		{name: "forwarded first ip", remoteAddr: "10.0.0.1:1234", forwarded: "1.2.3.4, 5.6.7.8", trustProxy: true, want: "1.2.3.4"},
		{name: "invalid header falls back", remoteAddr: "10.0.0.1:1234", realIP: "not-an-ip", trustProxy: true, want: "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}

			if got := clientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
