package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/takodata/tako-mcp/internal/log"
	"github.com/takodata/tako-mcp/internal/security"
)

// okMCPHandler stands in for the streamable MCP handler.
var okMCPHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("mcp"))
})

func newTestHandler(t *testing.T, cfg ServerConfig) http.Handler {
	t.Helper()

	if cfg.MCPHandler == nil {
		cfg.MCPHandler = okMCPHandler
	}
	if cfg.Hosts == nil {
		cfg.Hosts = security.NewHosts(nil, true)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNop()
	}

	srv, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer() unexpected error: %v", err)
	}
	return srv.Handler()
}

func TestNewServer_Validation(t *testing.T) {
	if _, err := NewServer(ServerConfig{Hosts: security.NewHosts(nil, true)}); err == nil {
		t.Error("NewServer() without MCP handler expected error, got nil")
	}
	if _, err := NewServer(ServerConfig{MCPHandler: okMCPHandler}); err == nil {
		t.Error("NewServer() without host validator expected error, got nil")
	}
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(t, ServerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("GET /health body = %q, want ok", rec.Body.String())
	}
}

func TestHealthDetailedEndpoint(t *testing.T) {
	handler := newTestHandler(t, ServerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/health/detailed", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health/detailed status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}

	var detail healthDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("parsing health JSON: %v\nbody: %s", err, rec.Body.String())
	}
	if detail.Status != "ok" {
		t.Errorf("status = %q, want ok", detail.Status)
	}
	if detail.Service != serviceName {
		t.Errorf("service = %q, want %q", detail.Service, serviceName)
	}
	if detail.Timestamp <= 0 {
		t.Errorf("timestamp = %v, want positive epoch seconds", detail.Timestamp)
	}
}

func TestHostCheck_RejectsUnknownHost(t *testing.T) {
	handler := newTestHandler(t, ServerConfig{})

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Host = "evil.example.com"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("POST /mcp with bad host status = %d, want 400", rec.Code)
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("parsing error JSON: %v\nbody: %s", err, rec.Body.String())
	}
	if errResp.Error != "invalid_host" {
		t.Errorf("error = %q, want invalid_host", errResp.Error)
	}
}

func TestHostCheck_AllowsLocalhost(t *testing.T) {
	handler := newTestHandler(t, ServerConfig{})

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Host = "localhost:8001"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("POST /mcp from localhost status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "mcp" {
		t.Errorf("body = %q, want forwarded to MCP handler", rec.Body.String())
	}
}

func TestHostCheck_ExemptsHealth(t *testing.T) {
	handler := newTestHandler(t, ServerConfig{})

	for _, path := range []string{"/health", "/health/detailed"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Host = "probe.internal.cluster"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("GET %s with foreign host status = %d, want 200 (health is exempt)", path, rec.Code)
		}
	}
}

func TestHostCheck_Disabled(t *testing.T) {
	handler := newTestHandler(t, ServerConfig{
		Hosts: security.NewHosts(nil, false),
	})

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Host = "any.example.com"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("POST /mcp with validation disabled status = %d, want 200", rec.Code)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	handler := newTestHandler(t, ServerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("response missing generated request ID")
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "upstream-id-42")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got != "upstream-id-42" {
		t.Errorf("request ID = %q, want supplied upstream-id-42", got)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := newTestHandler(t, ServerConfig{
		MCPHandler: http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("handler exploded")
		}),
	})

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Host = "localhost:8001"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("panicking handler status = %d, want 500", rec.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	handler := newTestHandler(t, ServerConfig{RateBurst: 2})

	var rejected bool
	for range 10 {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			rejected = true
			break
		}
	}
	if !rejected {
		t.Error("burst of requests never hit the rate limit")
	}
}
