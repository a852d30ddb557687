package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kbrejes/unifyhubbot/modules/channel/telegram"
)

func newTestGateway(cfg Config) *Gateway {
	cfg.defaults()
	return &Gateway{
		config:    cfg,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:   &Metrics{},
		startedAt: time.Now(),
	}
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	var cfg Config
	cfg.defaults()

	if cfg.Bind != "127.0.0.1:8080" {
		t.Errorf("Bind = %q, want 127.0.0.1:8080", cfg.Bind)
	}
	if cfg.ReadTimeout != 10*time.Second {
		t.Errorf("ReadTimeout = %s, want 10s", cfg.ReadTimeout)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %s, want 5s", cfg.ShutdownTimeout)
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	g := newTestGateway(Config{})
	g.bot = &telegram.BotInfo{ID: 7, Username: "unifyhub_bot"}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	g.buildRouter().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
	if resp.Bot != "unifyhub_bot" {
		t.Errorf("bot = %q, want unifyhub_bot", resp.Bot)
	}
}

func TestMetricsEndpointMounted(t *testing.T) {
	t.Parallel()

	g := newTestGateway(Config{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	g.buildRouter().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestStatusRequiresAuth(t *testing.T) {
	t.Parallel()

	g := newTestGateway(Config{Auth: AuthConfig{BearerToken: "tok"}})
	g.metrics.RecordUpdate()
	g.metrics.RecordUpdate()
	g.metrics.RecordCommand()
	router := g.buildRouter()

	// Without credentials.
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/status", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}

	// With the right token.
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("authenticated status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp StatusResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Metrics.Updates != 2 {
		t.Errorf("updates = %d, want 2", resp.Metrics.Updates)
	}
	if resp.Metrics.Commands != 1 {
		t.Errorf("commands = %d, want 1", resp.Metrics.Commands)
	}
}

func TestStatusNotMountedWithoutAuth(t *testing.T) {
	t.Parallel()

	g := newTestGateway(Config{})

	rr := httptest.NewRecorder()
	g.buildRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/status", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d when auth unconfigured", rr.Code, http.StatusNotFound)
	}
}

func TestValidateBindAddress(t *testing.T) {
	t.Parallel()

	g := newTestGateway(Config{Bind: "not-an-address::::"})
	if err := g.Validate(); err == nil {
		t.Error("Validate() = nil, want error for bad bind address")
	}
}
