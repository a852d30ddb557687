package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"gopkg.in/yaml.v3"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeModule implements the full lifecycle and records call order.
type fakeModule struct {
	id    string
	calls *[]string

	configureErr error
	provisionErr error
	validateErr  error
	startErr     error
}

func (m *fakeModule) ModuleInfo() ModuleInfo {
	return ModuleInfo{
		ID:  ModuleID(m.id),
		New: func() Module { return m },
	}
}

func (m *fakeModule) Configure(_ *yaml.Node) error {
	*m.calls = append(*m.calls, m.id+".configure")
	return m.configureErr
}

func (m *fakeModule) Provision(_ *AppContext) error {
	*m.calls = append(*m.calls, m.id+".provision")
	return m.provisionErr
}

func (m *fakeModule) Validate() error {
	*m.calls = append(*m.calls, m.id+".validate")
	return m.validateErr
}

func (m *fakeModule) Start() error {
	*m.calls = append(*m.calls, m.id+".start")
	return m.startErr
}

func (m *fakeModule) Stop(_ context.Context) error {
	*m.calls = append(*m.calls, m.id+".stop")
	return nil
}

func configNode(t *testing.T, raw string) yaml.Node {
	t.Helper()
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &node); err != nil {
		t.Fatalf("unmarshal config node: %v", err)
	}
	return node
}

func TestRegisterModuleDuplicatePanics(t *testing.T) {
	resetRegistry()
	t.Cleanup(resetRegistry)

	var calls []string
	RegisterModule(&fakeModule{id: "test.dup", calls: &calls})

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	RegisterModule(&fakeModule{id: "test.dup", calls: &calls})
}

func TestGetModulesSortedByID(t *testing.T) {
	resetRegistry()
	t.Cleanup(resetRegistry)

	var calls []string
	RegisterModule(&fakeModule{id: "tracking.tgtrack", calls: &calls})
	RegisterModule(&fakeModule{id: "channel.telegram", calls: &calls})

	got := GetModules()
	if len(got) != 2 {
		t.Fatalf("got %d modules, want 2", len(got))
	}
	if got[0].ID != "channel.telegram" || got[1].ID != "tracking.tgtrack" {
		t.Errorf("order = [%s, %s], want sorted by ID", got[0].ID, got[1].ID)
	}
}

func TestLoadModuleLifecycleOrder(t *testing.T) {
	resetRegistry()
	t.Cleanup(resetRegistry)

	var calls []string
	RegisterModule(&fakeModule{id: "test.order", calls: &calls})

	ctx := NewAppContext(testLogger(), t.TempDir())
	ctx = ctx.WithModuleConfigs(map[string]yaml.Node{
		"test.order": configNode(t, "enabled: true"),
	})

	if _, err := ctx.LoadModule("test.order"); err != nil {
		t.Fatalf("LoadModule() error: %v", err)
	}

	want := []string{"test.order.configure", "test.order.provision", "test.order.validate"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestLoadModuleValidateError(t *testing.T) {
	resetRegistry()
	t.Cleanup(resetRegistry)

	var calls []string
	RegisterModule(&fakeModule{
		id:          "test.invalid",
		calls:       &calls,
		validateErr: errors.New("bad config"),
	})

	ctx := NewAppContext(testLogger(), t.TempDir())
	if _, err := ctx.LoadModule("test.invalid"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadModuleUnknown(t *testing.T) {
	resetRegistry()
	t.Cleanup(resetRegistry)

	ctx := NewAppContext(testLogger(), t.TempDir())
	if _, err := ctx.LoadModule("test.missing"); err == nil {
		t.Fatal("expected error for unknown module")
	}
}

func TestAppStartFailureStopsStartedModules(t *testing.T) {
	resetRegistry()
	t.Cleanup(resetRegistry)

	var calls []string
	RegisterModule(&fakeModule{id: "test.a", calls: &calls})
	RegisterModule(&fakeModule{id: "test.b", calls: &calls, startErr: errors.New("boom")})

	ctx := NewAppContext(testLogger(), t.TempDir())
	app := NewApp(ctx)
	if err := app.LoadModules([]string{"test.a", "test.b"}); err != nil {
		t.Fatalf("LoadModules() error: %v", err)
	}

	if err := app.Start(); err == nil {
		t.Fatal("expected Start() to fail")
	}

	// test.a was started before test.b failed, so it must be stopped.
	var sawStop bool
	for _, c := range calls {
		if c == "test.a.stop" {
			sawStop = true
		}
	}
	if !sawStop {
		t.Errorf("test.a was not stopped after start failure, calls: %v", calls)
	}
}

func TestServiceRegistrySharedAcrossModuleScopes(t *testing.T) {
	ctx := NewAppContext(testLogger(), t.TempDir())
	scoped := ctx.ForModule("channel.telegram")

	scoped.RegisterService("telegram.client", "value")

	got, ok := ctx.GetService("telegram.client")
	if !ok {
		t.Fatal("service registered in scoped context not visible in parent")
	}
	if got != "value" {
		t.Errorf("GetService() = %v, want %q", got, "value")
	}
}
