package tgtrack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbrejes/unifyhubbot/internal/dispatch"
	"github.com/kbrejes/unifyhubbot/pkg/update"
)

func newTestTracker(t *testing.T, baseURL string) *Tracker {
	t.Helper()
	return NewTracker(NewClient(testConfig(baseURL)), discardLogger(), newTestMetrics())
}

func TestHookForwardsStartEvent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		providerOK()(w, r)
	}))
	defer srv.Close()

	tracker := newTestTracker(t, srv.URL)
	hook := NewHook(tracker)

	action, err := hook.Execute(context.Background(), startUpdate())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if action != dispatch.ActionContinue {
		t.Errorf("action = %v, want ActionContinue", action)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := tracker.Wait(ctx); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("outbound calls = %d, want 1", calls.Load())
	}
}

func TestHookIgnoresPlainMessage(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		providerOK()(w, r)
	}))
	defer srv.Close()

	tracker := newTestTracker(t, srv.URL)
	hook := NewHook(tracker)

	upd := &update.Update{
		ID:   101,
		Kind: update.KindMessage,
		Text: "hello there",
	}
	action, err := hook.Execute(context.Background(), upd)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if action != dispatch.ActionContinue {
		t.Errorf("action = %v, want ActionContinue", action)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = tracker.Wait(ctx)
	if calls.Load() != 0 {
		t.Errorf("outbound calls = %d, want 0", calls.Load())
	}
}

func TestHookNeverFailsOnProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"code":13,"message":"nope"}}`))
	}))
	defer srv.Close()

	tracker := newTestTracker(t, srv.URL)
	hook := NewHook(tracker)

	action, err := hook.Execute(context.Background(), startUpdate())
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil even on provider failure", err)
	}
	if action != dispatch.ActionContinue {
		t.Errorf("action = %v, want ActionContinue", action)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := tracker.Wait(ctx); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
}

func TestHookReturnsImmediatelyOnHungProvider(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		srv.Close()
	}()

	tracker := newTestTracker(t, srv.URL)
	hook := NewHook(tracker)

	start := time.Now()
	if _, err := hook.Execute(context.Background(), startUpdate()); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Execute() blocked for %s, want an immediate return", elapsed)
	}
}

func TestReachGoalFailureStaysInternal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tracker := newTestTracker(t, srv.URL)
	tracker.ReachGoal(42, "user_shared_phone")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := tracker.Wait(ctx); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
}
