package identity

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSchedulerDrivesRefreshAndStopsOnCancel(t *testing.T) {
	users := []User{{ID: "u1", Username: "alice", Enabled: true}}
	srv := fakeKeycloak(t, users, false)
	defer srv.Close()

	svc, cache := newTestService(t, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewScheduler(svc, 10*time.Millisecond, zap.NewNop().Sugar()).Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for cache.Len() == 0 {
		select {
		case <-deadline:
			cancel()
			t.Fatal("no refresh within deadline")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if _, ok := cache.Get("u1"); !ok {
		t.Fatal("expected u1 in cache after tick")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSchedulerDefaultsInterval(t *testing.T) {
	svc, _ := newTestService(t, "http://127.0.0.1:0")
	s := NewScheduler(svc, 0, zap.NewNop().Sugar())
	if s.interval != time.Hour {
		t.Fatalf("expected 1h default, got %v", s.interval)
	}
}
