package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"sentra/pkg/config"
)

func TestTracingConcurrentInit(t *testing.T) {
	// With no OTLP endpoint configured, Tracing must hand back a working
	// pass-through middleware no matter how many goroutines race the init.
	cfg := config.Config{Env: "dev"}
	var wg sync.WaitGroup
	mws := make([]func(http.Handler) http.Handler, 8)
	for i := range mws {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			mws[i] = Tracing(cfg)
		}(i)
	}
	wg.Wait()

	for i, mw := range mws {
		if mw == nil {
			t.Fatalf("goroutine %d got nil middleware", i)
		}
		rec := httptest.NewRecorder()
		h := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusTeapot {
			t.Fatalf("middleware %d did not pass through, got %d", i, rec.Code)
		}
	}
}
