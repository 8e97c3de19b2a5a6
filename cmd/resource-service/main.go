// cmd/resource-service/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sentra/internal/identity"
	"sentra/internal/resources"
	"sentra/pkg/authority"
	"sentra/pkg/config"
	"sentra/pkg/db"
	"sentra/pkg/logger"
	"sentra/pkg/middleware"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)

	pool := db.MustConnect(cfg, log)

	var store resources.Store
	if pool != nil {
		store = resources.NewPostgresStore(pool, log)
		if err := resources.EnsureSchema(context.Background(), pool); err != nil {
			log.Fatalw("schema", "err", err)
		}
	} else {
		log.Warnw("DATABASE_URL not set, using in-memory resource store")
		store = resources.NewMemoryStore()
	}
	if err := resources.SeedFromFile(context.Background(), store, cfg.ResourceSeedFile, log); err != nil {
		log.Warnw("seed", "file", cfg.ResourceSeedFile, "err", err)
	}

	resourceSvc := resources.NewService(store, log)

	cache := identity.NewCache()
	identitySvc := identity.NewService(cache, identity.NewClient(cfg, log), log)

	// Background identity refresh, same code path as the admin sync endpoint.
	syncCtx, stopSync := context.WithCancel(context.Background())
	defer stopSync()
	go identity.NewScheduler(identitySvc, cfg.SyncInterval, log).Run(syncCtx)

	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recover(log))
	r.Use(middleware.CORS())
	r.Use(middleware.Tracing(cfg))
	r.Use(middleware.Auth(cfg))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("ok")) })
	resources.RegisterPublicHTTP(r, resourceSvc)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuthority(authority.User))
		resources.RegisterUserHTTP(r, resourceSvc)
		identity.RegisterProfileHTTP(r, identitySvc)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuthority(authority.Admin))
		identity.RegisterAdminHTTP(r, identitySvc)
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Infow("resource-service listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("ListenAndServe", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	stopSync()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	fmt.Println("resource-service stopped")
}
