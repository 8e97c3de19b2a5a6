// internal/identity/service.go
package identity

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var syncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sentra_identity_sync_runs_total",
	Help: "Full identity refresh attempts by result.",
}, []string{"result"})

// Service keeps the local user view fresh without putting the identity
// provider on any request's critical path. Provider failures degrade to
// stale-or-absent data, never to a request failure.
type Service struct {
	cache  *Cache
	client *Client
	log    *zap.SugaredLogger
}

func NewService(cache *Cache, client *Client, log *zap.SugaredLogger) *Service {
	return &Service{cache: cache, client: client, log: log}
}

// GetUser returns the cached record for id, fetching from the provider on a
// miss. Returns nil when the user is unknown or the provider is unreachable.
func (s *Service) GetUser(ctx context.Context, id string) *User {
	if u, ok := s.cache.Get(id); ok {
		return &u
	}
	token, err := s.client.Authenticate(ctx)
	if err != nil {
		s.log.Warnw("identity provider auth failed", "err", err)
		return nil
	}
	u, err := s.client.FetchUser(ctx, token, id)
	if err != nil {
		s.log.Warnw("user fetch failed", "id", id, "err", err)
		return nil
	}
	s.cache.Put(u.ID, *u)
	return u
}

// RefreshAll pulls every user from the provider and upserts the batch into the
// cache. On any failure the cycle is skipped, the cache is left untouched and
// 0 is returned. Serves both the periodic scheduler and the admin endpoint.
func (s *Service) RefreshAll(ctx context.Context) int {
	token, err := s.client.Authenticate(ctx)
	if err != nil {
		s.log.Warnw("identity sync skipped: auth failed", "err", err)
		syncRuns.WithLabelValues("failure").Inc()
		return 0
	}
	users, err := s.client.FetchUsers(ctx, token)
	if err != nil {
		s.log.Warnw("identity sync skipped: fetch failed", "err", err)
		syncRuns.WithLabelValues("failure").Inc()
		return 0
	}
	s.cache.BulkReplace(users)
	syncRuns.WithLabelValues("success").Inc()
	s.log.Infow("synchronized users from identity provider", "count", len(users))
	return len(users)
}

// ClearUser drops one id from the cache so the next lookup refetches.
func (s *Service) ClearUser(id string) { s.cache.Invalidate(id) }

// ClearAll drops the whole cache.
func (s *Service) ClearAll() { s.cache.InvalidateAll() }
