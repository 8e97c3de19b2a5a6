package resources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sentra/pkg/authority"
	"sentra/pkg/middleware"
)

// withCaller injects a fixed caller, standing in for the auth middleware.
func withCaller(c authority.Caller) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithCaller(r.Context(), c)))
		})
	}
}

func newTestRouter(c authority.Caller, svc *Service) http.Handler {
	r := chi.NewRouter()
	r.Use(withCaller(c))
	RegisterPublicHTTP(r, svc)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuthority(authority.User))
		RegisterUserHTTP(r, svc)
	})
	return r
}

func TestPublicEndpointNeedsNoAuth(t *testing.T) {
	svc := NewService(NewMemoryStore(), zap.NewNop().Sugar())
	mustCreate(t, svc, "alice", Resource{Name: "open", Public: true})

	rec := httptest.NewRecorder()
	newTestRouter(authority.Anonymous(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/resources", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []Resource
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 public resource, got %d", len(list))
	}
}

func TestUserRoutesGatedOnUserRole(t *testing.T) {
	svc := NewService(NewMemoryStore(), zap.NewNop().Sugar())

	rec := httptest.NewRecorder()
	newTestRouter(authority.Anonymous(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/resources/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	noRole := authority.Caller{Subject: "bob", Authorities: authority.NewSet(), Authenticated: true}
	newTestRouter(noRole, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/resources/", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("missing role: expected 403, got %d", rec.Code)
	}
}

func TestCreateIgnoresClientOwner(t *testing.T) {
	svc := NewService(NewMemoryStore(), zap.NewNop().Sugar())
	c := authority.Caller{Subject: "alice", Authorities: authority.NewSet(authority.User), Authenticated: true}

	body := strings.NewReader(`{"name":"doc","owner":"mallory"}`)
	rec := httptest.NewRecorder()
	newTestRouter(c, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/user/resources/", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created Resource
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if created.Owner != "alice" {
		t.Fatalf("owner must be the caller, got %q", created.Owner)
	}
}

func TestReadByIDHiddenResourceIs404(t *testing.T) {
	svc := NewService(NewMemoryStore(), zap.NewNop().Sugar())
	private, err := svc.Create(context.Background(),
		authority.Caller{Subject: "alice", Authenticated: true, Authorities: authority.NewSet()},
		Resource{Name: "secret"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	bob := authority.Caller{Subject: "bob", Authorities: authority.NewSet(authority.User), Authenticated: true}
	rec := httptest.NewRecorder()
	newTestRouter(bob, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/resources/"+private.ID, nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for hidden resource, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "denied") {
		t.Fatalf("response must not hint at denial: %s", rec.Body.String())
	}
}
