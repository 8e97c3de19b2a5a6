package resources

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"sentra/pkg/authority"
)

func newTestService() *Service {
	return NewService(NewMemoryStore(), zap.NewNop().Sugar())
}

func caller(subject string, authorities ...string) authority.Caller {
	return authority.Caller{
		Subject:       subject,
		Authorities:   authority.NewSet(authorities...),
		Authenticated: subject != "",
	}
}

func mustCreate(t *testing.T, svc *Service, owner string, r Resource) Resource {
	t.Helper()
	created, err := svc.Create(context.Background(), caller(owner), r)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return created
}

func TestCreateForcesOwner(t *testing.T) {
	svc := newTestService()
	created := mustCreate(t, svc, "alice", Resource{Name: "doc", Owner: "mallory"})
	if created.Owner != "alice" {
		t.Fatalf("owner must be the caller, got %q", created.Owner)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
}

func TestCreateRequiresAuthentication(t *testing.T) {
	svc := newTestService()
	_, err := svc.Create(context.Background(), authority.Anonymous(), Resource{Name: "doc"})
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestGetByIDVisibility(t *testing.T) {
	svc := newTestService()
	private := mustCreate(t, svc, "alice", Resource{Name: "secret"})
	public := mustCreate(t, svc, "alice", Resource{Name: "open", Public: true})

	if _, err := svc.GetByID(context.Background(), authority.Anonymous(), public.ID); err != nil {
		t.Fatalf("public resource must be readable anonymously: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), caller("alice"), private.ID); err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), caller("bob", authority.Admin), private.ID); err != nil {
		t.Fatalf("admin read failed: %v", err)
	}
	// Non-owner gets not-found, not denied: existence stays hidden.
	if _, err := svc.GetByID(context.Background(), caller("bob"), private.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), caller("alice"), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestUpdatePreservesPersistedOwner(t *testing.T) {
	svc := newTestService()
	created := mustCreate(t, svc, "alice", Resource{Name: "doc"})

	updated, err := svc.Update(context.Background(), caller("alice"), created.ID, Resource{
		Name:  "doc v2",
		Owner: "mallory",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Owner != "alice" {
		t.Fatalf("owner must survive update, got %q", updated.Owner)
	}
	if updated.Name != "doc v2" {
		t.Fatalf("payload not applied: %+v", updated)
	}
}

func TestUpdateDeleteAuthorization(t *testing.T) {
	svc := newTestService()
	created := mustCreate(t, svc, "alice", Resource{Name: "doc"})

	if _, err := svc.Update(context.Background(), caller("bob"), created.ID, Resource{Name: "x"}); !errors.Is(err, ErrDenied) {
		t.Fatalf("expected ErrDenied for non-owner update, got %v", err)
	}
	if err := svc.Delete(context.Background(), caller("bob"), created.ID); !errors.Is(err, ErrDenied) {
		t.Fatalf("expected ErrDenied for non-owner delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), caller("admin", authority.Admin), created.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if err := svc.Delete(context.Background(), caller("alice"), created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMyResourcesFiltersByOwner(t *testing.T) {
	svc := newTestService()
	mustCreate(t, svc, "alice", Resource{Name: "a1"})
	mustCreate(t, svc, "alice", Resource{Name: "a2"})
	mustCreate(t, svc, "bob", Resource{Name: "b1"})

	mine, err := svc.MyResources(context.Background(), caller("alice"))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(mine))
	}
	for _, r := range mine {
		if r.Owner != "alice" {
			t.Fatalf("foreign resource in listing: %+v", r)
		}
	}
}

func TestPublicResourcesListsOnlyPublic(t *testing.T) {
	svc := newTestService()
	mustCreate(t, svc, "alice", Resource{Name: "open", Public: true})
	mustCreate(t, svc, "alice", Resource{Name: "secret"})

	list, err := svc.PublicResources(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 || !list[0].Public {
		t.Fatalf("unexpected listing %+v", list)
	}
}

func TestByRequiredRole(t *testing.T) {
	svc := newTestService()
	mustCreate(t, svc, "alice", Resource{Name: "audit-log", RequiredRole: "ROLE_AUDITOR"})

	list, err := svc.ByRequiredRole(context.Background(), caller("bob", "ROLE_AUDITOR"), "auditor")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 resource, got %d", len(list))
	}
	if _, err := svc.ByRequiredRole(context.Background(), caller("bob"), "auditor"); !errors.Is(err, ErrDenied) {
		t.Fatalf("expected ErrDenied without the role, got %v", err)
	}
}
