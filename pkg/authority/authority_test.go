package authority

import "testing"

func TestExtractRealmAndClientRoles(t *testing.T) {
	claims := map[string]any{
		"realm_access": map[string]any{"roles": []any{"user"}},
		"resource_access": map[string]any{
			"billing": map[string]any{"roles": []any{"viewer"}},
		},
	}
	got := Extract(claims)
	if len(got) != 2 {
		t.Fatalf("expected 2 authorities, got %v", got.List())
	}
	if !got.Has("ROLE_USER") || !got.Has("ROLE_VIEWER") {
		t.Fatalf("unexpected authorities %v", got.List())
	}
}

func TestExtractUppercasesRoleNames(t *testing.T) {
	lower := Extract(map[string]any{"realm_access": map[string]any{"roles": []any{"admin"}}})
	mixed := Extract(map[string]any{"realm_access": map[string]any{"roles": []any{"Admin"}}})
	if !lower.Has("ROLE_ADMIN") || !mixed.Has("ROLE_ADMIN") {
		t.Fatalf("case folding failed: %v / %v", lower.List(), mixed.List())
	}
}

func TestExtractScopeBaseline(t *testing.T) {
	got := Extract(map[string]any{"scope": "openid profile"})
	if !got.Has("SCOPE_openid") || !got.Has("SCOPE_profile") {
		t.Fatalf("unexpected baseline authorities %v", got.List())
	}
}

func TestExtractEmptyClaims(t *testing.T) {
	if got := Extract(map[string]any{}); len(got) != 0 {
		t.Fatalf("expected empty set, got %v", got.List())
	}
}

func TestExtractMalformedShapesSkipped(t *testing.T) {
	claims := map[string]any{
		"scope":        17,
		"realm_access": "not-a-map",
		"resource_access": map[string]any{
			"billing": "not-a-map",
			"orders":  map[string]any{"roles": "not-a-list"},
			"web":     map[string]any{"roles": []any{"editor", 42}},
		},
	}
	got := Extract(claims)
	if len(got) != 1 || !got.Has("ROLE_EDITOR") {
		t.Fatalf("expected only ROLE_EDITOR, got %v", got.List())
	}
}

func TestExtractCollapsesDuplicates(t *testing.T) {
	claims := map[string]any{
		"realm_access": map[string]any{"roles": []any{"user"}},
		"resource_access": map[string]any{
			"a": map[string]any{"roles": []any{"user"}},
			"b": map[string]any{"roles": []any{"USER"}},
		},
	}
	if got := Extract(claims); len(got) != 1 {
		t.Fatalf("expected collapsed set, got %v", got.List())
	}
}

func TestExtractIdempotent(t *testing.T) {
	claims := map[string]any{
		"scope":        "openid",
		"realm_access": map[string]any{"roles": []any{"user", "admin"}},
	}
	first := Extract(claims)
	second := Extract(claims)
	if len(first) != len(second) {
		t.Fatalf("sizes differ: %d vs %d", len(first), len(second))
	}
	for a := range first {
		if !second.Has(a) {
			t.Fatalf("missing %s on re-run", a)
		}
	}
}
