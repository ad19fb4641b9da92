package domain

import "testing"

func TestParseRoleAdmin(t *testing.T) {
	if got := ParseRole("admin"); got != RoleAdmin {
		t.Fatalf("expected admin, got %q", got)
	}
	if got := ParseRole(" Admin "); got != RoleAdmin {
		t.Fatalf("expected admin for mixed case, got %q", got)
	}
}

func TestParseRoleUnknownFallsBackToUser(t *testing.T) {
	for _, raw := range []string{"", "superuser", "root", "ADMINISTRATOR"} {
		if got := ParseRole(raw); got != RoleUser {
			t.Fatalf("expected user for %q, got %q", raw, got)
		}
	}
}

func TestIsAdmin(t *testing.T) {
	if !RoleAdmin.IsAdmin() {
		t.Fatalf("expected RoleAdmin.IsAdmin to be true")
	}
	if RoleUser.IsAdmin() {
		t.Fatalf("expected RoleUser.IsAdmin to be false")
	}
}
