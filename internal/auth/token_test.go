package auth

import (
	"testing"
	"time"

	"busgo/internal/domain"
)

func TestMintAndParseAccess(t *testing.T) {
	m := NewTokenManager("s1", "s2", time.Hour, 24*time.Hour)

	raw, err := m.MintAccess(42, domain.RoleConductor)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	rc, err := m.ParseAccess(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rc.UserID != 42 || rc.Role != domain.RoleConductor {
		t.Fatalf("unexpected principal: %+v", rc)
	}
}

func TestParseAccessRejectsWrongSecret(t *testing.T) {
	m1 := NewTokenManager("s1", "s2", time.Hour, time.Hour)
	m2 := NewTokenManager("other", "s2", time.Hour, time.Hour)

	raw, err := m1.MintAccess(1, domain.RolePassenger)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := m2.ParseAccess(raw); !domain.IsAuthorization(err) {
		t.Fatalf("expected authorization error, got %v", err)
	}
}

func TestParseAccessRejectsExpired(t *testing.T) {
	m := NewTokenManager("s1", "s2", -time.Minute, time.Hour)

	raw, err := m.MintAccess(1, domain.RolePassenger)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := m.ParseAccess(raw); !domain.IsAuthorization(err) {
		t.Fatalf("expected authorization error for expired token, got %v", err)
	}
}

func TestRefreshTokenOmitsRole(t *testing.T) {
	m := NewTokenManager("s1", "s2", time.Hour, time.Hour)

	raw, err := m.MintRefresh(7)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	uid, err := m.ParseRefresh(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if uid != 7 {
		t.Fatalf("user id: got %d want 7", uid)
	}

	// A refresh token must not pass as an access token.
	if _, err := m.ParseAccess(raw); !domain.IsAuthorization(err) {
		t.Fatalf("refresh token accepted as access token")
	}
}
