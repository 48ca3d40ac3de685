package models

import (
	"testing"
	"time"
)

func TestPrincipalInvariant(t *testing.T) {
	if !SignedOut().Valid() {
		t.Error("SignedOut principal must be valid")
	}
	if (Principal{Kind: KindCustomer}).Valid() {
		t.Error("Signed-in principal without token must be invalid")
	}
	if (Principal{Kind: KindSignedOut, AuthToken: "x"}).Valid() {
		t.Error("Signed-out principal with token must be invalid")
	}
	if !(Principal{Kind: KindAdministrator, AuthToken: "x"}).Valid() {
		t.Error("Administrator with token must be valid")
	}
}

func TestRoleKind(t *testing.T) {
	if RoleAdministrator.Kind() != KindAdministrator {
		t.Error("role 1 must map to administrator")
	}
	if RoleCustomer.Kind() != KindCustomer || Role(5).Kind() != KindCustomer {
		t.Error("other roles must map to customer")
	}
}

func TestPrincipalUpdateApply(t *testing.T) {
	name := "Li Hua"
	p := Principal{Kind: KindCustomer, AuthToken: "t", DisplayName: "old", LastLoginTime: "keep"}

	got := PrincipalUpdate{DisplayName: &name}.Apply(p)

	if got.DisplayName != "Li Hua" {
		t.Errorf("Expected merged display name, got %q", got.DisplayName)
	}
	if got.LastLoginTime != "keep" || got.AuthToken != "t" {
		t.Errorf("Unrelated fields changed: %+v", got)
	}
	if !(PrincipalUpdate{}).IsEmpty() {
		t.Error("zero update must be empty")
	}
}

func TestPrincipalTokenExpired(t *testing.T) {
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	p := Principal{Kind: KindCustomer, AuthToken: "t"}
	if p.TokenExpired(now) {
		t.Error("zero expiry must never be expired")
	}
	p.TokenExpiry = now.Add(-time.Minute)
	if !p.TokenExpired(now) {
		t.Error("past expiry must be expired")
	}
}

func TestParseTimestamp(t *testing.T) {
	for _, s := range []string{"2026-03-04 05:06:07", "2026-03-04T05:06:07", "2026-03-04T05:06:07Z"} {
		ts, err := ParseTimestamp(s)
		if err != nil {
			t.Errorf("ParseTimestamp(%q) failed: %v", s, err)
			continue
		}
		if ts.Day() != 4 || ts.Hour() != 5 {
			t.Errorf("ParseTimestamp(%q) = %s", s, ts)
		}
	}
	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Error("Expected error for unknown layout")
	}
}
