package model

import (
	"testing"
	"time"
)

func TestRoleHierarchy(t *testing.T) {
	order := []Role{RoleStudent, RoleEmployee, RoleLecturer, RoleManager, RoleAdmin, RoleSuperadmin}
	for i := 1; i < len(order); i++ {
		if !order[i].Outranks(order[i-1]) {
			t.Fatalf("expected %s to outrank %s", order[i], order[i-1])
		}
		if order[i-1].AtLeast(order[i]) {
			t.Fatalf("expected %s to be below %s", order[i-1], order[i])
		}
	}
	if !RoleManager.AtLeast(RoleManager) {
		t.Fatalf("expected AtLeast to be inclusive")
	}
}

func TestParseRole(t *testing.T) {
	for _, value := range []string{"superadmin", "admin", "manager", "lecturer", "employee", "student"} {
		if _, err := ParseRole(value); err != nil {
			t.Fatalf("expected role %s to parse", value)
		}
	}
	if _, err := ParseRole("root"); err == nil {
		t.Fatalf("expected unknown role to error")
	}
}

func TestScopeFor(t *testing.T) {
	admin := &User{Role: RoleAdmin, CompanyID: "c1"}
	scope := ScopeFor(admin)
	if scope.AllTenants || scope.CompanyID != "c1" {
		t.Fatalf("expected admin scope bound to c1, got %+v", scope)
	}
	if scope.Contains("c2") {
		t.Fatalf("expected c2 outside admin scope")
	}

	super := &User{Role: RoleSuperadmin, CompanyID: "c1"}
	scope = ScopeFor(super)
	if !scope.AllTenants {
		t.Fatalf("expected superadmin to get all-tenants scope")
	}
	if !scope.Contains("c2") {
		t.Fatalf("expected all-tenants scope to contain any company")
	}
}

func TestTrialAccess(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	company := &Company{
		TrialEndDate: now.Add(48 * time.Hour),
	}
	if !company.IsTrialActive(now) || !company.HasAccess(now) {
		t.Fatalf("expected trial to be active")
	}
	if got := company.TrialDaysRemaining(now); got != 2 {
		t.Fatalf("expected 2 trial days remaining, got %d", got)
	}

	company.TrialUsed = true
	if company.IsTrialActive(now) || company.HasAccess(now) {
		t.Fatalf("expected used trial to deny access")
	}
	if got := company.TrialDaysRemaining(now); got != 0 {
		t.Fatalf("expected 0 days remaining, got %d", got)
	}

	company.TrialUsed = false
	company.SubscriptionActive = true
	if company.IsTrialActive(now) {
		t.Fatalf("subscription should supersede trial")
	}
	if !company.HasAccess(now) {
		t.Fatalf("expected subscription to grant access")
	}

	company.SubscriptionActive = false
	company.TrialEndDate = now.Add(-time.Minute)
	if company.HasAccess(now) {
		t.Fatalf("expected expired trial to deny access")
	}
}

func TestTokenExpiry(t *testing.T) {
	now := time.Now().UTC()
	token := &QrToken{ExpiresAt: now.Add(time.Minute)}
	if token.IsExpired(now) {
		t.Fatalf("expected token to be valid before expiresAt")
	}
	if !token.IsExpired(now.Add(2 * time.Minute)) {
		t.Fatalf("expected token to expire after expiresAt")
	}
	if token.IsExpired(token.ExpiresAt) {
		t.Fatalf("expiry boundary is exclusive")
	}
}
