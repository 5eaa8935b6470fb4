package auth

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := NewAccessToken("secret", "educorp-attendance", time.Hour, Claims{
		UserID:    "u1",
		CompanyID: "c1",
		Role:      "lecturer",
	})
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}

	claims, err := ParseToken("secret", "educorp-attendance", token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.UserID != "u1" || claims.CompanyID != "c1" || claims.Role != "lecturer" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewAccessToken("secret", "educorp-attendance", time.Hour, Claims{UserID: "u1"})
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}
	if _, err := ParseToken("other-secret", "educorp-attendance", token); err == nil {
		t.Fatalf("expected signature mismatch to error")
	}
}

func TestParseTokenRejectsWrongIssuer(t *testing.T) {
	token, err := NewAccessToken("secret", "someone-else", time.Hour, Claims{UserID: "u1"})
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}
	if _, err := ParseToken("secret", "educorp-attendance", token); err == nil {
		t.Fatalf("expected issuer mismatch to error")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := NewAccessToken("secret", "educorp-attendance", -time.Minute, Claims{UserID: "u1"})
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}
	if _, err := ParseToken("secret", "educorp-attendance", token); err == nil {
		t.Fatalf("expected expired token to error")
	}
}
