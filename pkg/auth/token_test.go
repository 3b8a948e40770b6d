package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mnavarro-dev/storefront-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "storefront-test", ExpirationMinutes: 60}
}

func TestMintAndParseSessionToken(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	sessionID := uuid.New()

	token, err := MintSessionToken(cfg, time.Now(), SessionTokenPayload{
		SessionID: sessionID,
		Phone:     "+15550001111",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseSessionToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.SessionID != sessionID {
		t.Fatalf("expected session id roundtrip, got %v", claims.SessionID)
	}
	if claims.Phone != "+15550001111" {
		t.Fatalf("expected phone roundtrip, got %q", claims.Phone)
	}
	if claims.ID == "" {
		t.Fatalf("expected a generated jti")
	}
}

func TestMintSessionTokenValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		cfg     config.JWTConfig
		payload SessionTokenPayload
	}{
		{"missing secret", config.JWTConfig{Issuer: "i", ExpirationMinutes: 1}, SessionTokenPayload{SessionID: uuid.New(), Phone: "+1"}},
		{"missing issuer", config.JWTConfig{Secret: "s", ExpirationMinutes: 1}, SessionTokenPayload{SessionID: uuid.New(), Phone: "+1"}},
		{"zero expiry", config.JWTConfig{Secret: "s", Issuer: "i"}, SessionTokenPayload{SessionID: uuid.New(), Phone: "+1"}},
		{"nil session", testJWTConfig(), SessionTokenPayload{Phone: "+1"}},
		{"blank phone", testJWTConfig(), SessionTokenPayload{SessionID: uuid.New(), Phone: "   "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := MintSessionToken(tc.cfg, time.Now(), tc.payload); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseSessionTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, err := MintSessionToken(cfg, time.Now().Add(-2*time.Hour), SessionTokenPayload{
		SessionID: uuid.New(),
		Phone:     "+15550001111",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseSessionToken(cfg, token); err == nil {
		t.Fatalf("expected expiry rejection")
	}
}

func TestParseSessionTokenRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	other := cfg
	other.Issuer = "someone-else"

	token, err := MintSessionToken(other, time.Now(), SessionTokenPayload{
		SessionID: uuid.New(),
		Phone:     "+15550001111",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseSessionToken(cfg, token); err == nil {
		t.Fatalf("expected issuer rejection")
	}
}
