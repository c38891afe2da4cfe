package auth

import (
	"testing"
	"time"

	"kharcha/internal/core"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	owner := core.Owner{ID: "user-1", Mobile: "9876543210"}

	token, err := tm.Generate(owner)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	got, err := tm.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got != owner {
		t.Fatalf("expected %+v, got %+v", owner, got)
	}
}

func TestValidateRejectsBadTokens(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	cases := map[string]string{
		"garbage": "not.a.token",
		"empty":   "",
	}
	if signed, err := NewTokenManager("other-secret", time.Hour).Generate(core.Owner{ID: "u"}); err == nil {
		cases["wrong secret"] = signed
	}
	if expired, err := NewTokenManager("test-secret", -time.Minute).Generate(core.Owner{ID: "u"}); err == nil {
		cases["expired"] = expired
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := tm.Validate(token); err == nil {
				t.Fatal("expected validation failure")
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("TestPass123!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "TestPass123!" {
		t.Fatal("hash must not equal the password")
	}
	if !CheckPasswordHash("TestPass123!", hash) {
		t.Fatal("correct password must verify")
	}
	if CheckPasswordHash("WrongPass", hash) {
		t.Fatal("wrong password must not verify")
	}
}
