package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	codec, err := NewTokenCodec("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec error: %v", err)
	}

	token, err := codec.Issue("ruthger")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	subject, err := codec.Validate(token)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if subject != "ruthger" {
		t.Fatalf("expected subject ruthger, got %q", subject)
	}
}

func TestTokenExpiry(t *testing.T) {
	codec, err := NewTokenCodec("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec error: %v", err)
	}
	// force an already-expired token
	codec.ttl = -time.Minute

	token, err := codec.Issue("ruthger")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := codec.Validate(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenTampering(t *testing.T) {
	codec, err := NewTokenCodec("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec error: %v", err)
	}

	token, err := codec.Issue("ruthger")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// flip a byte in the payload segment
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := codec.Validate(tampered); err == nil {
		t.Fatal("expected validation failure for tampered token")
	}
}

func TestTokenWrongKey(t *testing.T) {
	issuer, _ := NewTokenCodec("key-one", time.Hour)
	verifier, _ := NewTokenCodec("key-two", time.Hour)

	token, err := issuer.Issue("ruthger")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := verifier.Validate(token); !errors.Is(err, ErrTokenSignature) {
		t.Fatalf("expected ErrTokenSignature, got %v", err)
	}
}

func TestTokenMalformed(t *testing.T) {
	codec, _ := NewTokenCodec("test-secret", time.Hour)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := codec.Validate(tok); !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("Validate(%q): expected ErrTokenMalformed, got %v", tok, err)
		}
	}
}

func TestNewTokenCodecRequiresSecret(t *testing.T) {
	if _, err := NewTokenCodec("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
