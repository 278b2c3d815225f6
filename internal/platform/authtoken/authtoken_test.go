package authtoken

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestIssueParseRoundTrip(t *testing.T) {
	secret := []byte("s3cret")
	userID := uuid.New()
	tok, err := Issue(secret, userID, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	got, err := Parse(secret, tok)
	if err != nil || got != userID {
		t.Fatalf("Parse=%s err=%v", got, err)
	}
}

func TestParseRejects(t *testing.T) {
	secret := []byte("s3cret")
	expired, _ := Issue(secret, uuid.New(), time.Minute, time.Now().Add(-time.Hour))
	wrongKey, _ := Issue([]byte("other"), uuid.New(), time.Hour, time.Now())
	noUser, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString(secret)
	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"user_id": uuid.NewString()}).SignedString(secret)

	for name, tok := range map[string]string{
		"expired":   expired,
		"wrong_key": wrongKey,
		"no_user":   noUser,
		"hs512":     hs512,
		"garbage":   "not-a-jwt",
	} {
		if _, err := Parse(secret, tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}
