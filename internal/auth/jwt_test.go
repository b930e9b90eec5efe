package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	testSecret = []byte("test-secret-at-least-16-chars!!")
	// whole seconds, so "exp" round-trips exactly
	issuedAt = time.Unix(1_700_000_000, 0)
)

// newTestTokenService creates a TokenService pinned to issuedAt.
func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService(string(testSecret))
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts.WithClock(func() time.Time { return issuedAt })
}

func mustIssue(t *testing.T, userID int64, login string) string {
	t.Helper()
	token, err := IssueToken(userID, login, testSecret, issuedAt)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	return token
}

// =========================================================================
// TOKEN SERVICE CONSTRUCTION TESTS
// =========================================================================

func TestNewTokenService_ShortSecret(t *testing.T) {
	_, err := NewTokenService("short")
	if err == nil {
		t.Fatal("NewTokenService() should reject secrets shorter than 16 chars")
	}
}

func TestNewTokenService_ValidSecret(t *testing.T) {
	_, err := NewTokenService("this-is-16-chars")
	if err != nil {
		t.Fatalf("NewTokenService() unexpected error for valid secret: %v", err)
	}
}

// =========================================================================
// ISSUE TESTS
// =========================================================================

func TestIssueToken_HasThreeSegments(t *testing.T) {
	token := mustIssue(t, 1, "alice")

	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Errorf("token has %d segments, want 3", len(parts))
	}
}

func TestIssueToken_PayloadShape(t *testing.T) {
	token := mustIssue(t, 5, "alice")

	payload, err := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[1])
	if err != nil {
		t.Fatalf("decoding payload: %v", err)
	}

	want := `{"user_id":5,"sub":"alice","exp":` + "1702678400" + `}`
	if string(payload) != want {
		t.Errorf("payload = %s, want %s", payload, want)
	}
}

func TestIssueToken_Deterministic(t *testing.T) {
	a := mustIssue(t, 1, "alice")
	b := mustIssue(t, 1, "alice")
	if a != b {
		t.Error("same inputs produced different tokens")
	}
}

// =========================================================================
// VERIFY TESTS
// =========================================================================

func TestVerifyToken_RoundTrip(t *testing.T) {
	token := mustIssue(t, 42, "alice")

	got, err := VerifyToken(token, testSecret, issuedAt)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}

	want := NewClaims(42, "alice", issuedAt)
	if got.Login != want.Login || got.UserID != want.UserID || !got.ExpiresAt.Equal(want.ExpiresAt) {
		t.Errorf("VerifyToken() = %+v, want %+v", got, want)
	}
	if !got.ExpiresAt.Equal(issuedAt.Add(31 * 24 * time.Hour)) {
		t.Errorf("ExpiresAt = %v, want issuance + 31 days", got.ExpiresAt)
	}
}

func TestVerifyToken_ExpiryBoundary(t *testing.T) {
	token := mustIssue(t, 1, "alice")
	boundary := issuedAt.Add(TokenValidity)

	tests := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{"at issuance", issuedAt, nil},
		{"one second before boundary", boundary.Add(-time.Second), nil},
		{"before issuance", issuedAt.Add(-time.Hour), nil},
		{"exactly at boundary", boundary, ErrExpired},
		{"after boundary", boundary.Add(time.Second), ErrExpired},
		{"long after boundary", boundary.Add(365 * 24 * time.Hour), ErrExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyToken(token, testSecret, tt.now)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("VerifyToken() error = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("VerifyToken() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIssueToken_SubSecondIssueTime(t *testing.T) {
	issued := issuedAt.Add(750 * time.Millisecond)
	token, err := IssueToken(42, "alice", testSecret, issued)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	want := NewClaims(42, "alice", issued.Truncate(time.Second))
	got, err := VerifyToken(token, testSecret, issuedAt)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if !got.ExpiresAt.Equal(want.ExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, want.ExpiresAt)
	}

	if _, err := VerifyToken(token, testSecret, want.ExpiresAt.Add(-time.Nanosecond)); err != nil {
		t.Errorf("just before exp: error = %v, want nil", err)
	}
	if _, err := VerifyToken(token, testSecret, want.ExpiresAt); !errors.Is(err, ErrExpired) {
		t.Errorf("at exp: error = %v, want ErrExpired", err)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	token := mustIssue(t, 1, "alice")

	_, err := VerifyToken(token, []byte("a-completely-different-secret"), issuedAt)
	if !errors.Is(err, ErrBadSignature) {
		t.Fatalf("VerifyToken() error = %v, want ErrBadSignature", err)
	}
}

func TestVerifyToken_SignatureCheckedBeforeExpiry(t *testing.T) {
	token := mustIssue(t, 1, "alice")
	later := issuedAt.Add(2 * TokenValidity)

	_, err := VerifyToken(token, []byte("a-completely-different-secret"), later)
	if !errors.Is(err, ErrBadSignature) {
		t.Fatalf("VerifyToken() error = %v, want ErrBadSignature for expired token with wrong key", err)
	}
}

func TestVerifyToken_TamperedPayload(t *testing.T) {
	token := mustIssue(t, 1, "alice")
	parts := strings.Split(token, ".")

	forged := base64.RawURLEncoding.EncodeToString([]byte(`{"user_id":2,"sub":"mallory","exp":1702678400}`))
	tampered := parts[0] + "." + forged + "." + parts[2]

	_, err := VerifyToken(tampered, testSecret, issuedAt)
	if !errors.Is(err, ErrBadSignature) {
		t.Fatalf("VerifyToken() error = %v, want ErrBadSignature", err)
	}
}

func TestVerifyToken_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "garbage"},
		{"two segments", "abc.def"},
		{"bad base64", "!!!.???.***"},
		{"payload not json", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9." + base64.RawURLEncoding.EncodeToString([]byte("nope")) + ".sig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyToken(tt.token, testSecret, issuedAt)
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("VerifyToken(%q) error = %v, want ErrMalformed", tt.token, err)
			}
		})
	}
}

func TestVerifyToken_NoneAlgorithmRejected(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, tokenClaims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
	})
	unsigned, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing none token: %v", err)
	}

	_, err = VerifyToken(unsigned, testSecret, issuedAt)
	if !errors.Is(err, ErrBadSignature) {
		t.Fatalf("VerifyToken() error = %v, want ErrBadSignature", err)
	}
}

func TestVerifyToken_MissingFieldsAreMalformed(t *testing.T) {
	tests := []struct {
		name   string
		claims tokenClaims
	}{
		{
			name: "no exp",
			claims: tokenClaims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"}},
		},
		{
			name: "no sub",
			claims: tokenClaims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
			}},
		},
		{
			name: "no user_id",
			claims: tokenClaims{RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "alice",
				ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tt.claims).SignedString(testSecret)
			if err != nil {
				t.Fatalf("signing: %v", err)
			}
			_, err = VerifyToken(signed, testSecret, issuedAt)
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("VerifyToken() error = %v, want ErrMalformed", err)
			}
		})
	}
}

// =========================================================================
// TOKEN SERVICE TESTS
// =========================================================================

func TestTokenService_IssueVerify(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Issue(9, "bob")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	c, err := ts.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if c.UserID != 9 || c.Login != "bob" {
		t.Errorf("Verify() = %+v, want user 9 bob", c)
	}
}

func TestTokenService_WithClockDoesNotMutateOriginal(t *testing.T) {
	ts := newTestTokenService(t)
	token, _ := ts.Issue(1, "alice")

	expired := ts.WithClock(func() time.Time { return issuedAt.Add(TokenValidity) })
	if _, err := expired.Verify(token); !errors.Is(err, ErrExpired) {
		t.Fatalf("Verify() with late clock error = %v, want ErrExpired", err)
	}
	if _, err := ts.Verify(token); err != nil {
		t.Fatalf("original service Verify() error = %v", err)
	}
}
