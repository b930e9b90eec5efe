// Package auth is the authentication core of the forum: credential hashing,
// token issuing and verification, and the gate that protects routes.
//
// AUTHENTICATION FLOW OVERVIEW:
//  1. Client registers or logs in with login + password
//  2. Server checks the password digest and issues a signed token
//  3. Client sends the token back as "Authorization: Bearer <token>"
//  4. The gate verifies the token and puts the Claims in the request context
//
// JWT STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: algorithm + token type → {"alg":"HS256","typ":"JWT"}
//	- Payload: claims → {"user_id":1,"sub":"alice","exp":1234567890}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
//
// The server can verify the signature without any DB lookup, just the secret.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures. The verifier wraps exactly one of these, so callers
// can tell them apart with errors.Is. Clients never see the difference.
var (
	ErrMalformed    = errors.New("auth: malformed token")
	ErrBadSignature = errors.New("auth: bad token signature")
	ErrExpired      = errors.New("auth: token expired")
)

// ErrSigning is wrapped by IssueToken when the token cannot be signed.
var ErrSigning = errors.New("auth: signing token")

// tokenClaims is the JWT payload: {"user_id", "sub", "exp"}.
// Only Subject and ExpiresAt of the registered claims are ever set.
type tokenClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// IssueToken signs a token for the given user, valid for TokenValidity from now.
//
// "exp" is encoded in whole seconds, so now is truncated to the second first:
// the token then expires at exactly NewClaims(.., now.Truncate(time.Second))
// and VerifyToken hands back that same ExpiresAt.
func IssueToken(userID int64, login string, secret []byte, now time.Time) (string, error) {
	c := NewClaims(userID, login, now.Truncate(time.Second))

	tc := tokenClaims{
		UserID: c.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.Login,
			ExpiresAt: jwt.NewNumericDate(c.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigning, err)
	}
	return signed, nil
}

// VerifyToken checks a token and returns its Claims.
//
// ORDER OF CHECKS (enforced by the jwt parser):
//  1. Structure: three segments, valid base64 and JSON → else ErrMalformed
//  2. Signature: HS256 with secret → else ErrBadSignature
//  3. Expiry: now >= exp → ErrExpired
//
// Payload fields are only trusted after step 2. A correctly signed payload
// that lacks "sub", "exp" or a positive "user_id" is ErrMalformed.
//
// ALGORITHM CONFUSION ATTACK:
// Without pinning the algorithm, an attacker could send a token with
// "alg":"none". WithValidMethods rejects anything but HS256 before the
// signature is even looked at.
func VerifyToken(tokenStr string, secret []byte, now time.Time) (Claims, error) {
	tc := &tokenClaims{}

	_, err := jwt.ParseWithClaims(
		tokenStr,
		tc,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return Claims{}, classify(err)
	}

	if tc.Subject == "" || tc.UserID <= 0 || tc.ExpiresAt == nil {
		return Claims{}, fmt.Errorf("%w: incomplete claims", ErrMalformed)
	}

	return Claims{
		Login:     tc.Subject,
		UserID:    tc.UserID,
		ExpiresAt: tc.ExpiresAt.Time,
	}, nil
}

// classify maps jwt library errors onto the three verification failures.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	default:
		// missing exp, nbf in the future, and other claim problems
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}

// TokenService binds the signing secret and a clock.
//
// The secret is read from configuration once at start-up and never changes,
// so a single TokenService is shared by every request goroutine.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: FORUM_JWT__SECRET_KEY=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret), now: time.Now}, nil
}

// WithClock returns a copy of s that reads the time from now.
// Tests use it to pin issuance and verification to fixed instants.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	cp := *s
	cp.now = now
	return &cp
}

// Issue signs a token for the user at the current time.
func (s *TokenService) Issue(userID int64, login string) (string, error) {
	return IssueToken(userID, login, s.secret, s.now())
}

// Verify checks a token against the current time.
func (s *TokenService) Verify(tokenStr string) (Claims, error) {
	return VerifyToken(tokenStr, s.secret, s.now())
}
