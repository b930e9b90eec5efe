package auth

import "time"

// TokenValidity is how long an issued token stays valid.
// Every token expires exactly this long after it was issued; there is no
// refresh mechanism, so clients log in again after it lapses.
const TokenValidity = 31 * 24 * time.Hour

// Claims is the identity carried inside a token.
//
// A Claims value is produced by the issuer (from a freshly authenticated user)
// or by the verifier (from a token whose signature checked out). It is never
// built from unverified client input.
type Claims struct {
	// Login is the user's login name (JWT "sub").
	Login string
	// UserID is the user's primary key (JWT "user_id").
	UserID int64
	// ExpiresAt is the instant from which the token is rejected (JWT "exp").
	ExpiresAt time.Time
}

// NewClaims builds the claims for a token issued at now.
func NewClaims(userID int64, login string, now time.Time) Claims {
	return Claims{
		Login:     login,
		UserID:    userID,
		ExpiresAt: now.Add(TokenValidity),
	}
}

// ExpiredAt reports whether the claims are no longer valid at now.
// The expiry instant itself already counts as expired.
func (c Claims) ExpiredAt(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
