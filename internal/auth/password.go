package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/forum-backend/internal/apperror"
)

// Password schemes accepted by NewHasher.
const (
	SchemeSHA256 = "sha256"
	SchemeBcrypt = "bcrypt"
)

// Hasher turns a password into the digest stored with the credential and
// checks login attempts against it.
type Hasher interface {
	// Hash returns the digest to store for plaintext.
	Hash(plaintext string) ([]byte, error)
	// Matches reports whether plaintext produces digest.
	Matches(digest []byte, plaintext string) bool
}

// NewHasher returns the Hasher for a configured scheme.
// cost is only used by bcrypt; zero picks the default.
func NewHasher(scheme string, cost int) (Hasher, error) {
	switch scheme {
	case "", SchemeSHA256:
		return SHA256Hasher{}, nil
	case SchemeBcrypt:
		if cost == 0 {
			cost = defaultCost
		}
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return nil, fmt.Errorf("auth: bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
		}
		return &BcryptHasher{cost: cost}, nil
	default:
		return nil, fmt.Errorf("auth: unknown password scheme %q", scheme)
	}
}

// SHA256Hasher is the legacy scheme: the digest is SHA-256 of the UTF-8
// password bytes, with no salt and no work factor.
//
// Existing credential rows were written this way, so it stays the default.
// Two users with the same password share a digest, and a stolen table can be
// attacked with precomputed tables. The server warns at start-up while this
// scheme is active; see BcryptHasher.
type SHA256Hasher struct{}

// Digest is the total form of Hash.
func (SHA256Hasher) Digest(plaintext string) []byte {
	sum := sha256.Sum256([]byte(plaintext))
	return sum[:]
}

// Hash never fails.
func (h SHA256Hasher) Hash(plaintext string) ([]byte, error) {
	return h.Digest(plaintext), nil
}

// Matches compares in constant time.
func (h SHA256Hasher) Matches(digest []byte, plaintext string) bool {
	return subtle.ConstantTimeCompare(digest, h.Digest(plaintext)) == 1
}

// defaultCost is the bcrypt work factor.
//
// COST TUNING RULE OF THUMB:
// Set cost so that hashing takes ~200–300ms on your production hardware.
// Too low → easy to crack. Too high → login is sluggish and your server
// spends all its time on bcrypt during traffic spikes.
const defaultCost = 12

// BcryptHasher is the opt-in salted scheme (auth.password_scheme: bcrypt).
//
// bcrypt automatically:
//   - Generates a random salt (so two users with the same password get different hashes)
//   - Embeds the salt in the output hash (no separate salt column needed)
//   - Controls the work factor via "cost" (higher = slower = harder to crack)
//
// Digests written by SHA256Hasher do not match under bcrypt, so switching an
// existing deployment needs a password reset or a re-hash on next login.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasherForTest creates a BcryptHasher with a custom cost.
// Use bcrypt.MinCost (4) in tests to avoid the ~250ms overhead of cost 12.
func NewBcryptHasherForTest(cost int) *BcryptHasher {
	return &BcryptHasher{cost: cost}
}

// Hash returns a self-contained bcrypt string like
//
//	$2a$12$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy
//
// Passwords over 72 bytes are rejected; bcrypt would silently truncate them.
func (h *BcryptHasher) Hash(plaintext string) ([]byte, error) {
	if len(plaintext) > 72 {
		return nil, apperror.ValidationFailed("password", "password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return nil, fmt.Errorf("auth: hashing password: %w", err)
	}
	return hashed, nil
}

// Matches uses bcrypt's own constant-time comparison.
func (h *BcryptHasher) Matches(digest []byte, plaintext string) bool {
	return bcrypt.CompareHashAndPassword(digest, []byte(plaintext)) == nil
}
