// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account together with its stored credential.
//
// WHY PasswordDigest []byte WITH json:"-"?
// The digest is whatever the configured hasher produced: 32 raw bytes for the
// legacy SHA-256 scheme, a "$2a$..." string for bcrypt. It must never leave
// the server, so it is excluded from every JSON encoding of a User.
type User struct {
	ID             int64     `json:"id"         db:"id"`
	Login          string    `json:"login"      db:"login"`
	PasswordDigest []byte    `json:"-"          db:"password_digest"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// UserRef is the public {id, login} projection of a user, embedded in topics,
// posts and reports.
type UserRef struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// Ref returns the public projection of u.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Login: u.Login}
}
