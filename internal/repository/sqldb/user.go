package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/forum-backend/internal/apperror"
	"github.com/sakif/forum-backend/internal/model"
	"github.com/sakif/forum-backend/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// FindCredentialByLogin returns the user row including its password digest.
// Returns apperror.ErrNotFound if no user has that login.
func (db *DB) FindCredentialByLogin(ctx context.Context, login string) (*model.User, error) {
	var u model.User

	err := db.queryRow(ctx,
		`SELECT id, login, password_digest, created_at FROM users WHERE login = ?`,
		login,
	).Scan(&u.ID, &u.Login, &u.PasswordDigest, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFoundMessage("user not found")
		}
		return nil, fmt.Errorf("sqldb: finding user by login: %w", err)
	}

	return &u, nil
}

// InsertCredential creates a user and returns the new id.
//
// The UNIQUE constraint on users.login is the final word on duplicates: two
// concurrent registrations for the same login can both pass the service's
// lookup, but only one INSERT succeeds. The loser gets apperror.ErrConflict.
func (db *DB) InsertCredential(ctx context.Context, login string, digest []byte) (int64, error) {
	id, err := db.insertID(ctx,
		`INSERT INTO users (login, password_digest, created_at) VALUES (?, ?, ?) RETURNING id`,
		login, digest, time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperror.Conflict("login already exists")
		}
		return 0, fmt.Errorf("sqldb: inserting user: %w", err)
	}
	return id, nil
}

// GetUserByID retrieves a user by id, without the digest.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User

	err := db.queryRow(ctx,
		`SELECT id, login, created_at FROM users WHERE id = ?`,
		id,
	).Scan(&u.ID, &u.Login, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqldb: getting user %d: %w", id, err)
	}

	return &u, nil
}
