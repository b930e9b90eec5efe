package sqldb

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sakif/forum-backend/internal/apperror"
)

func TestInsertCredential_AndFind(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	digest := []byte{0x00, 0x01, 0xfe, 0xff}

	id, err := db.InsertCredential(ctx, "alice", digest)
	if err != nil {
		t.Fatalf("InsertCredential() error = %v", err)
	}
	if id <= 0 {
		t.Fatalf("InsertCredential() id = %d, want positive", id)
	}

	u, err := db.FindCredentialByLogin(ctx, "alice")
	if err != nil {
		t.Fatalf("FindCredentialByLogin() error = %v", err)
	}
	if u.ID != id || u.Login != "alice" {
		t.Errorf("got %+v, want id %d login alice", u, id)
	}
	if !bytes.Equal(u.PasswordDigest, digest) {
		t.Errorf("PasswordDigest = %x, want %x", u.PasswordDigest, digest)
	}
	if u.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestFindCredentialByLogin_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.FindCredentialByLogin(context.Background(), "ghost")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("FindCredentialByLogin() error = %v, want ErrNotFound", err)
	}
}

func TestInsertCredential_DuplicateIsConflict(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	createTestUser(t, db, "alice")

	_, err := db.InsertCredential(ctx, "alice", []byte("other"))
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("InsertCredential() error = %v, want ErrConflict", err)
	}
}

func TestInsertCredential_ConcurrentDuplicates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = db.InsertCredential(ctx, "racer", []byte("d"))
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case !errors.Is(err, apperror.ErrConflict):
			t.Errorf("unexpected error = %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("%d inserts succeeded, want exactly 1", ok)
	}
}

func TestGetUserByID(t *testing.T) {
	db := newTestDB(t)
	id := createTestUser(t, db, "bob")

	u, err := db.GetUserByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if u.Login != "bob" {
		t.Errorf("Login = %q, want bob", u.Login)
	}
	if u.PasswordDigest != nil {
		t.Error("GetUserByID() should not load the digest")
	}

	_, err = db.GetUserByID(context.Background(), id+100)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetUserByID(missing) error = %v, want ErrNotFound", err)
	}
}
