package sqldb

import (
	"context"
	"log/slog"
	"os"
	"testing"
)

// TESTING WITH IN-MEMORY SQLITE:
// Using ":memory:" creates a fresh database that exists only during the test.
// Every test gets its own migrated schema and nothing touches the disk.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	db, err := New(context.Background(), DriverSQLite, ":memory:", logger)
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, login string) int64 {
	t.Helper()
	id, err := db.InsertCredential(context.Background(), login, []byte("digest-"+login))
	if err != nil {
		t.Fatalf("InsertCredential(%q) error = %v", login, err)
	}
	return id
}

func createTestCategory(t *testing.T, db *DB, name string) int64 {
	t.Helper()
	id, err := db.CreateCategory(context.Background(), name)
	if err != nil {
		t.Fatalf("CreateCategory(%q) error = %v", name, err)
	}
	return id
}

func createTestTopic(t *testing.T, db *DB, authorID, categoryID int64, name string) int64 {
	t.Helper()
	id, err := db.CreateTopic(context.Background(), authorID, categoryID, name)
	if err != nil {
		t.Fatalf("CreateTopic(%q) error = %v", name, err)
	}
	return id
}

func createTestPost(t *testing.T, db *DB, topicID, authorID int64, text string) int64 {
	t.Helper()
	id, err := db.CreatePost(context.Background(), topicID, authorID, text)
	if err != nil {
		t.Fatalf("CreatePost(%q) error = %v", text, err)
	}
	return id
}

// =========================================================================
// CONNECTION & MIGRATION TESTS
// =========================================================================

func TestOpen_UnsupportedDriver(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	if _, err := Open(context.Background(), "mysql", "whatever", logger); err == nil {
		t.Fatal("Open() should reject an unsupported driver")
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}

	v, err := db.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if v != 1 {
		t.Errorf("SchemaVersion() = %d, want 1", v)
	}
}

func TestForeignKeysEnabled(t *testing.T) {
	db := newTestDB(t)

	var on int
	if err := db.conn.QueryRow(`PRAGMA foreign_keys`).Scan(&on); err != nil {
		t.Fatalf("reading pragma: %v", err)
	}
	if on != 1 {
		t.Errorf("foreign_keys = %d, want 1", on)
	}
}

// =========================================================================
// HELPER TESTS
// =========================================================================

func TestRebind(t *testing.T) {
	q := `SELECT * FROM t WHERE a = ? AND b = ? LIMIT ?`

	lite := &DB{dialect: dialects[DriverSQLite]}
	if got := lite.rebind(q); got != q {
		t.Errorf("sqlite rebind changed the query: %s", got)
	}

	pg := &DB{dialect: dialects[DriverPostgres]}
	want := `SELECT * FROM t WHERE a = $1 AND b = $2 LIMIT $3`
	if got := pg.rebind(q); got != want {
		t.Errorf("postgres rebind = %s, want %s", got, want)
	}
}

func TestSqliteDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{":memory:", ":memory:?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"data/forum.db", "data/forum.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"},
		{"file:forum.db?cache=shared", "file:forum.db?cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"},
		{"forum.db?_pragma=foreign_keys(0)", "forum.db?_pragma=foreign_keys(0)"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := sqliteDSN(tt.in); got != tt.want {
				t.Errorf("sqliteDSN(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Errorf("escapeLike() = %q", got)
	}
}
