// ABOUTME: Shared test setup for the SQLite storage package
// ABOUTME: Provides an in-memory database with a seeded user

package sqlite

import (
	"testing"
	"time"

	"deptchat/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// seedUser inserts a user so rows with foreign keys have a parent.
func seedUser(t *testing.T, db *DB, username string) {
	t.Helper()

	profile := &models.Profile{
		Username: username,
		Name:     "Test User",
		Email:    username + "@example.edu",
	}
	if err := NewUserStore(db).Create(profile, "not-a-real-hash"); err != nil {
		t.Fatalf("Create(%s) error = %v", username, err)
	}
}

func TestOpenInMemory_SchemaApplied(t *testing.T) {
	db := newTestDB(t)

	for _, table := range []string{"users", "sessions", "messages", "index_chunks"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s missing: %v", table, err)
		}
	}
}

func TestForeignKeys_CascadeDelete(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice")

	if err := NewMessageStore(db).Save("alice", models.RoleUser, "hi", time.Now().UTC()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := db.Exec(`DELETE FROM users WHERE username = 'alice'`); err != nil {
		t.Fatalf("Delete user error = %v", err)
	}

	turns, err := NewMessageStore(db).Messages("alice")
	if err != nil {
		t.Fatalf("Messages() error = %v", err)
	}
	if len(turns) != 0 {
		t.Error("Messages survived user deletion")
	}
}
