// ABOUTME: Chat history storage operations for SQLite
// ABOUTME: Messages are append-only and ordered by insertion
package sqlite

import (
	"time"

	"deptchat/internal/models"
)

// MessageStore handles per-user chat history persistence
type MessageStore struct {
	db *DB
}

// NewMessageStore creates a new MessageStore
func NewMessageStore(db *DB) *MessageStore {
	return &MessageStore{db: db}
}

// Save appends a message to a user's history
func (s *MessageStore) Save(username string, role models.Role, content string, timestamp time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO messages (username, role, content, created_at)
		VALUES (?, ?, ?, ?)
	`, username, string(role), content, timestamp.UTC())
	return err
}

// Messages retrieves all messages for a user in insertion order
func (s *MessageStore) Messages(username string) ([]models.Turn, error) {
	rows, err := s.db.Query(`
		SELECT role, content, created_at
		FROM messages
		WHERE username = ?
		ORDER BY id ASC
	`, username)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var turns []models.Turn
	for rows.Next() {
		var (
			turn models.Turn
			role string
		)
		if err := rows.Scan(&role, &turn.Content, &turn.Timestamp); err != nil {
			return nil, err
		}
		turn.Role = models.Role(role)
		turns = append(turns, turn)
	}

	return turns, rows.Err()
}

// Clear removes all messages for a user
func (s *MessageStore) Clear(username string) error {
	_, err := s.db.Exec(`DELETE FROM messages WHERE username = ?`, username)
	return err
}
