// ABOUTME: Login session storage operations for SQLite
// ABOUTME: Tokens replace the flat-file cookie of older designs; expiry enforced on read
package sqlite

import (
	"database/sql"
	"time"

	"deptchat/internal/models"
)

// SessionStore handles login session persistence
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a new SessionStore
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// Save stores an issued session
func (s *SessionStore) Save(session *models.Session) error {
	_, err := s.db.Exec(`
		INSERT INTO sessions (token, username, expires_at, created_at)
		VALUES (?, ?, ?, ?)
	`, session.Token, session.Username, session.ExpiresAt.UTC(), time.Now().UTC())
	return err
}

// Get retrieves a session by token, returning nil if not found
func (s *SessionStore) Get(token string) (*models.Session, error) {
	var session models.Session

	err := s.db.QueryRow(`
		SELECT token, username, expires_at
		FROM sessions
		WHERE token = ?
	`, token).Scan(&session.Token, &session.Username, &session.ExpiresAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// Delete removes a session (logout)
func (s *SessionStore) Delete(token string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE token = ?`, token)
	return err
}

// DeleteExpired removes all sessions past their expiry
func (s *SessionStore) DeleteExpired(now time.Time) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE expires_at < ?`, now.UTC())
	return err
}
