// ABOUTME: User storage operations for SQLite
// ABOUTME: Persists registration profiles and bcrypt password hashes
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"deptchat/internal/models"
)

// ErrDuplicateUser is returned when a username or email is already taken.
var ErrDuplicateUser = errors.New("username or email already exists")

// UserStore handles user persistence
type UserStore struct {
	db *DB
}

// NewUserStore creates a new UserStore
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a new user with the given password hash
func (s *UserStore) Create(profile *models.Profile, passwordHash string) error {
	_, err := s.db.Exec(`
		INSERT INTO users (username, name, email, phone, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, profile.Username, profile.Name, profile.Email, nullString(profile.Phone),
		passwordHash, time.Now().UTC())

	if err != nil {
		// modernc reports constraint violations as plain errors; match on the
		// SQLite message so callers see a stable sentinel.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateUser
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// PasswordHash returns the stored hash for a username, or "" if unknown
func (s *UserStore) PasswordHash(username string) (string, error) {
	var hash string
	err := s.db.QueryRow(`SELECT password_hash FROM users WHERE username = ?`, username).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return hash, nil
}

// Get retrieves a user profile, returning nil if not found
func (s *UserStore) Get(username string) (*models.Profile, error) {
	var (
		profile models.Profile
		phone   sql.NullString
	)

	err := s.db.QueryRow(`
		SELECT username, name, email, phone, created_at
		FROM users
		WHERE username = ?
	`, username).Scan(&profile.Username, &profile.Name, &profile.Email, &phone, &profile.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if phone.Valid {
		profile.Phone = phone.String
	}

	return &profile, nil
}

// nullString converts "" to a SQL NULL
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
