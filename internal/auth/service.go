// ABOUTME: Authentication service: bcrypt password checks and expiring session tokens
// ABOUTME: Tokens are issued at login and validated per request; no raw usernames as trust
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"deptchat/internal/models"
)

var (
	// ErrInvalidCredentials is returned for a wrong username or password.
	// Deliberately does not say which.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidSession is returned for an unknown or expired token
	ErrInvalidSession = errors.New("session is invalid or expired")
)

// UserStore persists registration profiles and password hashes.
type UserStore interface {
	Create(profile *models.Profile, passwordHash string) error
	PasswordHash(username string) (string, error)
	Get(username string) (*models.Profile, error)
}

// SessionStore persists issued login sessions.
type SessionStore interface {
	Save(session *models.Session) error
	Get(token string) (*models.Session, error)
	Delete(token string) error
	DeleteExpired(now time.Time) error
}

// Service handles registration, authentication, and session lifecycle
type Service struct {
	users    UserStore
	sessions SessionStore
	ttl      time.Duration
	now      func() time.Time
}

// NewService creates an auth Service with the given session lifetime
func NewService(users UserStore, sessions SessionStore, ttl time.Duration) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Register creates a new user with a bcrypt-hashed password
func (s *Service) Register(profile *models.Profile, password string) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	return s.users.Create(profile, string(hash))
}

// Authenticate checks a username/password pair
func (s *Service) Authenticate(username, password string) (bool, error) {
	hash, err := s.users.PasswordHash(username)
	if err != nil {
		return false, err
	}
	if hash == "" {
		return false, nil
	}

	err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Login authenticates and issues a new expiring session token
func (s *Service) Login(username, password string) (*models.Session, error) {
	ok, err := s.Authenticate(username, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	session := &models.Session{
		Token:     uuid.New().String(),
		Username:  username,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.sessions.Save(session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return session, nil
}

// Validate resolves a session token to a username, enforcing expiry.
// Expired sessions are deleted on sight.
func (s *Service) Validate(token string) (string, error) {
	session, err := s.sessions.Get(token)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", ErrInvalidSession
	}
	if session.Expired(s.now()) {
		_ = s.sessions.Delete(token)
		return "", ErrInvalidSession
	}
	return session.Username, nil
}

// Logout deletes a session token
func (s *Service) Logout(token string) error {
	return s.sessions.Delete(token)
}

// Profile returns the registration profile for a user, nil if unknown
func (s *Service) Profile(username string) (*models.Profile, error) {
	return s.users.Get(username)
}

// Sweep removes all expired sessions
func (s *Service) Sweep() error {
	return s.sessions.DeleteExpired(s.now())
}
