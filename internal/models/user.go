// ABOUTME: Profile represents a registered chat user
// ABOUTME: Password hashes live in storage, never on this struct
package models

import (
	"errors"
	"strings"
	"time"
)

// Profile holds the registration details for a user. The bcrypt hash is
// stored separately by the user store and never leaves it.
type Profile struct {
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the required registration fields
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Username) == "" {
		return errors.New("username is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(p.Email) == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(p.Email, "@") {
		return errors.New("email must contain @")
	}
	return nil
}

// Session is an issued login token with an expiry.
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
