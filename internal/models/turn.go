// ABOUTME: Turn represents a single message in a conversation
// ABOUTME: Turns are appended in strict chronological order and never mutated
package models

import (
	"errors"
	"strings"
	"time"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn represents a single conversation message
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTurn creates a new Turn with validation
func NewTurn(role Role, content string) (*Turn, error) {
	if role != RoleUser && role != RoleAssistant {
		return nil, errors.New("role must be user or assistant")
	}
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("turn content cannot be empty")
	}
	return &Turn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}, nil
}
