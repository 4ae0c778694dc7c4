// ABOUTME: Tests for profile validation and session expiry

package models

import (
	"testing"
	"time"
)

func TestProfile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr bool
	}{
		{"valid", Profile{Username: "alice", Name: "Alice", Email: "alice@x.edu"}, false},
		{"valid with phone", Profile{Username: "alice", Name: "Alice", Email: "alice@x.edu", Phone: "555-0100"}, false},
		{"missing username", Profile{Name: "Alice", Email: "alice@x.edu"}, true},
		{"blank username", Profile{Username: "  ", Name: "Alice", Email: "alice@x.edu"}, true},
		{"missing name", Profile{Username: "alice", Email: "alice@x.edu"}, true},
		{"missing email", Profile{Username: "alice", Name: "Alice"}, true},
		{"email without at", Profile{Username: "alice", Name: "Alice", Email: "alice.x.edu"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	session := Session{Token: "t", Username: "alice", ExpiresAt: now}

	if session.Expired(now.Add(-time.Second)) {
		t.Error("Session expired before its expiry time")
	}
	if session.Expired(now) {
		t.Error("Session expired exactly at its expiry time")
	}
	if !session.Expired(now.Add(time.Second)) {
		t.Error("Session not expired after its expiry time")
	}
}
