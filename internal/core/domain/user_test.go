package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestUserToSummary(t *testing.T) {
	now := time.Now()
	user := &User{
		ID:           "user-123",
		Email:        "test@example.com",
		PasswordHash: "secret-hash",
		Name:         "Test User",
		Role:         RoleAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
		LastLoginAt:  &now,
	}

	summary := user.ToSummary()

	if summary.ID != user.ID {
		t.Errorf("expected ID %s, got %s", user.ID, summary.ID)
	}
	if summary.Email != user.Email {
		t.Errorf("expected Email %s, got %s", user.Email, summary.Email)
	}
	if summary.Name != user.Name {
		t.Errorf("expected Name %s, got %s", user.Name, summary.Name)
	}
	if summary.Role != user.Role {
		t.Errorf("expected Role %s, got %s", user.Role, summary.Role)
	}
	if summary.LastLoginAt == nil {
		t.Error("expected LastLoginAt to be set")
	}
}

func TestUserIsAdmin(t *testing.T) {
	tests := []struct {
		role     Role
		expected bool
	}{
		{RoleAdmin, true},
		{RoleMember, false},
		{RoleGuest, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			user := &User{Role: tt.role}
			if user.IsAdmin() != tt.expected {
				t.Errorf("expected IsAdmin() = %v for role %s", tt.expected, tt.role)
			}
		})
	}
}

func TestUserCanSearch(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected bool
	}{
		{"active member", User{Role: RoleMember, Active: true}, true},
		{"active guest", User{Role: RoleGuest, Active: true}, true},
		{"inactive admin", User{Role: RoleAdmin, Active: false}, false},
		{"unknown role", User{Role: Role("bot"), Active: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.user.CanSearch() != tt.expected {
				t.Errorf("expected CanSearch() = %v", tt.expected)
			}
		})
	}
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	data, err := json.Marshal(&User{ID: "u1", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(data), "hash\"") || strings.Contains(string(data), "password") {
		t.Errorf("password hash leaked: %s", data)
	}
}
