package domain

import "time"

// Role defines user permission level
type Role string

const (
	RoleAdmin  Role = "admin"  // Manage workspace settings and members
	RoleMember Role = "member" // Chat, share and search
	RoleGuest  Role = "guest"  // Limited to channels they are invited to
)

// User represents a person in the directory.
// Users join workspaces through workspace membership, not by ownership.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never serialize
	Name         string     `json:"name"`
	Title        string     `json:"title,omitempty"`
	AvatarURL    string     `json:"avatar_url,omitempty"`
	Role         Role       `json:"role"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// Person is the searchable view of a user.
type Person = User

// UserSummary provides a safe view of user data (no password hash)
type UserSummary struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        Role       `json:"role"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// ToSummary converts a User to UserSummary
func (u *User) ToSummary() *UserSummary {
	return &UserSummary{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
	}
}

// IsAdmin checks if the user has admin privileges
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanSearch checks if the user can perform searches
func (u *User) CanSearch() bool {
	return u.Active && (u.Role == RoleAdmin || u.Role == RoleMember || u.Role == RoleGuest)
}
