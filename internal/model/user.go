package model

import (
	"strings"
	"time"
)

// Role is the authority granted to a user.
type Role string

const (
	RoleWorker Role = "WORKER"
	RoleLeader Role = "LEADER"
	RoleAdmin  Role = "ADMIN"
)

// ParseRole normalizes s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleWorker, RoleLeader, RoleAdmin:
		return r, true
	}
	return "", false
}

// User mirrors the `users` table.
type User struct {
	ID           uint64
	Username     string
	PasswordHash string
	Email        string
	Enabled      bool
	Role         Role
}

// UserView is what the API exposes about a user.
type UserView struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Enabled  bool   `json:"enabled"`
	Role     Role   `json:"role"`
}

// View hides the password hash.
func (u User) View() UserView {
	return UserView{ID: u.ID, Username: u.Username, Email: u.Email, Enabled: u.Enabled, Role: u.Role}
}

// VerificationToken is a single-use token e-mailed to a user for account
// activation or password reset. A user owns at most one live token.
type VerificationToken struct {
	ID        uint64
	Token     string
	ExpiresAt time.Time
	UserID    uint64
}

// Expired reports whether the token's expiry lies before now.
func (t VerificationToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
