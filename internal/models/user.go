package models

import "time"

// Roles carried in access tokens
const (
	RoleParent = "parent"
	RoleKid    = "kid"
)

// User represents a parent account in the system
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	PasswordHash  string    `json:"-"`
	OAuthProvider string    `json:"-"`
	OAuthSubject  string    `json:"-"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
}
