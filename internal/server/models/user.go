// Package models holds the persistent document types of the INFORM server.
package models

import "time"

// Identity roles. Exactly one of the two values is set on every user.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an authenticable identity. PasswordHash is a bcrypt digest and is
// never serialized to clients. PasswordChanged = false means the stored
// password is a provisioner-assigned temporary value that must be replaced
// before a full session is issued.
type User struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    string
	Role            string
	IsActive        bool
	PasswordChanged bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// UserSummary is the user projection embedded in inform views.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}
