package models

import "time"

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleSecretary UserRole = "secretary"
	RoleTeacher   UserRole = "teacher"
)

// User is the Casdoor-backed application identity. It is not stored
// locally; the auth repository materializes it from the provider.
type User struct {
	ID            string   `json:"id"`
	FullName      string   `json:"full_name"`
	Email         string   `json:"email"`
	Role          UserRole `json:"role"`
	AvatarURL     *string  `json:"avatar_url,omitempty"`
	EmailVerified bool     `json:"email_verified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
