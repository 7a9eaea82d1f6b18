package domain

import "time"

const (
	RoleSuperAdmin = "super-admin"
	RoleAdmin      = "admin"
)

// User models an authenticated actor. Exactly two roles exist: the single
// super-admin manages admin accounts, admins manage patient records. Roles
// never change after creation.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
