package domain

import "time"

// Role constants.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// IsValidRole checks whether the given role string is known.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// User is an account of the service.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Caller identifies who performs an operation.
type Caller struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the caller has the ADMIN role.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
