package models

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// RoleFromBackend maps the backend's role names onto the frontend roles.
// Only an explicit ADMIN grants admin access.
func RoleFromBackend(role string) Role {
	switch role {
	case "ADMIN", "ROLE_ADMIN":
		return RoleAdmin
	default:
		return RoleUser
	}
}

// BackendRole is the inverse of RoleFromBackend.
func (r Role) BackendRole() string {
	if r == RoleAdmin {
		return "ADMIN"
	}
	return "CUSTOMER"
}

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Role      Role      `json:"role"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserFilter drives the admin user listing. Page is 1-based.
type UserFilter struct {
	Page     int
	Size     int
	Username string
	Email    string
	Role     string
	Enabled  *bool
	SortBy   string
	SortDir  string
}

type ProfileInput struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type PasswordInput struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}
