package models

import "time"

type UserRole string

const (
	RoleCustomer UserRole = "CUSTOMER"
	RoleSeller   UserRole = "SELLER"
)

// Valid reports whether r is one of the two known roles.
func (r UserRole) Valid() bool {
	return r == RoleCustomer || r == RoleSeller
}

// User is the identity record shared by the client session and the API.
type User struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Role  UserRole `json:"role"`
}

// UserPatch carries a partial user update. Empty fields are left untouched.
type UserPatch struct {
	Email string   `json:"email,omitempty"`
	Name  string   `json:"name,omitempty"`
	Role  UserRole `json:"role,omitempty"`
}

// Apply returns a copy of u with the non-empty patch fields merged in.
func (p UserPatch) Apply(u User) User {
	if p.Email != "" {
		u.Email = p.Email
	}
	if p.Name != "" {
		u.Name = p.Name
	}
	if p.Role != "" {
		u.Role = p.Role
	}
	return u
}

// Account is the backend's stored form of a user.
type Account struct {
	User
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Role            string `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token,omitempty"`
}
