package account

import (
	"errors"
	"strings"
)

// Role constants
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleStudent, RoleAdmin}

// Domain errors
var (
	ErrEmptyUsername      = errors.New("username cannot be empty")
	ErrInvalidRole        = errors.New("role must be one of: student, admin")
	ErrInvalidCredentials = errors.New("invalid credentials or role does not match")
)

// User is a known login identity. Login is a username+role match with no
// password; real identity providers are out of scope.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Matricula string `json:"matricula,omitempty"`
	Group     string `json:"group,omitempty"`
}

// Validate checks if the User has valid data.
// PRE: User struct is populated
// POST: Returns nil if valid, error otherwise
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}
	if !IsValidRole(u.Role) {
		return ErrInvalidRole
	}
	return nil
}

// IsAdmin returns true if the user has the admin role.
// INVARIANT: User fields are not mutated
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// FirstName returns the first word of Name.
func (u *User) FirstName() string {
	fields := strings.Fields(u.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// LastName returns everything after the first word of Name.
func (u *User) LastName() string {
	fields := strings.Fields(u.Name)
	if len(fields) < 2 {
		return ""
	}
	return strings.Join(fields[1:], " ")
}

// Directory is a fixed set of users keyed by username.
type Directory map[string]User

// DemoDirectory returns the two stub users the app ships with.
func DemoDirectory() Directory {
	return Directory{
		"student123": {ID: "std1", Username: "student123", Name: "Juan Pérez", Role: RoleStudent, Matricula: "12345", Group: "CS101"},
		"adminuser":  {ID: "adm1", Username: "adminuser", Name: "Ana López", Role: RoleAdmin},
	}
}

// Match returns the user for username when its role equals role.
// PRE: none
// POST: Returns the user or ErrInvalidCredentials
func (d Directory) Match(username, role string) (User, error) {
	u, ok := d[strings.TrimSpace(username)]
	if !ok || u.Role != role {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// IsValidRole reports whether role is one of ValidRoles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
