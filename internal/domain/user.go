package domain

import "time"

// Role enumerates principal roles.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// User is an account that can report issues; staff and admin users carry
// elevated roles and staff belong to a department.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Department   *Department
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the authenticated actor attached to each request.
type Principal struct {
	ID         string
	Role       Role
	Department *Department
}

// PrincipalOf derives the request principal from a user record.
func PrincipalOf(u *User) Principal {
	return Principal{ID: u.ID, Role: u.Role, Department: u.Department}
}
