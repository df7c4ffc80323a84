package entity

import (
	"errors"
	"time"
)

var ErrInvalidRole = errors.New("invalid role")

// Role is the discriminant for the account variants. The numeric values
// double as the public role selector accepted on registration.
type Role int

const (
	RoleStudent Role = iota
	RoleSenior
	RoleParent
	RoleAdmin
)

// RoleFromSelector maps a registration role selector to a Role.
// Unknown selectors are rejected before anything is persisted.
func RoleFromSelector(selector int) (Role, error) {
	switch Role(selector) {
	case RoleStudent, RoleSenior, RoleParent, RoleAdmin:
		return Role(selector), nil
	default:
		return 0, ErrInvalidRole
	}
}

func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "Student"
	case RoleSenior:
		return "Senior"
	case RoleParent:
		return "Parent"
	case RoleAdmin:
		return "Admin"
	default:
		return "Unknown"
	}
}

// User is the aggregate root for the identity domain. Role tags which
// variant the account is; VerifiedByParentID is only meaningful for
// Students and is derived from the verified_students table at read time,
// never stored on the users row itself.
type User struct {
	ID                 string
	Email              string
	PasswordHash       string
	Name               string
	Role               Role
	AvatarURL          string
	VerifiedByParentID *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsStudent reports whether the student-only fields apply.
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// IsParent reports whether the account can vouch for a student.
func (u *User) IsParent() bool { return u.Role == RoleParent }
