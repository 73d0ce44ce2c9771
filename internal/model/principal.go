package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleReporter UserRole = "reporter"
	UserRolePolice   UserRole = "police"
	UserRoleAdmin    UserRole = "admin"
)

type Principal struct {
	UserID uuid.UUID
	Name   string
	Role   UserRole
}

func (p Principal) IsPolice() bool {
	return p.Role == UserRolePolice
}

func (p Principal) IsAdmin() bool {
	return p.Role == UserRoleAdmin
}

// CanReview reports whether the principal may approve, reject, verify or
// resolve reports.
func (p Principal) CanReview() bool {
	return p.IsPolice() || p.IsAdmin()
}
