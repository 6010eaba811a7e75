package domain

import (
	"errors"
)

// StaffUser is the authenticated staff member acting on fees/fines.
type StaffUser struct {
	ID       string
	UserName string
	Role     Role
}

// Role represents a staff member's access level
type Role string

const (
	// RoleAdmin may perform every action, including refunds and cancellations
	RoleAdmin Role = "admin"

	// RoleOperator can charge, pay, waive and transfer
	RoleOperator Role = "operator"

	// RoleViewer can only view fees/fines and run checks
	RoleViewer Role = "viewer"
)

var validRoles = map[Role]bool{
	RoleAdmin:    true,
	RoleOperator: true,
	RoleViewer:   true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanApply reports whether the role may perform the action type.
func (r Role) CanApply(t ActionType) bool {
	switch t {
	case ActionTypeRefund, ActionTypeCancel:
		return r == RoleAdmin
	default:
		return r == RoleAdmin || r == RoleOperator
	}
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)
