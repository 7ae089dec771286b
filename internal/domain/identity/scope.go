// Package identity defines caller identity and the data-visibility scope
// derived from it. Scoping logic lives here once; repositories apply the
// resolved scope as a mandatory filter instead of re-deriving role checks.
package identity

import (
	"github.com/google/uuid"
)

// Role represents the role of an authenticated caller
type Role string

const (
	RoleOwner Role = "OWNER"
	RoleAdmin Role = "ADMIN"
)

// IsValid checks if the role is a known Role
func (r Role) IsValid() bool {
	return r == RoleOwner || r == RoleAdmin
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Caller is the authenticated identity an operation runs as.
// It is resolved by the transport layer and passed into every core operation.
type Caller struct {
	UserID uuid.UUID
	Role   Role
}

// NewCaller creates a caller identity
func NewCaller(userID uuid.UUID, role Role) Caller {
	return Caller{UserID: userID, Role: role}
}

// Scope is the tenant-visibility filter derived from a caller.
// An unrestricted scope sees all records; an owned scope sees only records
// whose owner matches the caller.
type Scope struct {
	ownerID *uuid.UUID
}

// Unrestricted returns the scope that matches every record (admin)
func Unrestricted() Scope {
	return Scope{}
}

// OwnedBy returns the scope restricted to records owned by the given user
func OwnedBy(userID uuid.UUID) Scope {
	return Scope{ownerID: &userID}
}

// ResolveScope derives the data scope for a caller.
// Admins are unrestricted; everyone else sees only their own records.
func ResolveScope(caller Caller) Scope {
	if caller.Role == RoleAdmin {
		return Unrestricted()
	}
	return OwnedBy(caller.UserID)
}

// IsUnrestricted returns true if the scope matches all records
func (s Scope) IsUnrestricted() bool {
	return s.ownerID == nil
}

// OwnerID returns the restricting owner ID, or uuid.Nil when unrestricted
func (s Scope) OwnerID() uuid.UUID {
	if s.ownerID == nil {
		return uuid.Nil
	}
	return *s.ownerID
}

// Allows reports whether a record with the given owner is visible in this scope
func (s Scope) Allows(ownerID uuid.UUID) bool {
	if s.ownerID == nil {
		return true
	}
	return *s.ownerID == ownerID
}
