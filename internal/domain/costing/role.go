package costing

import "github.com/haylacafe/backend/internal/domain/shared"

// Role is the resolved identity level of the caller. The resolver consults
// it once when building a resolved ingredient; cost fields are zeroed for
// roles without cost visibility instead of being omitted, so downstream
// consumers can rely on the fields always being present and numeric.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleStaff Role = "STAFF"
	RoleGuest Role = "GUEST"
)

// ParseRole parses a role string, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", shared.NewValidationError("unknown role: %s", s)
	}
	return role, nil
}

// IsValid checks if the role is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleGuest:
		return true
	}
	return false
}

// CanViewCost reports whether the role may see cost data
func (r Role) CanViewCost() bool {
	return r == RoleAdmin
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}
