package domain

import "time"

// UserRole is the closed set of roles in the system. Business logic never
// inspects the raw string; it asks HasCapability instead.
type UserRole string

const (
	RoleAccountingAdmin UserRole = "ACCOUNTING_ADMIN"
	RoleAccountingStaff UserRole = "ACCOUNTING_STAFF"
	RoleClientAdmin     UserRole = "CLIENT_ADMIN"
	RoleClientUser      UserRole = "CLIENT_USER"
)

// Capability names a privileged action a role may perform.
type Capability string

const (
	CapManageTaxProfile  Capability = "manage_tax_profile"
	CapSetNotApplicable  Capability = "set_not_applicable"
	CapManageObligations Capability = "manage_obligations"
	CapViewAuditLog      Capability = "view_audit_log"
)

var roleCapabilities = map[UserRole]map[Capability]bool{
	RoleAccountingAdmin: {
		CapManageTaxProfile:  true,
		CapSetNotApplicable:  true,
		CapManageObligations: true,
		CapViewAuditLog:      true,
	},
	RoleAccountingStaff: {
		CapManageTaxProfile:  true,
		CapSetNotApplicable:  true,
		CapManageObligations: true,
	},
	RoleClientAdmin: {},
	RoleClientUser:  {},
}

// HasCapability reports whether the role may perform the capability.
// Unknown roles have no capabilities.
func HasCapability(role UserRole, cap Capability) bool {
	return roleCapabilities[role][cap]
}

// IsClientRole reports whether the role belongs to a client company user.
func IsClientRole(role UserRole) bool {
	return role == RoleClientAdmin || role == RoleClientUser
}

// IsAccountingRole reports whether the role belongs to accounting staff.
func IsAccountingRole(role UserRole) bool {
	return role == RoleAccountingAdmin || role == RoleAccountingStaff
}

// User represents a user of the application in the domain.
type User struct {
	UserID       string   `json:"userID"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	CompanyID    string   `json:"companyID"`
	IsActive     bool     `json:"isActive"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}

// PasswordResetToken is a single-use, expiring credential for the password
// reset flow. Consumed tokens keep their row (UsedAt set) until the cleanup
// job sweeps them.
type PasswordResetToken struct {
	TokenID   string     `json:"tokenID"`
	UserID    string     `json:"userID"`
	TokenHash string     `json:"-"`
	ExpiresAt time.Time  `json:"expiresAt"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
