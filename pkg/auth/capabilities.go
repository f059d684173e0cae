package auth

// Capability is one entry of the closed set of administrative permissions.
// Engines never re-check roles; the boundary validates the capability once
// before dispatch.
type Capability string

const (
	CapWalletAdjust   Capability = "wallet:adjust"
	CapPayoutReview   Capability = "payout:review"
	CapPayoutDisburse Capability = "payout:disburse"
	CapRefundIssue    Capability = "refund:issue"
	CapEscrowRelease  Capability = "escrow:release"
	CapAuditRead      Capability = "audit:read"
)

const (
	RoleSuperAdmin   = "superadmin"
	RoleFinanceAdmin = "finance_admin"
	RoleSupportAdmin = "support_admin"
	RoleCreator      = "creator"
)

var roleCapabilities = map[string][]Capability{
	RoleSuperAdmin: {
		CapWalletAdjust, CapPayoutReview, CapPayoutDisburse,
		CapRefundIssue, CapEscrowRelease, CapAuditRead,
	},
	RoleFinanceAdmin: {
		CapWalletAdjust, CapPayoutReview, CapPayoutDisburse,
		CapRefundIssue, CapEscrowRelease, CapAuditRead,
	},
	RoleSupportAdmin: {
		CapRefundIssue, CapAuditRead,
	},
}

func HasCapability(role string, capability Capability) bool {
	for _, c := range roleCapabilities[role] {
		if c == capability {
			return true
		}
	}
	return false
}
