package enum

// ── Order status state machine (CHECK constrained in DB) ──
//
// The production sequence is fixed business policy:
// REQUESTED → APPROVED → PROOFING → PROOFING_APPROVED → DESAIN_SETTING →
// PRINTING → PRESSING → SEWING → PACKING → WAITING_SETTLEMENT → COMPLETED.
// CANCELLED branches off from REQUESTED and PROOFING.

const (
	OrderStatusRequested         = "REQUESTED"
	OrderStatusApproved          = "APPROVED"
	OrderStatusProofing          = "PROOFING"
	OrderStatusProofingApproved  = "PROOFING_APPROVED"
	OrderStatusDesainSetting     = "DESAIN_SETTING"
	OrderStatusPrinting          = "PRINTING"
	OrderStatusPressing          = "PRESSING"
	OrderStatusSewing            = "SEWING"
	OrderStatusPacking           = "PACKING"
	OrderStatusWaitingSettlement = "WAITING_SETTLEMENT"
	OrderStatusCompleted         = "COMPLETED"
	OrderStatusCancelled         = "CANCELLED"
)

// statusSequence lists the forward production path in order. CANCELLED is
// deliberately absent: it is a side branch, never "forward".
var statusSequence = []string{
	OrderStatusRequested,
	OrderStatusApproved,
	OrderStatusProofing,
	OrderStatusProofingApproved,
	OrderStatusDesainSetting,
	OrderStatusPrinting,
	OrderStatusPressing,
	OrderStatusSewing,
	OrderStatusPacking,
	OrderStatusWaitingSettlement,
	OrderStatusCompleted,
}

var statusIndex = func() map[string]int {
	m := make(map[string]int, len(statusSequence))
	for i, s := range statusSequence {
		m[s] = i
	}
	return m
}()

// IsValidOrderStatus reports whether s is a member of the status enum.
func IsValidOrderStatus(s string) bool {
	if s == OrderStatusCancelled {
		return true
	}
	_, ok := statusIndex[s]
	return ok
}

// IsForwardTransition reports whether to is strictly later than from on the
// production path. Returns false if either side is CANCELLED or unknown.
func IsForwardTransition(from, to string) bool {
	fi, ok1 := statusIndex[from]
	ti, ok2 := statusIndex[to]
	return ok1 && ok2 && ti > fi
}

// IsTerminalStatus reports whether no transition may leave s.
func IsTerminalStatus(s string) bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// ── User roles (CHECK constrained in DB) ──

const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleReseller   = "reseller"

	// Worker roles, one per production stage.
	RoleDesainSetting = "desain_setting"
	RolePrinting      = "printing"
	RolePressing      = "pressing"
	RoleSewing        = "sewing"
	RolePacking       = "packing"
)

// IsValidRole reports whether r is a member of the role enum.
func IsValidRole(r string) bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleReseller,
		RoleDesainSetting, RolePrinting, RolePressing, RoleSewing, RolePacking:
		return true
	}
	return false
}

// WorkerRoleForStage maps a target status to the worker role allowed to move
// an order into it. Only stages with a dedicated station appear here.
var WorkerRoleForStage = map[string]string{
	OrderStatusDesainSetting: RoleDesainSetting,
	OrderStatusPrinting:      RolePrinting,
	OrderStatusPressing:      RolePressing,
	OrderStatusSewing:        RoleSewing,
	OrderStatusPacking:       RolePacking,
}
