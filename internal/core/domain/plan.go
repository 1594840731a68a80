package domain

// PlanKind selects which balance class a transfer moves.
type PlanKind string

const (
	PlanKindToken  PlanKind = "TOKEN"
	PlanKindNative PlanKind = "NATIVE"
)

// TransferPlan is a single transfer the decision engine judged affordable.
type TransferPlan struct {
	Kind        PlanKind `json:"kind"`
	Source      string   `json:"source"`
	Destination string   `json:"destination"`
	Amount      uint64   `json:"amount"`
	Decimals    uint8    `json:"decimals,omitempty"` // Token plans only
}

// SkipReason describes a transfer opportunity that was not taken.
type SkipReason struct {
	Kind     PlanKind `json:"kind"`
	Reason   string   `json:"reason"`
	Balance  uint64   `json:"balance"`
	Required uint64   `json:"required"`
}

// Skip reasons.
const (
	ReasonNativeBelowTokenFee = "native balance below token transfer fee threshold"
	ReasonNativeBelowFee      = "native balance does not cover transfer fee"
	ReasonNativeBelowReserve  = "native balance does not exceed rent-exempt reserve"
	ReasonRecentlySubmitted   = "transfer already submitted recently"
	ReasonNativeRefreshFailed = "native balance refresh failed"
)

// InsufficientFunds reports whether the skip was caused by a lack of funds.
func (s SkipReason) InsufficientFunds() bool {
	switch s.Reason {
	case ReasonNativeBelowTokenFee, ReasonNativeBelowFee, ReasonNativeBelowReserve:
		return true
	}
	return false
}

// SweepTarget names where one account's funds sit.
type SweepTarget struct {
	Owner        string
	TokenAccount string
}

// Decision is the output of one evaluation: plans in execution order plus reported skips.
type Decision struct {
	Plans []TransferPlan `json:"plans"`
	Skips []SkipReason   `json:"skips"`
}

// Add appends whichever of plan and skip is non-nil.
func (d *Decision) Add(plan *TransferPlan, skip *SkipReason) {
	if plan != nil {
		d.Plans = append(d.Plans, *plan)
	}
	if skip != nil {
		d.Skips = append(d.Skips, *skip)
	}
}
