package domain

// Thresholds are the lamport limits the decision engine gates transfers on.
// They are read-only for the lifetime of a run.
type Thresholds struct {
	MinNativeForTokenFee uint64 // native balance needed to pay for a token transfer
	MinNativeForTransfer uint64 // native balance must exceed this to consider a native transfer
	RentExemptMinimum    uint64 // left behind so the account is not reclaimed
	FeeReserve           uint64 // fee buffer for the native transfer itself
}

// DefaultThresholds mirrors the static estimates the sweeper has always used.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinNativeForTokenFee: 10_000,
		MinNativeForTransfer: 5_000,
		RentExemptMinimum:    890_880,
		FeeReserve:           100_000,
	}
}

// NativeReserve is the amount a native sweep leaves in the account.
func (t Thresholds) NativeReserve() uint64 {
	return t.RentExemptMinimum + t.FeeReserve
}

// PriorityFee is the compute-budget bid attached to every transaction.
type PriorityFee struct {
	UnitPrice uint64 // micro-lamports per compute unit
	UnitLimit uint32
}

// DefaultPriorityFee returns the fee bid used unless configured otherwise.
func DefaultPriorityFee() PriorityFee {
	return PriorityFee{UnitPrice: 400_000, UnitLimit: 200_000}
}

// Destinations are the fixed addresses every sweep pays into.
type Destinations struct {
	Wallet       string
	TokenAccount string
}
