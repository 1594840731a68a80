package service

import (
	"solana-sweeper/internal/core/domain"
)

// DecisionEngine turns a balance snapshot into transfer plans. It holds only read-only
// thresholds and destinations, so every method is a pure function of its arguments.
type DecisionEngine struct {
	thresholds domain.Thresholds
	dest       domain.Destinations
}

func NewDecisionEngine(thresholds domain.Thresholds, dest domain.Destinations) *DecisionEngine {
	return &DecisionEngine{thresholds: thresholds, dest: dest}
}

func (e *DecisionEngine) Thresholds() domain.Thresholds {
	return e.thresholds
}

// WithThresholds returns a copy of the engine using t.
func (e *DecisionEngine) WithThresholds(t domain.Thresholds) *DecisionEngine {
	return &DecisionEngine{thresholds: t, dest: e.dest}
}

// DecideToken emits a token plan iff token > 0 and native >= MinNativeForTokenFee.
// A positive token balance that cannot pay its fee is reported as a skip.
// A zero token balance yields neither.
func (e *DecisionEngine) DecideToken(target domain.SweepTarget, native, token uint64, decimals uint8) (*domain.TransferPlan, *domain.SkipReason) {
	if token == 0 {
		return nil, nil
	}
	if native < e.thresholds.MinNativeForTokenFee {
		return nil, &domain.SkipReason{
			Kind:     domain.PlanKindToken,
			Reason:   domain.ReasonNativeBelowTokenFee,
			Balance:  native,
			Required: e.thresholds.MinNativeForTokenFee,
		}
	}
	return &domain.TransferPlan{
		Kind:        domain.PlanKindToken,
		Source:      target.TokenAccount,
		Destination: e.dest.TokenAccount,
		Amount:      token,
		Decimals:    decimals,
	}, nil
}

// DecideNative emits a native plan for native - (RentExemptMinimum + FeeReserve)
// iff native exceeds both MinNativeForTransfer and the reserve.
func (e *DecisionEngine) DecideNative(target domain.SweepTarget, native uint64) (*domain.TransferPlan, *domain.SkipReason) {
	if native <= e.thresholds.MinNativeForTransfer {
		return nil, &domain.SkipReason{
			Kind:     domain.PlanKindNative,
			Reason:   domain.ReasonNativeBelowFee,
			Balance:  native,
			Required: e.thresholds.MinNativeForTransfer,
		}
	}

	reserve := e.thresholds.NativeReserve()
	if native <= reserve {
		return nil, &domain.SkipReason{
			Kind:     domain.PlanKindNative,
			Reason:   domain.ReasonNativeBelowReserve,
			Balance:  native,
			Required: reserve,
		}
	}

	return &domain.TransferPlan{
		Kind:        domain.PlanKindNative,
		Source:      target.Owner,
		Destination: e.dest.Wallet,
		Amount:      native - reserve,
	}, nil
}

// Decide evaluates both plans against one snapshot, token first.
func (e *DecisionEngine) Decide(target domain.SweepTarget, snap domain.BalanceSnapshot) domain.Decision {
	var d domain.Decision

	plan, skip := e.DecideToken(target, snap.Native, snap.Token, snap.TokenDecimals)
	d.Add(plan, skip)

	plan, skip = e.DecideNative(target, snap.Native)
	d.Add(plan, skip)

	return d
}
