package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccountState_IsTerminal(t *testing.T) {
	tests := []struct {
		name  string
		state AccountState
		want  bool
	}{
		{"pending", AccountStatePending, false},
		{"completed", AccountStateCompleted, true},
		{"skipped load", AccountStateSkippedLoad, true},
		{"skipped funds", AccountStateSkippedInsufficientFunds, true},
		{"failed", AccountStateFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.IsTerminal())
		})
	}
}

func TestThresholds_NativeReserve(t *testing.T) {
	assert.Equal(t, uint64(990_880), DefaultThresholds().NativeReserve())

	custom := Thresholds{RentExemptMinimum: 1, FeeReserve: 2}
	assert.Equal(t, uint64(3), custom.NativeReserve())
}

func TestDefaultPriorityFee(t *testing.T) {
	fee := DefaultPriorityFee()
	assert.Equal(t, uint64(400_000), fee.UnitPrice)
	assert.Equal(t, uint32(200_000), fee.UnitLimit)
}

func TestSkipReason_InsufficientFunds(t *testing.T) {
	tests := []struct {
		reason string
		want   bool
	}{
		{ReasonNativeBelowTokenFee, true},
		{ReasonNativeBelowFee, true},
		{ReasonNativeBelowReserve, true},
		{ReasonRecentlySubmitted, false},
		{ReasonNativeRefreshFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			assert.Equal(t, tt.want, SkipReason{Reason: tt.reason}.InsufficientFunds())
		})
	}
}

func TestAccountOutcome_HasFailedPlan(t *testing.T) {
	o := &AccountOutcome{Plans: []PlanResult{{Status: PlanStatusSubmitted}}}
	assert.False(t, o.HasFailedPlan())

	o.Plans = append(o.Plans, PlanResult{Status: PlanStatusFailed})
	assert.True(t, o.HasFailedPlan())
}

func TestRunReport_Summary(t *testing.T) {
	r := &RunReport{
		Total: 6,
		Outcomes: []AccountOutcome{
			{Index: 0, State: AccountStateCompleted},
			{Index: 1, State: AccountStateSkippedLoad},
			{Index: 2, State: AccountStateSkippedInsufficientFunds},
			{Index: 3, State: AccountStateFailed},
			{Index: 4, State: AccountStateCompleted},
		},
	}

	assert.Equal(t, RunSummary{Total: 6, Processed: 5, Completed: 2, Skipped: 2, Failed: 1}, r.Summary())
	assert.False(t, r.IsFinished())

	now := time.Now()
	r.FinishedAt = &now
	assert.True(t, r.IsFinished())
}
