package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccountState is the terminal state of one account in a sweep run.
type AccountState string

const (
	AccountStatePending                  AccountState = "PENDING"
	AccountStateCompleted                AccountState = "COMPLETED"
	AccountStateSkippedLoad              AccountState = "SKIPPED_LOAD"
	AccountStateSkippedInsufficientFunds AccountState = "SKIPPED_INSUFFICIENT_FUNDS"
	AccountStateFailed                   AccountState = "FAILED"
)

// IsTerminal returns true once the account needs no further processing.
func (s AccountState) IsTerminal() bool {
	return s == AccountStateCompleted ||
		s == AccountStateSkippedLoad ||
		s == AccountStateSkippedInsufficientFunds ||
		s == AccountStateFailed
}

// PlanStatus is the result of executing a single TransferPlan.
type PlanStatus string

const (
	PlanStatusSubmitted PlanStatus = "SUBMITTED"
	PlanStatusDryRun    PlanStatus = "DRY_RUN"
	PlanStatusFailed    PlanStatus = "FAILED"
)

// PlanResult records what happened to one plan.
type PlanResult struct {
	Plan      TransferPlan `json:"plan"`
	Status    PlanStatus   `json:"status"`
	Signature string       `json:"signature,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// AccountOutcome is the per-account line of a run report.
type AccountOutcome struct {
	Index       int              `json:"index"`
	Address     string           `json:"address,omitempty"`
	State       AccountState     `json:"state"`
	Snapshot    *BalanceSnapshot `json:"snapshot,omitempty"`
	Plans       []PlanResult     `json:"plans,omitempty"`
	Skips       []SkipReason     `json:"skips,omitempty"`
	Error       string           `json:"error,omitempty"`
	ProcessedAt time.Time        `json:"processed_at"`
}

// HasFailedPlan reports whether any executed plan failed.
func (o *AccountOutcome) HasFailedPlan() bool {
	for _, p := range o.Plans {
		if p.Status == PlanStatusFailed {
			return true
		}
	}
	return false
}

// RunReport aggregates the outcomes of one sweep run.
type RunReport struct {
	ID         uuid.UUID        `json:"id"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
	DryRun     bool             `json:"dry_run"`
	Total      int              `json:"total"`
	Outcomes   []AccountOutcome `json:"outcomes"`
}

// RunSummary counts outcomes by terminal state.
type RunSummary struct {
	Total     int `json:"total"`
	Processed int `json:"processed"`
	Completed int `json:"completed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Summary tallies the outcomes recorded so far.
func (r *RunReport) Summary() RunSummary {
	s := RunSummary{Total: r.Total, Processed: len(r.Outcomes)}
	for _, o := range r.Outcomes {
		switch o.State {
		case AccountStateCompleted:
			s.Completed++
		case AccountStateSkippedLoad, AccountStateSkippedInsufficientFunds:
			s.Skipped++
		case AccountStateFailed:
			s.Failed++
		}
	}
	return s
}

// IsFinished returns true once the run has been closed.
func (r *RunReport) IsFinished() bool {
	return r.FinishedAt != nil
}
