package ports

import (
	"context"
	"time"

	"solana-sweeper/internal/core/domain"

	"github.com/google/uuid"
)

// AccountStore loads signing identities from file-backed records.
type AccountStore interface {
	// Indices returns every available record index in ascending order.
	Indices(ctx context.Context) ([]int, error)
	// Load returns ACC_001 when no record exists and ACC_002 when it is malformed.
	Load(ctx context.Context, index int) (*domain.AccountIdentity, error)
}

// KeyWriter persists derived keypairs in the format AccountStore reads.
type KeyWriter interface {
	Save(ctx context.Context, key *domain.DerivedKey) error
	AppendAddress(ctx context.Context, address string) error
}

// RunRepository persists sweep run reports.
type RunRepository interface {
	CreateRun(ctx context.Context, run *domain.RunReport) error
	SaveOutcome(ctx context.Context, runID uuid.UUID, outcome *domain.AccountOutcome) error
	FinishRun(ctx context.Context, run *domain.RunReport) error
	// GetRun returns nil, nil when the run does not exist.
	GetRun(ctx context.Context, id uuid.UUID) (*domain.RunReport, error)
}

// RunLock keeps two sweeps from working the same keystore at once.
type RunLock interface {
	// Acquire returns false if another owner holds key.
	Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key, owner string) error
}

// SubmissionJournal remembers recent submissions per address and plan kind.
type SubmissionJournal interface {
	Record(ctx context.Context, address string, kind domain.PlanKind, signature string, ttl time.Duration) error
	// Lookup returns "" when nothing was recorded within the TTL.
	Lookup(ctx context.Context, address string, kind domain.PlanKind) (string, error)
}
