package ports

import (
	"context"
	"time"

	"solana-sweeper/internal/core/domain"

	"github.com/gagliardetto/solana-go"
)

// LedgerClient is the uniform view of the remote ledger.
// Failures carry LDG_001 (rate limited) or LDG_002 (transport).
type LedgerClient interface {
	GetNativeBalance(ctx context.Context, address string) (uint64, error)
	// GetTokenBalance reports a missing token account as a zero balance, not an error.
	GetTokenBalance(ctx context.Context, tokenAccount string) (*domain.TokenBalance, error)
	GetLatestBlockhash(ctx context.Context) (solana.Hash, error)
	// Submit signs tx with signer and sends it, returning the transaction signature.
	Submit(ctx context.Context, tx *solana.Transaction, signer *domain.AccountIdentity) (string, error)
}

// RentOracle queries the live rent-exempt minimum for a zero-data account.
type RentOracle interface {
	MinimumBalanceForRentExemption(ctx context.Context) (uint64, error)
}

// TransactionBuilder turns plans into unsigned transactions.
type TransactionBuilder interface {
	// TokenAccountFor derives owner's token account for the configured mint.
	TokenAccountFor(owner string) (string, error)
	// Build fails only with TX_001 on malformed addresses.
	Build(plan domain.TransferPlan, recentBlockhash solana.Hash, feePayer string) (*solana.Transaction, error)
}

// Deriver derives keypair index from a seed phrase using an external signer.
type Deriver interface {
	Derive(ctx context.Context, seedPhrase string, index int) (*domain.DerivedKey, error)
}

// --- Service Ports (Business Logic) ---

// SweepService runs one sweep over every keypair in the store.
type SweepService interface {
	Run(ctx context.Context) (*domain.RunReport, error)
	// Progress returns a copy of the run in flight, or nil before the first run.
	Progress() *domain.RunReport
}

// SweepMetrics records sweep activity for scraping.
type SweepMetrics interface {
	AccountProcessed(state domain.AccountState)
	PlanFinished(kind domain.PlanKind, status domain.PlanStatus)
	RateLimited(op string)
	RunFinished(elapsed time.Duration)
}
