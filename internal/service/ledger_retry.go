package service

import (
	"context"
	"errors"

	"solana-sweeper/internal/core/domain"
	"solana-sweeper/internal/core/ports"
	"solana-sweeper/pkg/apperror"

	"github.com/gagliardetto/solana-go"
)

// RetryingLedger routes every ledger call through a Retrier.
type RetryingLedger struct {
	next    ports.LedgerClient
	retrier *Retrier
}

// NewRetryingLedger wraps next.
func NewRetryingLedger(next ports.LedgerClient, retrier *Retrier) *RetryingLedger {
	return &RetryingLedger{next: next, retrier: retrier}
}

func (l *RetryingLedger) GetNativeBalance(ctx context.Context, address string) (uint64, error) {
	return Execute(ctx, l.retrier, "getBalance", func(ctx context.Context) (uint64, error) {
		return l.next.GetNativeBalance(ctx, address)
	})
}

func (l *RetryingLedger) GetTokenBalance(ctx context.Context, tokenAccount string) (*domain.TokenBalance, error) {
	return Execute(ctx, l.retrier, "getTokenAccountBalance", func(ctx context.Context) (*domain.TokenBalance, error) {
		return l.next.GetTokenBalance(ctx, tokenAccount)
	})
}

func (l *RetryingLedger) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	return Execute(ctx, l.retrier, "getLatestBlockhash", l.next.GetLatestBlockhash)
}

// Submit is retried like any other call; re-sending the same signed bytes yields the same signature.
func (l *RetryingLedger) Submit(ctx context.Context, tx *solana.Transaction, signer *domain.AccountIdentity) (string, error) {
	return Execute(ctx, l.retrier, "sendTransaction", func(ctx context.Context) (string, error) {
		return l.next.Submit(ctx, tx, signer)
	})
}

// MinimumBalanceForRentExemption is available when the wrapped client is also a RentOracle.
func (l *RetryingLedger) MinimumBalanceForRentExemption(ctx context.Context) (uint64, error) {
	oracle, ok := l.next.(ports.RentOracle)
	if !ok {
		return 0, apperror.InternalError(errors.New("ledger client cannot query rent exemption"))
	}
	return Execute(ctx, l.retrier, "getMinimumBalanceForRentExemption", oracle.MinimumBalanceForRentExemption)
}
