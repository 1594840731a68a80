package service

import (
	"context"
	"testing"
	"time"

	"solana-sweeper/internal/core/domain"
	"solana-sweeper/internal/core/ports/mocks"
	"solana-sweeper/pkg/apperror"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRetryingLedger_RetriesRateLimitedBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockLedgerClient(ctrl)
	sleeper := &recordingSleep{}
	l := NewRetryingLedger(next, newTestRetrier(sleeper))

	gomock.InOrder(
		next.EXPECT().GetNativeBalance(gomock.Any(), "addr").Return(uint64(0), rateLimited()),
		next.EXPECT().GetNativeBalance(gomock.Any(), "addr").Return(uint64(123), nil),
	)

	v, err := l.GetNativeBalance(context.Background(), "addr")
	require.NoError(t, err)
	assert.Equal(t, uint64(123), v)
	assert.Equal(t, []time.Duration{5 * time.Second}, sleeper.delays)
}

func TestRetryingLedger_SubmitExhausted(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockLedgerClient(ctrl)
	l := NewRetryingLedger(next, newTestRetrier(&recordingSleep{}))
	tx := &solana.Transaction{}
	signer := &domain.AccountIdentity{Index: 0}

	next.EXPECT().Submit(gomock.Any(), tx, signer).Return("", rateLimited()).Times(5)

	_, err := l.Submit(context.Background(), tx, signer)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeRetriesExhausted))
}

func TestRetryingLedger_TransportErrorPassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockLedgerClient(ctrl)
	sleeper := &recordingSleep{}
	l := NewRetryingLedger(next, newTestRetrier(sleeper))

	next.EXPECT().GetLatestBlockhash(gomock.Any()).Return(solana.Hash{}, apperror.ErrTransport("getLatestBlockhash", assert.AnError))

	_, err := l.GetLatestBlockhash(context.Background())
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeTransport))
	assert.Empty(t, sleeper.delays)
}

func TestRetryingLedger_RentRequiresOracle(t *testing.T) {
	ctrl := gomock.NewController(t)
	l := NewRetryingLedger(mocks.NewMockLedgerClient(ctrl), newTestRetrier(&recordingSleep{}))

	_, err := l.MinimumBalanceForRentExemption(context.Background())
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInternal))
}
