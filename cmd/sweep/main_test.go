package main

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"solana-sweeper/config"
	"solana-sweeper/internal/core/domain"
	"solana-sweeper/pkg/apperror"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadWith(viper.New(), "")
	require.NoError(t, err)
	return cfg
}

func TestLedgerOptions_Defaults(t *testing.T) {
	opts := ledgerOptions(loadTestConfig(t))

	assert.Equal(t, rpc.CommitmentConfirmed, opts.Commitment)
	assert.Equal(t, rpc.CommitmentConfirmed, opts.PreflightCommitment)
	assert.False(t, opts.SkipPreflight)
	assert.Equal(t, uint8(6), opts.DefaultTokenDecimals)
}

func TestLedgerOptions_EnvOverrides(t *testing.T) {
	t.Setenv("SWP_RPC_COMMITMENT", "finalized")
	t.Setenv("SWP_RPC_PREFLIGHT_COMMITMENT", "processed")
	t.Setenv("SWP_RPC_SKIP_PREFLIGHT", "true")

	opts := ledgerOptions(loadTestConfig(t))

	assert.Equal(t, rpc.CommitmentFinalized, opts.Commitment)
	assert.Equal(t, rpc.CommitmentProcessed, opts.PreflightCommitment)
	assert.True(t, opts.SkipPreflight)
}

func TestRetryPolicy(t *testing.T) {
	p := retryPolicy(loadTestConfig(t))

	assert.Equal(t, 5, p.MaxRetries)
	assert.Equal(t, 5*time.Second, p.BaseDelay)
	assert.Equal(t, time.Second, p.MaxJitter)
}

func TestNewEngine(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Sweep.DestinationWallet = "dest-wallet"
	cfg.Sweep.DestinationTokenAccount = "dest-ata"

	engine := newEngine(cfg)
	assert.Equal(t, domain.Thresholds{
		MinNativeForTokenFee: 10_000,
		MinNativeForTransfer: 5_000,
		RentExemptMinimum:    890_880,
		FeeReserve:           100_000,
	}, engine.Thresholds())

	plan, skip := engine.DecideNative(domain.SweepTarget{Owner: "owner"}, 2_000_000)
	assert.Nil(t, skip)
	require.NotNil(t, plan)
	assert.Equal(t, "dest-wallet", plan.Destination)
	assert.Equal(t, uint64(1_009_120), plan.Amount)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, exitOK},
		{"cancelled", context.Canceled, exitInterrupted},
		{"wrapped cancel", fmt.Errorf("sweep: %w", context.Canceled), exitInterrupted},
		{"no accounts", apperror.ErrNoAccounts(), exitFailed},
		{"other", errors.New("boom"), exitFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
