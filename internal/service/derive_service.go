package service

import (
	"context"
	"fmt"

	"solana-sweeper/internal/core/ports"
	"solana-sweeper/pkg/apperror"

	"github.com/rs/zerolog"
)

// DeriveFailure records one index that could not be derived or saved.
type DeriveFailure struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// DeriveReport summarises a derivation batch.
type DeriveReport struct {
	Requested int             `json:"requested"`
	Addresses map[int]string  `json:"addresses"`
	Failures  []DeriveFailure `json:"failures,omitempty"`
}

// DeriveService derives a range of keypairs from one seed phrase and stores them in the
// keystore format the sweep reads.
type DeriveService struct {
	deriver ports.Deriver
	keys    ports.KeyWriter
	log     zerolog.Logger
}

func NewDeriveService(deriver ports.Deriver, keys ports.KeyWriter, log zerolog.Logger) *DeriveService {
	return &DeriveService{deriver: deriver, keys: keys, log: log}
}

// Run derives indices [start, start+count). A failed index is logged and recorded and the
// batch continues. Only cancellation stops it early.
func (s *DeriveService) Run(ctx context.Context, seedPhrase string, start, count int) (*DeriveReport, error) {
	if count <= 0 {
		return nil, apperror.ErrInvalidConfig(fmt.Errorf("derive count must be positive, got %d", count))
	}
	if start < 0 {
		return nil, apperror.ErrInvalidConfig(fmt.Errorf("derive start must not be negative, got %d", start))
	}

	report := &DeriveReport{Requested: count, Addresses: make(map[int]string, count)}

	for index := start; index < start+count; index++ {
		if err := ctx.Err(); err != nil {
			s.log.Warn().Int("account_index", index).Msg("derivation cancelled")
			return report, err
		}

		if err := s.deriveOne(ctx, seedPhrase, index, report); err != nil {
			s.log.Error().Err(err).Int("account_index", index).Msg("failed to derive keypair")
			report.Failures = append(report.Failures, DeriveFailure{Index: index, Error: err.Error()})
		}
	}

	s.log.Info().
		Int("requested", count).
		Int("derived", len(report.Addresses)).
		Int("failed", len(report.Failures)).
		Msg("derivation finished")

	return report, nil
}

func (s *DeriveService) deriveOne(ctx context.Context, seedPhrase string, index int, report *DeriveReport) error {
	key, err := s.deriver.Derive(ctx, seedPhrase, index)
	if err != nil {
		return err
	}
	if err := s.keys.Save(ctx, key); err != nil {
		return fmt.Errorf("saving keypair %d: %w", index, err)
	}
	if err := s.keys.AppendAddress(ctx, key.Address); err != nil {
		return fmt.Errorf("appending address %d: %w", index, err)
	}

	report.Addresses[index] = key.Address
	s.log.Info().Int("account_index", index).Str("address", key.Address).Msg("keypair derived")
	return nil
}
