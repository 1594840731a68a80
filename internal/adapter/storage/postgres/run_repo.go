package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"solana-sweeper/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RunRepo implements ports.RunRepository.
type RunRepo struct {
	pool Pool
}

// NewRunRepo creates a new RunRepo.
func NewRunRepo(pool Pool) *RunRepo {
	return &RunRepo{pool: pool}
}

// CreateRun inserts the run header.
func (r *RunRepo) CreateRun(ctx context.Context, run *domain.RunReport) error {
	query := `INSERT INTO sweep_runs (id, started_at, dry_run, total)
		VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query, run.ID, run.StartedAt, run.DryRun, run.Total)
	if err != nil {
		return fmt.Errorf("insert sweep run: %w", err)
	}
	return nil
}

// SaveOutcome upserts one account outcome.
func (r *RunRepo) SaveOutcome(ctx context.Context, runID uuid.UUID, o *domain.AccountOutcome) error {
	query := `INSERT INTO sweep_outcomes (run_id, account_index, address, state, native_balance, token_balance, token_decimals, plans, skips, error, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (run_id, account_index) DO UPDATE SET
			address = EXCLUDED.address, state = EXCLUDED.state,
			native_balance = EXCLUDED.native_balance, token_balance = EXCLUDED.token_balance,
			token_decimals = EXCLUDED.token_decimals, plans = EXCLUDED.plans,
			skips = EXCLUDED.skips, error = EXCLUDED.error, processed_at = EXCLUDED.processed_at`

	plans, skips, err := encodeOutcome(o)
	if err != nil {
		return err
	}

	var native, token *int64
	var decimals *int16
	if o.Snapshot != nil {
		if native, err = toBigint(o.Snapshot.Native); err != nil {
			return err
		}
		if token, err = toBigint(o.Snapshot.Token); err != nil {
			return err
		}
		d := int16(o.Snapshot.TokenDecimals)
		decimals = &d
	}

	_, err = r.pool.Exec(ctx, query,
		runID, o.Index, o.Address, string(o.State),
		native, token, decimals,
		plans, skips, o.Error, o.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert sweep outcome %d: %w", o.Index, err)
	}
	return nil
}

// FinishRun stores the finish time and the state tallies.
func (r *RunRepo) FinishRun(ctx context.Context, run *domain.RunReport) error {
	query := `UPDATE sweep_runs SET finished_at = $2, completed = $3, skipped = $4, failed = $5
		WHERE id = $1`

	s := run.Summary()
	tag, err := r.pool.Exec(ctx, query, run.ID, run.FinishedAt, s.Completed, s.Skipped, s.Failed)
	if err != nil {
		return fmt.Errorf("finish sweep run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("finish sweep run: run %s not found", run.ID)
	}
	return nil
}

// GetRun loads a run with its outcomes in index order. Returns nil, nil when absent.
func (r *RunRepo) GetRun(ctx context.Context, id uuid.UUID) (*domain.RunReport, error) {
	query := `SELECT id, started_at, finished_at, dry_run, total
		FROM sweep_runs WHERE id = $1`

	run := &domain.RunReport{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&run.ID, &run.StartedAt, &run.FinishedAt, &run.DryRun, &run.Total,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sweep run: %w", err)
	}

	outcomes, err := r.listOutcomes(ctx, id)
	if err != nil {
		return nil, err
	}
	run.Outcomes = outcomes
	return run, nil
}

func (r *RunRepo) listOutcomes(ctx context.Context, runID uuid.UUID) ([]domain.AccountOutcome, error) {
	query := `SELECT account_index, address, state, native_balance, token_balance, token_decimals, plans, skips, error, processed_at
		FROM sweep_outcomes WHERE run_id = $1 ORDER BY account_index ASC`

	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list sweep outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := []domain.AccountOutcome{}
	for rows.Next() {
		var (
			o               domain.AccountOutcome
			state           string
			native, token   *int64
			decimals        *int16
			plansRaw, skips []byte
			processedAt     time.Time
		)
		if err := rows.Scan(
			&o.Index, &o.Address, &state, &native, &token, &decimals,
			&plansRaw, &skips, &o.Error, &processedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sweep outcome: %w", err)
		}

		o.State = domain.AccountState(state)
		o.ProcessedAt = processedAt
		if native != nil && token != nil && decimals != nil {
			o.Snapshot = &domain.BalanceSnapshot{
				Native:        uint64(*native),
				Token:         uint64(*token),
				TokenDecimals: uint8(*decimals),
			}
		}
		if err := json.Unmarshal(plansRaw, &o.Plans); err != nil {
			return nil, fmt.Errorf("decode plans of outcome %d: %w", o.Index, err)
		}
		if err := json.Unmarshal(skips, &o.Skips); err != nil {
			return nil, fmt.Errorf("decode skips of outcome %d: %w", o.Index, err)
		}
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sweep outcomes: %w", err)
	}
	return outcomes, nil
}

func encodeOutcome(o *domain.AccountOutcome) (plans, skips []byte, err error) {
	p := o.Plans
	if p == nil {
		p = []domain.PlanResult{}
	}
	s := o.Skips
	if s == nil {
		s = []domain.SkipReason{}
	}
	if plans, err = json.Marshal(p); err != nil {
		return nil, nil, fmt.Errorf("encode plans: %w", err)
	}
	if skips, err = json.Marshal(s); err != nil {
		return nil, nil, fmt.Errorf("encode skips: %w", err)
	}
	return plans, skips, nil
}

func toBigint(v uint64) (*int64, error) {
	if v > math.MaxInt64 {
		return nil, fmt.Errorf("balance %d overflows BIGINT", v)
	}
	i := int64(v)
	return &i, nil
}
