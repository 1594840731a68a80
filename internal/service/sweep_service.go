package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"solana-sweeper/internal/core/domain"
	"solana-sweeper/internal/core/ports"
	"solana-sweeper/pkg/apperror"
	"solana-sweeper/pkg/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SweepDeps are the collaborators of a sweep. Nil optional deps disable their feature.
type SweepDeps struct {
	Accounts ports.AccountStore
	Ledger   ports.LedgerClient
	Builder  ports.TransactionBuilder
	Engine   *DecisionEngine

	Rent    ports.RentOracle        // nil = static rent-exempt minimum
	Runs    ports.RunRepository     // nil = reports are not persisted
	Lock    ports.RunLock           // nil = no cross-process lock
	Journal ports.SubmissionJournal // nil = no duplicate-submission guard
	Metrics ports.SweepMetrics      // nil = not recorded
}

// SweepOptions tune one sweep service.
type SweepOptions struct {
	DryRun            bool
	PacingDelay       time.Duration
	RefreshAfterToken bool
	LockKey           string
	LockTTL           time.Duration
	JournalTTL        time.Duration
}

// SweepOption customises a sweep service.
type SweepOption func(*sweepService)

// WithSweepSleep replaces the pacing sleep.
func WithSweepSleep(sleep SleepFunc) SweepOption {
	return func(s *sweepService) { s.sleep = sleep }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) SweepOption {
	return func(s *sweepService) { s.now = now }
}

// sweepService implements ports.SweepService.
type sweepService struct {
	deps  SweepDeps
	opts  SweepOptions
	sleep SleepFunc
	now   func() time.Time
	log   zerolog.Logger

	mu      sync.RWMutex
	current *domain.RunReport
}

// NewSweepService creates a new sweep service.
func NewSweepService(deps SweepDeps, opts SweepOptions, log zerolog.Logger, options ...SweepOption) ports.SweepService {
	s := &sweepService{
		deps:  deps,
		opts:  opts,
		sleep: sleepContext,
		now:   func() time.Time { return time.Now().UTC() },
		log:   log,
	}
	for _, o := range options {
		o(s)
	}
	if s.deps.Metrics == nil {
		s.deps.Metrics = noopMetrics{}
	}
	return s
}

type noopMetrics struct{}

func (noopMetrics) AccountProcessed(domain.AccountState)            {}
func (noopMetrics) PlanFinished(domain.PlanKind, domain.PlanStatus) {}
func (noopMetrics) RateLimited(string)                              {}
func (noopMetrics) RunFinished(time.Duration)                       {}

// Run sweeps every keypair in index order. Each account is isolated: its failure is
// recorded in the report and the batch moves on. Cancelling ctx stops the batch before
// the next account and the partial report is returned with ctx.Err().
func (s *sweepService) Run(ctx context.Context) (*domain.RunReport, error) {
	runID := uuid.New()

	if s.deps.Lock != nil {
		ok, err := s.deps.Lock.Acquire(ctx, s.opts.LockKey, runID.String(), s.opts.LockTTL)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("acquiring run lock: %w", err))
		}
		if !ok {
			return nil, apperror.ErrRunLocked()
		}
		defer func() {
			if err := s.deps.Lock.Release(context.WithoutCancel(ctx), s.opts.LockKey, runID.String()); err != nil {
				s.log.Warn().Err(err).Str("lock_key", s.opts.LockKey).Msg("failed to release run lock")
			}
		}()
	}

	indices, err := s.deps.Accounts.Indices(ctx)
	if err != nil {
		return nil, err
	}
	if len(indices) == 0 {
		return nil, apperror.ErrNoAccounts()
	}

	engine := s.engineForRun(ctx)

	run := &domain.RunReport{
		ID:        runID,
		StartedAt: s.now(),
		DryRun:    s.opts.DryRun,
		Total:     len(indices),
		Outcomes:  make([]domain.AccountOutcome, 0, len(indices)),
	}
	s.mu.Lock()
	s.current = run
	s.mu.Unlock()

	if s.deps.Runs != nil {
		if err := s.deps.Runs.CreateRun(ctx, run); err != nil {
			s.log.Error().Err(err).Str("run_id", runID.String()).Msg("failed to persist run")
		}
	}

	s.log.Info().
		Str("run_id", runID.String()).
		Int("accounts", len(indices)).
		Bool("dry_run", s.opts.DryRun).
		Msg("sweep started")

	for _, index := range indices {
		if ctx.Err() != nil {
			s.log.Warn().Int("account_index", index).Msg("sweep cancelled, remaining accounts not processed")
			break
		}

		outcome := s.processAccount(ctx, engine, index)
		s.deps.Metrics.AccountProcessed(outcome.State)

		s.mu.Lock()
		run.Outcomes = append(run.Outcomes, outcome)
		s.mu.Unlock()

		if s.deps.Runs != nil {
			if err := s.deps.Runs.SaveOutcome(context.WithoutCancel(ctx), runID, &outcome); err != nil {
				s.log.Error().Err(err).Int("account_index", index).Msg("failed to persist account outcome")
			}
		}
	}

	finished := s.now()
	s.mu.Lock()
	run.FinishedAt = &finished
	s.mu.Unlock()

	report := s.Progress()
	s.deps.Metrics.RunFinished(finished.Sub(report.StartedAt))

	if s.deps.Runs != nil {
		if err := s.deps.Runs.FinishRun(context.WithoutCancel(ctx), report); err != nil {
			s.log.Error().Err(err).Str("run_id", runID.String()).Msg("failed to persist run summary")
		}
	}

	summary := report.Summary()
	s.log.Info().
		Str("run_id", runID.String()).
		Int("total", summary.Total).
		Int("processed", summary.Processed).
		Int("completed", summary.Completed).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Dur("elapsed", finished.Sub(report.StartedAt)).
		Msg("sweep finished")

	return report, ctx.Err()
}

// Progress returns a copy of the run in flight, or nil before the first run.
func (s *sweepService) Progress() *domain.RunReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil
	}
	cp := *s.current
	cp.Outcomes = append([]domain.AccountOutcome(nil), s.current.Outcomes...)
	if s.current.FinishedAt != nil {
		t := *s.current.FinishedAt
		cp.FinishedAt = &t
	}
	return &cp
}

// engineForRun swaps in the live rent-exempt minimum when a rent oracle is wired.
// A failed query keeps the static value.
func (s *sweepService) engineForRun(ctx context.Context) *DecisionEngine {
	engine := s.deps.Engine
	if s.deps.Rent == nil {
		return engine
	}

	rent, err := s.deps.Rent.MinimumBalanceForRentExemption(ctx)
	if err != nil {
		s.log.Warn().Err(err).
			Uint64("rent_exempt_minimum", engine.Thresholds().RentExemptMinimum).
			Msg("rent exemption query failed, using static minimum")
		return engine
	}

	t := engine.Thresholds()
	s.log.Info().Uint64("static", t.RentExemptMinimum).Uint64("live", rent).Msg("using live rent-exempt minimum")
	t.RentExemptMinimum = rent
	return engine.WithThresholds(t)
}

func (s *sweepService) processAccount(ctx context.Context, engine *DecisionEngine, index int) (outcome domain.AccountOutcome) {
	outcome = domain.AccountOutcome{Index: index, State: domain.AccountStatePending}
	log := logger.ForAccount(s.log, index, "")

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("account processing panicked")
			outcome.State = domain.AccountStateFailed
			outcome.Error = fmt.Sprintf("panic: %v", r)
		}
		outcome.ProcessedAt = s.now()
		log.Info().Str("state", string(outcome.State)).Msg("account processed")
	}()

	identity, err := s.deps.Accounts.Load(ctx, index)
	if err != nil {
		log.Warn().Err(err).Msg("skipping account: keypair could not be loaded")
		outcome.State = domain.AccountStateSkippedLoad
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Address = identity.Address
	log = logger.ForAccount(s.log, index, identity.Address)

	tokenAccount, err := s.deps.Builder.TokenAccountFor(identity.Address)
	if err != nil {
		log.Error().Err(err).Msg("failed to derive token account")
		outcome.State = domain.AccountStateFailed
		outcome.Error = err.Error()
		return outcome
	}
	target := domain.SweepTarget{Owner: identity.Address, TokenAccount: tokenAccount}

	snap, err := s.fetchBalances(ctx, target)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch balances")
		outcome.State = domain.AccountStateFailed
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Snapshot = snap
	log.Info().
		Uint64("native", snap.Native).
		Uint64("token", snap.Token).
		Uint8("decimals", snap.TokenDecimals).
		Msg("balances fetched")

	native := snap.Native
	plan, skip := engine.DecideToken(target, native, snap.Token, snap.TokenDecimals)
	tokenSubmitted := s.handle(ctx, log, identity, &outcome, plan, skip)

	// The token transfer's fee came out of the native balance.
	if tokenSubmitted && s.opts.RefreshAfterToken {
		refreshed, err := s.deps.Ledger.GetNativeBalance(ctx, identity.Address)
		if err != nil {
			log.Error().Err(err).Msg("failed to refresh native balance after token transfer")
			outcome.Skips = append(outcome.Skips, domain.SkipReason{
				Kind:    domain.PlanKindNative,
				Reason:  domain.ReasonNativeRefreshFailed,
				Balance: native,
			})
			outcome.State = domain.AccountStateFailed
			outcome.Error = err.Error()
			return outcome
		}
		log.Debug().Uint64("before", native).Uint64("after", refreshed).Msg("native balance refreshed")
		native = refreshed
	}

	plan, skip = engine.DecideNative(target, native)
	s.handle(ctx, log, identity, &outcome, plan, skip)

	outcome.State = settle(&outcome)
	return outcome
}

func (s *sweepService) fetchBalances(ctx context.Context, target domain.SweepTarget) (*domain.BalanceSnapshot, error) {
	native, err := s.deps.Ledger.GetNativeBalance(ctx, target.Owner)
	if err != nil {
		return nil, fmt.Errorf("native balance: %w", err)
	}
	token, err := s.deps.Ledger.GetTokenBalance(ctx, target.TokenAccount)
	if err != nil {
		return nil, fmt.Errorf("token balance: %w", err)
	}
	return &domain.BalanceSnapshot{
		Native:        native,
		Token:         token.Amount,
		TokenDecimals: token.Decimals,
		TakenAt:       s.now(),
	}, nil
}

// handle records a decision for one plan kind and executes the plan if there is one.
// It reports whether a transaction was submitted.
func (s *sweepService) handle(
	ctx context.Context,
	log zerolog.Logger,
	identity *domain.AccountIdentity,
	outcome *domain.AccountOutcome,
	plan *domain.TransferPlan,
	skip *domain.SkipReason,
) bool {
	if skip != nil {
		log.Warn().
			Str("plan", string(skip.Kind)).
			Uint64("balance", skip.Balance).
			Uint64("required", skip.Required).
			Msg("skipping transfer: " + skip.Reason)
		outcome.Skips = append(outcome.Skips, *skip)
	}
	if plan == nil {
		return false
	}

	if sig := s.recentSubmission(ctx, log, identity.Address, plan.Kind); sig != "" {
		log.Warn().Str("plan", string(plan.Kind)).Str("signature", sig).Msg("skipping transfer: already submitted recently")
		outcome.Skips = append(outcome.Skips, domain.SkipReason{
			Kind:   plan.Kind,
			Reason: domain.ReasonRecentlySubmitted,
		})
		return false
	}

	result := s.execute(ctx, log, identity, *plan)
	s.deps.Metrics.PlanFinished(result.Plan.Kind, result.Status)
	outcome.Plans = append(outcome.Plans, result)
	return result.Status == domain.PlanStatusSubmitted
}

func (s *sweepService) recentSubmission(ctx context.Context, log zerolog.Logger, address string, kind domain.PlanKind) string {
	if s.deps.Journal == nil || s.opts.DryRun {
		return ""
	}
	sig, err := s.deps.Journal.Lookup(ctx, address, kind)
	if err != nil {
		log.Warn().Err(err).Str("plan", string(kind)).Msg("submission journal lookup failed")
		return ""
	}
	return sig
}

// execute builds, signs and submits one plan. Pacing follows every submission attempt.
func (s *sweepService) execute(ctx context.Context, log zerolog.Logger, identity *domain.AccountIdentity, plan domain.TransferPlan) domain.PlanResult {
	result := domain.PlanResult{Plan: plan}
	log = log.With().Str("plan", string(plan.Kind)).Uint64("amount", plan.Amount).Logger()

	blockhash, err := s.deps.Ledger.GetLatestBlockhash(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch recent blockhash")
		result.Status = domain.PlanStatusFailed
		result.Error = err.Error()
		return result
	}

	tx, err := s.deps.Builder.Build(plan, blockhash, identity.Address)
	if err != nil {
		log.Error().Err(err).Msg("failed to build transaction")
		result.Status = domain.PlanStatusFailed
		result.Error = err.Error()
		return result
	}

	if s.opts.DryRun {
		log.Info().Str("destination", plan.Destination).Msg("dry run: transaction built, not submitted")
		result.Status = domain.PlanStatusDryRun
		return result
	}

	sig, err := s.deps.Ledger.Submit(ctx, tx, identity)
	s.pace(ctx)
	if err != nil {
		log.Error().Err(err).Msg("transaction submission failed")
		result.Status = domain.PlanStatusFailed
		result.Error = err.Error()
		return result
	}

	log.Info().Str("signature", sig).Str("destination", plan.Destination).Msg("transaction submitted")
	result.Status = domain.PlanStatusSubmitted
	result.Signature = sig

	if s.deps.Journal != nil {
		if err := s.deps.Journal.Record(context.WithoutCancel(ctx), identity.Address, plan.Kind, sig, s.opts.JournalTTL); err != nil {
			log.Warn().Err(err).Msg("failed to record submission")
		}
	}
	return result
}

func (s *sweepService) pace(ctx context.Context) {
	if s.opts.PacingDelay <= 0 {
		return
	}
	if err := s.sleep(ctx, s.opts.PacingDelay); err != nil {
		s.log.Debug().Err(err).Msg("pacing interrupted")
	}
}

// settle derives the terminal state once every plan has been handled.
func settle(o *domain.AccountOutcome) domain.AccountState {
	if o.HasFailedPlan() {
		return domain.AccountStateFailed
	}
	if len(o.Plans) > 0 {
		return domain.AccountStateCompleted
	}
	for _, skip := range o.Skips {
		if skip.InsufficientFunds() {
			return domain.AccountStateSkippedInsufficientFunds
		}
	}
	if len(o.Skips) > 0 {
		return domain.AccountStateCompleted
	}
	return domain.AccountStateSkippedInsufficientFunds
}
