package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solana-sweeper/config"
	httpHandler "solana-sweeper/internal/adapter/http/handler"
	"solana-sweeper/internal/adapter/keystore"
	"solana-sweeper/internal/adapter/ledger"
	"solana-sweeper/internal/adapter/metrics"
	pgStorage "solana-sweeper/internal/adapter/storage/postgres"
	redisStorage "solana-sweeper/internal/adapter/storage/redis"
	"solana-sweeper/internal/core/domain"
	"solana-sweeper/internal/core/ports"
	"solana-sweeper/internal/service"
	"solana-sweeper/pkg/logger"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	os.Exit(run())
}

func run() int {
	flags := pflag.NewFlagSet("sweep", pflag.ContinueOnError)
	configPath := flags.String("config", "", "path to a config file (default ./config.yaml)")
	flags.Bool("dry-run", false, "build and log transfers without submitting them")
	flags.String("keys-dir", "", "directory holding keypair_<i>.json records")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	v := viper.New()
	_ = v.BindPFlag("sweep.dry_run", flags.Lookup("dry-run"))
	_ = v.BindPFlag("sweep.keys_dir", flags.Lookup("keys-dir"))

	cfg, err := config.LoadWith(v, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		return 1
	}

	log.Info().
		Str("rpc", cfg.RPC.Endpoint).
		Str("keys_dir", cfg.Sweep.KeysDir).
		Bool("dry_run", cfg.Sweep.DryRun).
		Msg("Starting Solana sweeper")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Ledger
	client := ledger.NewClient(cfg.RPC.Endpoint, ledgerOptions(cfg))
	var retryOpts []service.RetrierOption
	var prom *metrics.Prometheus
	if cfg.Status.Enabled && cfg.Status.Metrics {
		prom = metrics.NewPrometheus()
		retryOpts = append(retryOpts, service.WithRateLimitHook(prom.RateLimited))
	}
	retrier := service.NewRetrier(retryPolicy(cfg), log, retryOpts...)
	ledgerClient := service.NewRetryingLedger(client, retrier)

	builder, err := ledger.NewBuilder(cfg.Sweep.TokenMint, cfg.Sweep.TokenProgram, domain.PriorityFee{
		UnitPrice: cfg.PriorityFee.UnitPrice,
		UnitLimit: cfg.PriorityFee.UnitLimit,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize transaction builder")
		return 1
	}

	engine := newEngine(cfg)

	deps := service.SweepDeps{
		Accounts: keystore.NewStore(afero.NewOsFs(), cfg.Sweep.KeysDir, cfg.Derive.AddressesFile),
		Ledger:   ledgerClient,
		Builder:  builder,
		Engine:   engine,
	}
	if cfg.Thresholds.QueryRentExemption {
		deps.Rent = ledgerClient
	}
	if prom != nil {
		deps.Metrics = prom
	}

	checkers := []ports.HealthChecker{client}

	// Optional PostgreSQL run history
	if cfg.Database.Enabled {
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Error().Err(err).Msg("Failed to connect to PostgreSQL")
			return 1
		}
		defer pool.Close()
		if err := pgStorage.Migrate(ctx, pool); err != nil {
			log.Error().Err(err).Msg("Failed to apply schema")
			return 1
		}
		deps.Runs = pgStorage.NewRunRepo(pool)
		checkers = append(checkers, pgStorage.NewHealthCheck(pool))
	}

	// Optional Redis run lock and submission journal
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Error().Err(err).Msg("Failed to connect to Redis")
			return 1
		}
		defer rdb.Close()
		deps.Lock = redisStorage.NewRunLock(rdb)
		deps.Journal = redisStorage.NewSubmissionJournal(rdb)
		checkers = append(checkers, redisStorage.NewHealthCheck(rdb))
	}

	sweepSvc := service.NewSweepService(deps, service.SweepOptions{
		DryRun:            cfg.Sweep.DryRun,
		PacingDelay:       cfg.Sweep.PacingDelay,
		RefreshAfterToken: cfg.Sweep.RefreshAfterToken,
		LockKey:           cfg.Sweep.KeysDir,
		LockTTL:           cfg.Redis.LockTTL,
		JournalTTL:        cfg.Redis.JournalTTL,
	}, log)

	// Optional status API
	if cfg.Status.Enabled {
		routerDeps := httpHandler.RouterDeps{
			SweepSvc:       sweepSvc,
			Runs:           deps.Runs,
			HealthCheckers: checkers,
			Logger:         log,
		}
		if prom != nil {
			routerDeps.Metrics = prom.Handler()
		}
		router := httpHandler.SetupRouter(routerDeps)
		srv := &http.Server{
			Addr:              cfg.Status.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			log.Info().Str("addr", srv.Addr).Msg("Status server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("Status server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Status server forced to shutdown")
			}
		}()
	}

	report, err := sweepSvc.Run(ctx)
	if report != nil {
		s := report.Summary()
		fmt.Printf("run %s: %d/%d processed, %d completed, %d skipped, %d failed\n",
			report.ID, s.Processed, s.Total, s.Completed, s.Skipped, s.Failed)
	}
	switch code := exitCode(err); code {
	case exitInterrupted:
		log.Warn().Msg("Sweep interrupted")
		return code
	case exitFailed:
		log.Error().Err(err).Msg("Sweep failed")
		return code
	default:
		return code
	}
}

const (
	exitOK          = 0
	exitFailed      = 1
	exitInterrupted = 130
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	default:
		return exitFailed
	}
}

func ledgerOptions(cfg *config.Config) ledger.Options {
	return ledger.Options{
		Commitment:           rpc.CommitmentType(cfg.RPC.Commitment),
		SkipPreflight:        cfg.RPC.SkipPreflight,
		PreflightCommitment:  rpc.CommitmentType(cfg.RPC.PreflightCommitment),
		DefaultTokenDecimals: cfg.Sweep.DefaultTokenDecimals,
	}
}

func retryPolicy(cfg *config.Config) service.RetryPolicy {
	return service.RetryPolicy{
		MaxRetries: cfg.Retry.MaxRetries,
		BaseDelay:  cfg.Retry.BaseDelay,
		MaxJitter:  cfg.Retry.MaxJitter,
	}
}

func newEngine(cfg *config.Config) *service.DecisionEngine {
	return service.NewDecisionEngine(domain.Thresholds{
		MinNativeForTokenFee: cfg.Thresholds.MinNativeForTokenFee,
		MinNativeForTransfer: cfg.Thresholds.MinNativeForTransfer,
		RentExemptMinimum:    cfg.Thresholds.RentExemptMinimum,
		FeeReserve:           cfg.Thresholds.FeeReserve,
	}, domain.Destinations{
		Wallet:       cfg.Sweep.DestinationWallet,
		TokenAccount: cfg.Sweep.DestinationTokenAccount,
	})
}
