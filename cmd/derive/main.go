package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"solana-sweeper/config"
	"solana-sweeper/internal/adapter/keygen"
	"solana-sweeper/internal/adapter/keystore"
	"solana-sweeper/internal/service"
	"solana-sweeper/pkg/logger"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

func main() {
	os.Exit(run())
}

func run() int {
	flags := pflag.NewFlagSet("derive", pflag.ContinueOnError)
	configPath := flags.String("config", "", "path to a config file (default ./config.yaml)")
	flags.Int("count", 0, "number of keypairs to derive")
	flags.Int("start", 0, "first derivation index")
	flags.String("out", "", "directory to write keypair_<i>.json and the address list to")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	v := viper.New()
	_ = v.BindPFlag("derive.count", flags.Lookup("count"))
	_ = v.BindPFlag("derive.start", flags.Lookup("start"))
	_ = v.BindPFlag("derive.output_dir", flags.Lookup("out"))

	cfg, err := config.LoadWith(v, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	seed, err := readSeedPhrase(os.Stdin, os.Stderr)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read seed phrase")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fs := afero.NewOsFs()
	if err := fs.MkdirAll(cfg.Derive.OutputDir, 0o700); err != nil {
		log.Error().Err(err).Str("out", cfg.Derive.OutputDir).Msg("Failed to create output directory")
		return 1
	}
	store := keystore.NewStore(fs, cfg.Derive.OutputDir, cfg.Derive.AddressesFile)
	deriver := keygen.NewSolanaKeygen(cfg.Derive.KeygenPath, fs, cfg.Derive.OutputDir, cfg.Derive.Timeout, log)
	svc := service.NewDeriveService(deriver, store, log)

	log.Info().
		Int("start", cfg.Derive.Start).
		Int("count", cfg.Derive.Count).
		Str("out", cfg.Derive.OutputDir).
		Msg("Deriving keypairs")

	report, err := svc.Run(ctx, seed, cfg.Derive.Start, cfg.Derive.Count)
	if report != nil {
		fmt.Printf("derived %d/%d keypairs into %s\n", len(report.Addresses), report.Requested, cfg.Derive.OutputDir)
		for _, f := range report.Failures {
			fmt.Printf("  index %d failed: %s\n", f.Index, f.Error)
		}
	}
	if err != nil {
		log.Error().Err(err).Msg("Derivation stopped")
		return 1
	}
	if len(report.Failures) > 0 {
		return 1
	}
	return 0
}

// readSeedPhrase prompts without echo on a terminal and reads one line otherwise.
func readSeedPhrase(in *os.File, prompt io.Writer) (string, error) {
	var seed string
	if fd := int(in.Fd()); term.IsTerminal(fd) {
		fmt.Fprint(prompt, "Enter seed phrase: ")
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		seed = string(raw)
	} else {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		seed = line
	}

	seed = strings.Join(strings.Fields(seed), " ")
	if seed == "" {
		return "", errors.New("empty seed phrase")
	}
	return seed, nil
}
