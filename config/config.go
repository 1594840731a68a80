package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"solana-sweeper/pkg/apperror"

	"github.com/gagliardetto/solana-go"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	RPC         RPCConfig         `mapstructure:"rpc"`
	Sweep       SweepConfig       `mapstructure:"sweep"`
	Thresholds  ThresholdsConfig  `mapstructure:"thresholds"`
	PriorityFee PriorityFeeConfig `mapstructure:"priority_fee"`
	Retry       RetryConfig       `mapstructure:"retry"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Status      StatusConfig      `mapstructure:"status"`
	Derive      DeriveConfig      `mapstructure:"derive"`
	Log         LogConfig         `mapstructure:"log"`
}

type RPCConfig struct {
	Endpoint            string `mapstructure:"endpoint" validate:"required,url"`
	Commitment          string `mapstructure:"commitment" validate:"oneof=processed confirmed finalized"`
	SkipPreflight       bool   `mapstructure:"skip_preflight"`
	PreflightCommitment string `mapstructure:"preflight_commitment" validate:"oneof=processed confirmed finalized"`
}

type SweepConfig struct {
	KeysDir                 string        `mapstructure:"keys_dir" validate:"required"`
	DestinationWallet       string        `mapstructure:"destination_wallet" validate:"required"`
	DestinationTokenAccount string        `mapstructure:"destination_token_account" validate:"required"`
	TokenMint               string        `mapstructure:"token_mint" validate:"required"`
	TokenProgram            string        `mapstructure:"token_program" validate:"required"`
	DefaultTokenDecimals    uint8         `mapstructure:"default_token_decimals"`
	PacingDelay             time.Duration `mapstructure:"pacing_delay" validate:"gte=0"`
	RefreshAfterToken       bool          `mapstructure:"refresh_after_token"`
	DryRun                  bool          `mapstructure:"dry_run"`
}

// ThresholdsConfig values are in lamports.
type ThresholdsConfig struct {
	MinNativeForTokenFee uint64 `mapstructure:"min_native_for_token_fee"`
	MinNativeForTransfer uint64 `mapstructure:"min_native_for_transfer"`
	RentExemptMinimum    uint64 `mapstructure:"rent_exempt_minimum"`
	FeeReserve           uint64 `mapstructure:"fee_reserve"`
	QueryRentExemption   bool   `mapstructure:"query_rent_exemption"`
}

type PriorityFeeConfig struct {
	UnitPrice uint64 `mapstructure:"unit_price"` // micro-lamports per compute unit
	UnitLimit uint32 `mapstructure:"unit_limit" validate:"gt=0"`
}

type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries" validate:"gte=1,lte=30"`
	BaseDelay  time.Duration `mapstructure:"base_delay" validate:"gte=0"`
	MaxJitter  time.Duration `mapstructure:"max_jitter" validate:"gte=0"`
}

type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Host       string        `mapstructure:"host"`
	Port       int           `mapstructure:"port"`
	Password   string        `mapstructure:"password"`
	DB         int           `mapstructure:"db"`
	LockTTL    time.Duration `mapstructure:"lock_ttl"`
	JournalTTL time.Duration `mapstructure:"journal_ttl"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type StatusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Metrics bool   `mapstructure:"metrics"`
}

// Addr returns the status server listen address.
func (s StatusConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DeriveConfig struct {
	KeygenPath    string        `mapstructure:"keygen_path"`
	OutputDir     string        `mapstructure:"output_dir"`
	AddressesFile string        `mapstructure:"addresses_file"`
	Start         int           `mapstructure:"start"`
	Count         int           `mapstructure:"count"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // trace, debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: SWP_.
// Nested keys use underscore: SWP_RPC_ENDPOINT, SWP_SWEEP_DESTINATION_WALLET, etc.
func Load(path string) (*Config, error) {
	return LoadWith(viper.New(), path)
}

// LoadWith is Load on a caller-provided viper instance, so commands can bind flags first.
func LoadWith(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// SWP_SWEEP_KEYS_DIR -> sweep.keys_dir
	v.SetEnvPrefix("SWP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional; env vars can suffice.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("rpc.endpoint", "https://api.mainnet-beta.solana.com")
	v.SetDefault("rpc.commitment", "confirmed")
	v.SetDefault("rpc.skip_preflight", false)
	v.SetDefault("rpc.preflight_commitment", "confirmed")

	v.SetDefault("sweep.keys_dir", ".")
	v.SetDefault("sweep.destination_wallet", "")
	v.SetDefault("sweep.destination_token_account", "")
	v.SetDefault("sweep.token_mint", "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN")
	v.SetDefault("sweep.token_program", "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	v.SetDefault("sweep.default_token_decimals", 6)
	v.SetDefault("sweep.pacing_delay", "5s")
	v.SetDefault("sweep.refresh_after_token", true)
	v.SetDefault("sweep.dry_run", false)

	v.SetDefault("thresholds.min_native_for_token_fee", 10000)
	v.SetDefault("thresholds.min_native_for_transfer", 5000)
	v.SetDefault("thresholds.rent_exempt_minimum", 890880)
	v.SetDefault("thresholds.fee_reserve", 100000)
	v.SetDefault("thresholds.query_rent_exemption", false)

	v.SetDefault("priority_fee.unit_price", 400000)
	v.SetDefault("priority_fee.unit_limit", 200000)

	v.SetDefault("retry.max_retries", 5)
	v.SetDefault("retry.base_delay", "5s")
	v.SetDefault("retry.max_jitter", "1s")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "solana_sweeper")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.conn_max_lifetime", "30m")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lock_ttl", "2h")
	v.SetDefault("redis.journal_ttl", "90s")

	v.SetDefault("status.enabled", false)
	v.SetDefault("status.host", "127.0.0.1")
	v.SetDefault("status.port", 8089)
	v.SetDefault("status.metrics", true)

	v.SetDefault("derive.keygen_path", "solana-keygen")
	v.SetDefault("derive.output_dir", ".")
	v.SetDefault("derive.addresses_file", "addresses.txt")
	v.SetDefault("derive.start", 0)
	v.SetDefault("derive.count", 0)
	v.SetDefault("derive.timeout", "30s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

var validate = validator.New()

// Validate checks the settings a sweep run cannot start without.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return apperror.ErrInvalidConfig(err)
	}

	addresses := []struct {
		field string
		value string
	}{
		{"sweep.destination_wallet", c.Sweep.DestinationWallet},
		{"sweep.destination_token_account", c.Sweep.DestinationTokenAccount},
		{"sweep.token_mint", c.Sweep.TokenMint},
		{"sweep.token_program", c.Sweep.TokenProgram},
	}
	var errs []error
	for _, a := range addresses {
		if _, err := solana.PublicKeyFromBase58(a.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", a.field, err))
		}
	}
	if len(errs) > 0 {
		return apperror.ErrInvalidConfig(errors.Join(errs...))
	}
	return nil
}
