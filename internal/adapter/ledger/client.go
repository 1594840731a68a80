package ledger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"solana-sweeper/internal/core/domain"
	"solana-sweeper/pkg/apperror"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

// RPC is the subset of *rpc.Client the adapter uses.
type RPC interface {
	GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error)
	GetTokenAccountBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetTokenAccountBalanceResult, error)
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
	GetMinimumBalanceForRentExemption(ctx context.Context, dataSize uint64, commitment rpc.CommitmentType) (uint64, error)
	GetHealth(ctx context.Context) (string, error)
}

var _ RPC = (*rpc.Client)(nil)

// Options configure commitment and preflight behaviour.
type Options struct {
	Commitment           rpc.CommitmentType
	SkipPreflight        bool
	PreflightCommitment  rpc.CommitmentType
	DefaultTokenDecimals uint8
}

// Client implements ports.LedgerClient, ports.RentOracle and ports.HealthChecker
// on a Solana JSON-RPC endpoint.
type Client struct {
	rpc  RPC
	opts Options
}

// NewClient creates a Client over endpoint.
func NewClient(endpoint string, opts Options) *Client {
	return NewClientWithRPC(rpc.New(endpoint), opts)
}

// NewClientWithRPC wraps an existing RPC implementation.
func NewClientWithRPC(r RPC, opts Options) *Client {
	return &Client{rpc: r, opts: opts}
}

func (c *Client) GetNativeBalance(ctx context.Context, address string) (uint64, error) {
	pk, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return 0, apperror.ErrInvalidAddress("address", err)
	}
	out, err := c.rpc.GetBalance(ctx, pk, c.opts.Commitment)
	if err != nil {
		return 0, classify("getBalance", err)
	}
	return out.Value, nil
}

// GetTokenBalance returns a zero balance with the default decimals when the token
// account does not exist yet.
func (c *Client) GetTokenBalance(ctx context.Context, tokenAccount string) (*domain.TokenBalance, error) {
	pk, err := solana.PublicKeyFromBase58(tokenAccount)
	if err != nil {
		return nil, apperror.ErrInvalidAddress("token_account", err)
	}

	out, err := c.rpc.GetTokenAccountBalance(ctx, pk, c.opts.Commitment)
	if err != nil {
		classified := classify(opTokenBalance, err)
		if apperror.HasCode(classified, apperror.CodeTokenAccountNotFound) {
			return &domain.TokenBalance{Decimals: c.opts.DefaultTokenDecimals}, nil
		}
		return nil, classified
	}
	if out == nil || out.Value == nil {
		return &domain.TokenBalance{Decimals: c.opts.DefaultTokenDecimals}, nil
	}

	amount, err := strconv.ParseUint(out.Value.Amount, 10, 64)
	if err != nil {
		return nil, apperror.ErrTransport(opTokenBalance, fmt.Errorf("parse amount %q: %w", out.Value.Amount, err))
	}
	return &domain.TokenBalance{Amount: amount, Decimals: out.Value.Decimals, Exists: true}, nil
}

func (c *Client) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	out, err := c.rpc.GetLatestBlockhash(ctx, c.opts.Commitment)
	if err != nil {
		return solana.Hash{}, classify("getLatestBlockhash", err)
	}
	if out == nil || out.Value == nil {
		return solana.Hash{}, apperror.ErrTransport("getLatestBlockhash", errors.New("empty result"))
	}
	return out.Value.Blockhash, nil
}

// Submit signs tx with the signer's secret and sends it. The returned signature is the
// transaction's first signature, so a resend of the same bytes reports the same value.
func (c *Client) Submit(ctx context.Context, tx *solana.Transaction, signer *domain.AccountIdentity) (string, error) {
	key := solana.PrivateKey(signer.Secret)
	if err := key.Validate(); err != nil {
		return "", apperror.InternalError(fmt.Errorf("signer key: %w", err))
	}
	owner := key.PublicKey()

	if len(tx.Signatures) == 0 {
		_, err := tx.Sign(func(pk solana.PublicKey) *solana.PrivateKey {
			if pk.Equals(owner) {
				return &key
			}
			return nil
		})
		if err != nil {
			return "", apperror.InternalError(fmt.Errorf("sign transaction: %w", err))
		}
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       c.opts.SkipPreflight,
		PreflightCommitment: c.opts.PreflightCommitment,
	})
	if err != nil {
		return "", classify("sendTransaction", err)
	}
	return sig.String(), nil
}

// MinimumBalanceForRentExemption queries the rent-exempt minimum of a zero-data account.
func (c *Client) MinimumBalanceForRentExemption(ctx context.Context) (uint64, error) {
	lamports, err := c.rpc.GetMinimumBalanceForRentExemption(ctx, 0, c.opts.Commitment)
	if err != nil {
		return 0, classify("getMinimumBalanceForRentExemption", err)
	}
	return lamports, nil
}

// Ping implements ports.HealthChecker.
func (c *Client) Ping(ctx context.Context) error {
	status, err := c.rpc.GetHealth(ctx)
	if err != nil {
		return classify("getHealth", err)
	}
	if status != rpc.HealthOk {
		return fmt.Errorf("node unhealthy: %s", status)
	}
	return nil
}

// Name implements ports.HealthChecker.
func (c *Client) Name() string {
	return "solana-rpc"
}

const (
	rpcCodeTooManyRequests = -32429
	opTokenBalance         = "getTokenAccountBalance"
)

// classify maps an RPC failure onto the ledger error codes. A missing account is
// LDG_004 only for token balance reads; for every other op it is a transport failure.
func classify(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var httpErr *jsonrpc.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code == http.StatusTooManyRequests {
		return apperror.ErrRateLimited(err)
	}

	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		switch {
		case rpcErr.Code == rpcCodeTooManyRequests || isRateLimitText(rpcErr.Message):
			return apperror.ErrRateLimited(err)
		case op == opTokenBalance && isNotFoundText(rpcErr.Message):
			return apperror.ErrTokenAccountNotFound(err)
		}
		return apperror.ErrTransport(op, err)
	}

	switch {
	case isRateLimitText(err.Error()):
		return apperror.ErrRateLimited(err)
	case op == opTokenBalance && (errors.Is(err, rpc.ErrNotFound) || isNotFoundText(err.Error())):
		return apperror.ErrTokenAccountNotFound(err)
	}
	return apperror.ErrTransport(op, err)
}

// isRateLimitText matches "Too Many Requests" in any case, which also covers
// "429 Too Many Requests". A bare "429" is not a signal: it shows up in ports and addresses.
func isRateLimitText(s string) bool {
	return strings.Contains(strings.ToLower(s), "too many requests")
}

func isNotFoundText(s string) bool {
	return strings.Contains(strings.ToLower(s), "could not find account")
}
