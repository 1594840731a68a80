package integration

import (
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"
)

const txFee = 5_000

// ledgerServer is an in-process JSON-RPC endpoint holding native and token balances.
type ledgerServer struct {
	*httptest.Server

	mu        sync.Mutex
	native    map[string]uint64
	tokens    map[string]uint64
	decimals  uint8
	blockhash solana.Hash
	rent      uint64
	settle    bool           // apply submitted transfers to balances
	throttle  map[string]int // method -> remaining 429 responses
	calls     map[string]int
	sent      []*solana.Transaction
}

type rpcRequest struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
	ID     json.RawMessage   `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newLedgerServer(t *testing.T) *ledgerServer {
	t.Helper()
	l := &ledgerServer{
		native:    make(map[string]uint64),
		tokens:    make(map[string]uint64),
		decimals:  6,
		blockhash: solana.HashFromBytes(make([]byte, 32)),
		rent:      890_880,
		settle:    true,
		throttle:  make(map[string]int),
		calls:     make(map[string]int),
	}
	l.blockhash[0] = 7
	l.Server = httptest.NewServer(http.HandlerFunc(l.serve))
	t.Cleanup(l.Close)
	return l
}

func (l *ledgerServer) callCount(method string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[method]
}

func (l *ledgerServer) submitted() []*solana.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*solana.Transaction(nil), l.sent...)
}

func (l *ledgerServer) balanceOf(address string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.native[address]
}

func (l *ledgerServer) tokenBalanceOf(address string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tokens[address]
}

func (l *ledgerServer) serve(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[req.Method]++

	if l.throttle[req.Method] > 0 {
		l.throttle[req.Method]--
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}

	result, rerr := l.dispatch(req)
	resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	if rerr != nil {
		resp["error"] = rerr
	} else {
		resp["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (l *ledgerServer) dispatch(req rpcRequest) (any, *rpcError) {
	ctx := map[string]any{"slot": 1}

	switch req.Method {
	case "getHealth":
		return "ok", nil

	case "getBalance":
		return map[string]any{"context": ctx, "value": l.native[param(req, 0)]}, nil

	case "getTokenAccountBalance":
		amount, ok := l.tokens[param(req, 0)]
		if !ok {
			return nil, &rpcError{Code: -32602, Message: "Invalid param: could not find account"}
		}
		return map[string]any{"context": ctx, "value": map[string]any{
			"amount":   strconv.FormatUint(amount, 10),
			"decimals": l.decimals,
		}}, nil

	case "getLatestBlockhash":
		return map[string]any{"context": ctx, "value": map[string]any{
			"blockhash":            l.blockhash.String(),
			"lastValidBlockHeight": 100,
		}}, nil

	case "getMinimumBalanceForRentExemption":
		return l.rent, nil

	case "sendTransaction":
		tx, err := solana.TransactionFromBase64(param(req, 0))
		if err != nil {
			return nil, &rpcError{Code: -32602, Message: err.Error()}
		}
		if err := tx.VerifySignatures(); err != nil {
			return nil, &rpcError{Code: -32003, Message: "Transaction signature verification failure"}
		}
		l.sent = append(l.sent, tx)
		if l.settle {
			l.apply(tx)
		}
		return tx.Signatures[0].String(), nil
	}

	return nil, &rpcError{Code: -32601, Message: "Method not found"}
}

// apply charges the fee payer and moves the transferred amount.
func (l *ledgerServer) apply(tx *solana.Transaction) {
	payer := tx.Message.AccountKeys[0].String()
	l.native[payer] -= txFee

	for _, ix := range tx.Message.Instructions {
		program, err := tx.Message.Program(ix.ProgramIDIndex)
		if err != nil {
			continue
		}
		account := func(i int) string {
			pk, _ := tx.Message.Account(ix.Accounts[i])
			return pk.String()
		}
		data := []byte(ix.Data)

		switch {
		case program.Equals(solana.SystemProgramID) && len(data) == 12:
			lamports := binary.LittleEndian.Uint64(data[4:])
			l.native[account(0)] -= lamports
			l.native[account(1)] += lamports
		case program.Equals(solana.TokenProgramID) && len(data) == 10 && data[0] == 12:
			amount := binary.LittleEndian.Uint64(data[1:9])
			l.tokens[account(0)] -= amount
			l.tokens[account(2)] += amount
		}
	}
}

func param(req rpcRequest, i int) string {
	if i >= len(req.Params) {
		return ""
	}
	var s string
	_ = json.Unmarshal(req.Params[i], &s)
	return s
}
