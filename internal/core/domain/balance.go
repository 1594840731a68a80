package domain

import "time"

// BalanceSnapshot holds the balances captured for one account. It is stale as soon as
// a transfer for that account has been submitted.
type BalanceSnapshot struct {
	Native        uint64    `json:"native"`
	Token         uint64    `json:"token"`
	TokenDecimals uint8     `json:"token_decimals"`
	TakenAt       time.Time `json:"taken_at"`
}

// TokenBalance is the ledger view of one token account.
// Exists is false when the account was not found and the amount defaulted to zero.
type TokenBalance struct {
	Amount   uint64
	Decimals uint8
	Exists   bool
}
