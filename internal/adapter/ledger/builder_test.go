package ledger

import (
	"encoding/binary"
	"testing"

	"solana-sweeper/internal/core/domain"
	"solana-sweeper/pkg/apperror"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jupMint = "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN"

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(jupMint, solana.TokenProgramID.String(), domain.DefaultPriorityFee())
	require.NoError(t, err)
	return b
}

func randomAddress(t *testing.T) solana.PublicKey {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return key.PublicKey()
}

func programOf(t *testing.T, tx *solana.Transaction, i int) solana.PublicKey {
	t.Helper()
	pk, err := tx.Message.Program(tx.Message.Instructions[i].ProgramIDIndex)
	require.NoError(t, err)
	return pk
}

func accountsOf(t *testing.T, tx *solana.Transaction, i int) []solana.PublicKey {
	t.Helper()
	var out []solana.PublicKey
	for _, idx := range tx.Message.Instructions[i].Accounts {
		pk, err := tx.Message.Account(idx)
		require.NoError(t, err)
		out = append(out, pk)
	}
	return out
}

func assertPriorityFee(t *testing.T, tx *solana.Transaction) {
	t.Helper()
	require.Len(t, tx.Message.Instructions, 3)

	assert.Equal(t, solana.ComputeBudget, programOf(t, tx, 1))
	price := []byte(tx.Message.Instructions[1].Data)
	require.Len(t, price, 9)
	assert.Equal(t, byte(3), price[0], "SetComputeUnitPrice")
	assert.Equal(t, uint64(400_000), binary.LittleEndian.Uint64(price[1:]))

	assert.Equal(t, solana.ComputeBudget, programOf(t, tx, 2))
	limit := []byte(tx.Message.Instructions[2].Data)
	require.Len(t, limit, 5)
	assert.Equal(t, byte(2), limit[0], "SetComputeUnitLimit")
	assert.Equal(t, uint32(200_000), binary.LittleEndian.Uint32(limit[1:]))
}

func TestBuilder_NativeTransfer(t *testing.T) {
	b := newTestBuilder(t)
	owner := randomAddress(t)
	dest := randomAddress(t)
	blockhash := solana.Hash{9, 9, 9}

	tx, err := b.Build(domain.TransferPlan{
		Kind:        domain.PlanKindNative,
		Source:      owner.String(),
		Destination: dest.String(),
		Amount:      1_009_120,
	}, blockhash, owner.String())
	require.NoError(t, err)

	assert.Equal(t, blockhash, tx.Message.RecentBlockhash)
	assert.Equal(t, owner, tx.Message.AccountKeys[0], "fee payer first")
	assert.True(t, tx.Message.IsSigner(owner))

	assert.Equal(t, solana.SystemProgramID, programOf(t, tx, 0))
	assert.Equal(t, []solana.PublicKey{owner, dest}, accountsOf(t, tx, 0))
	data := []byte(tx.Message.Instructions[0].Data)
	require.Len(t, data, 12)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[:4]), "system Transfer")
	assert.Equal(t, uint64(1_009_120), binary.LittleEndian.Uint64(data[4:]))

	assertPriorityFee(t, tx)
}

func TestBuilder_TokenTransfer(t *testing.T) {
	b := newTestBuilder(t)
	owner := randomAddress(t)
	destATA := randomAddress(t)

	sourceATA, err := b.TokenAccountFor(owner.String())
	require.NoError(t, err)

	tx, err := b.Build(domain.TransferPlan{
		Kind:        domain.PlanKindToken,
		Source:      sourceATA,
		Destination: destATA.String(),
		Amount:      42_000_000,
		Decimals:    6,
	}, solana.Hash{1}, owner.String())
	require.NoError(t, err)

	assert.Equal(t, solana.TokenProgramID, programOf(t, tx, 0))
	assert.Equal(t, []solana.PublicKey{
		solana.MustPublicKeyFromBase58(sourceATA),
		solana.MustPublicKeyFromBase58(jupMint),
		destATA,
		owner,
	}, accountsOf(t, tx, 0))

	data := []byte(tx.Message.Instructions[0].Data)
	require.Len(t, data, 10)
	assert.Equal(t, byte(12), data[0], "TransferChecked")
	assert.Equal(t, uint64(42_000_000), binary.LittleEndian.Uint64(data[1:9]))
	assert.Equal(t, byte(6), data[9])

	assertPriorityFee(t, tx)
}

func TestBuilder_TokenProgramIsConfigurable(t *testing.T) {
	b, err := NewBuilder(jupMint, solana.Token2022ProgramID.String(), domain.DefaultPriorityFee())
	require.NoError(t, err)
	owner := randomAddress(t)

	tx, err := b.Build(domain.TransferPlan{
		Kind:        domain.PlanKindToken,
		Source:      randomAddress(t).String(),
		Destination: randomAddress(t).String(),
		Amount:      1,
		Decimals:    6,
	}, solana.Hash{1}, owner.String())
	require.NoError(t, err)
	assert.Equal(t, solana.Token2022ProgramID, programOf(t, tx, 0))
}

func TestBuilder_TokenAccountFor_MatchesAssociatedAddress(t *testing.T) {
	b := newTestBuilder(t)
	owner := randomAddress(t)

	want, _, err := solana.FindAssociatedTokenAddress(owner, solana.MustPublicKeyFromBase58(jupMint))
	require.NoError(t, err)

	got, err := b.TokenAccountFor(owner.String())
	require.NoError(t, err)
	assert.Equal(t, want.String(), got)
}

func TestBuilder_InvalidAddresses(t *testing.T) {
	b := newTestBuilder(t)
	valid := randomAddress(t).String()

	tests := []struct {
		name     string
		plan     domain.TransferPlan
		feePayer string
	}{
		{"bad fee payer", domain.TransferPlan{Kind: domain.PlanKindNative, Source: valid, Destination: valid, Amount: 1}, "0OIl"},
		{"bad source", domain.TransferPlan{Kind: domain.PlanKindNative, Source: "nope", Destination: valid, Amount: 1}, valid},
		{"bad destination", domain.TransferPlan{Kind: domain.PlanKindToken, Source: valid, Destination: "", Amount: 1}, valid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(tt.plan, solana.Hash{}, tt.feePayer)
			require.Error(t, err)
			assert.True(t, apperror.HasCode(err, apperror.CodeInvalidAddress))
		})
	}

	_, err := b.TokenAccountFor("not-an-address")
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidAddress))
}

func TestNewBuilder_InvalidConfig(t *testing.T) {
	_, err := NewBuilder("bad", solana.TokenProgramID.String(), domain.DefaultPriorityFee())
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidAddress))

	_, err = NewBuilder(jupMint, "bad", domain.DefaultPriorityFee())
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidAddress))
}
