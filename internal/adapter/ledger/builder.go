package ledger

import (
	"fmt"

	"solana-sweeper/internal/core/domain"
	"solana-sweeper/pkg/apperror"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
)

// Builder implements ports.TransactionBuilder for one token mint.
type Builder struct {
	mint         solana.PublicKey
	tokenProgram solana.PublicKey
	fee          domain.PriorityFee
}

// NewBuilder parses the mint and token program addresses once.
func NewBuilder(mint, tokenProgram string, fee domain.PriorityFee) (*Builder, error) {
	mintKey, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return nil, apperror.ErrInvalidAddress("token_mint", err)
	}
	programKey, err := solana.PublicKeyFromBase58(tokenProgram)
	if err != nil {
		return nil, apperror.ErrInvalidAddress("token_program", err)
	}
	return &Builder{mint: mintKey, tokenProgram: programKey, fee: fee}, nil
}

// TokenAccountFor derives owner's associated token account for the mint.
func (b *Builder) TokenAccountFor(owner string) (string, error) {
	ownerKey, err := solana.PublicKeyFromBase58(owner)
	if err != nil {
		return "", apperror.ErrInvalidAddress("owner", err)
	}
	ata, _, err := solana.FindProgramAddress(
		[][]byte{ownerKey[:], b.tokenProgram[:], b.mint[:]},
		solana.SPLAssociatedTokenAccountProgramID,
	)
	if err != nil {
		return "", apperror.ErrInvalidAddress("owner", fmt.Errorf("derive token account: %w", err))
	}
	return ata.String(), nil
}

// Build assembles [transfer, compute unit price, compute unit limit] paid by feePayer.
func (b *Builder) Build(plan domain.TransferPlan, recentBlockhash solana.Hash, feePayer string) (*solana.Transaction, error) {
	payer, err := solana.PublicKeyFromBase58(feePayer)
	if err != nil {
		return nil, apperror.ErrInvalidAddress("fee_payer", err)
	}
	source, err := solana.PublicKeyFromBase58(plan.Source)
	if err != nil {
		return nil, apperror.ErrInvalidAddress("source", err)
	}
	destination, err := solana.PublicKeyFromBase58(plan.Destination)
	if err != nil {
		return nil, apperror.ErrInvalidAddress("destination", err)
	}

	var transfer solana.Instruction
	switch plan.Kind {
	case domain.PlanKindToken:
		transfer, err = b.tokenTransfer(plan, source, destination, payer)
		if err != nil {
			return nil, err
		}
	case domain.PlanKindNative:
		transfer = system.NewTransferInstruction(plan.Amount, source, destination).Build()
	default:
		return nil, apperror.InternalError(fmt.Errorf("unknown plan kind %q", plan.Kind))
	}

	instructions := []solana.Instruction{
		transfer,
		computebudget.NewSetComputeUnitPriceInstruction(b.fee.UnitPrice).Build(),
		computebudget.NewSetComputeUnitLimitInstruction(b.fee.UnitLimit).Build(),
	}

	tx, err := solana.NewTransaction(instructions, recentBlockhash, solana.TransactionPayer(payer))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("assemble transaction: %w", err))
	}
	return tx, nil
}

// tokenTransfer builds a checked transfer addressed to the configured token program.
func (b *Builder) tokenTransfer(plan domain.TransferPlan, source, destination, owner solana.PublicKey) (solana.Instruction, error) {
	inst := token.NewTransferCheckedInstruction(
		plan.Amount,
		plan.Decimals,
		source,
		b.mint,
		destination,
		owner,
		nil,
	).Build()

	data, err := inst.Data()
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("encode token transfer: %w", err))
	}
	return solana.NewInstruction(b.tokenProgram, inst.Accounts(), data), nil
}
