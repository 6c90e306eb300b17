package exchange

import (
	"context"

	"github.com/decibel-trade/go-decibel/node"
	"github.com/decibel-trade/go-decibel/txn"
	"github.com/decibel-trade/go-decibel/types"
)

const vaultModule = "vault_api"

// CreateVaultArgs describe a new managed vault.
type CreateVaultArgs struct {
	Name        string
	Symbol      string
	Description string
	// InitialDeposit seeds the vault from the creator's wallet, in chain
	// units of the collateral asset.
	InitialDeposit uint64
}

// CreateVault creates and funds a vault managed by the signing account.
func (e *Exchange) CreateVault(ctx context.Context, args CreateVaultArgs, opts ...SendOption) (*node.Transaction, error) {
	return e.SendEntryFunction(ctx, txn.EntryFunctionData{
		Function: e.functionID(vaultModule, "create_and_fund_vault"),
		Args:     []any{args.Name, args.Symbol, args.Description, args.InitialDeposit},
	}, opts...)
}

// DepositToVault contributes collateral from a subaccount into a vault in
// exchange for shares.
func (e *Exchange) DepositToVault(ctx context.Context, subaccount, vault types.Address, amount uint64, opts ...SendOption) (*node.Transaction, error) {
	return e.SendEntryFunction(ctx, txn.EntryFunctionData{
		Function: e.functionID(entryModule, "contribute_to_vault"),
		Args:     []any{subaccount, vault, amount},
	}, opts...)
}

// WithdrawFromVault redeems vault shares back into subaccount collateral.
func (e *Exchange) WithdrawFromVault(ctx context.Context, subaccount, vault types.Address, shares uint64, opts ...SendOption) (*node.Transaction, error) {
	return e.SendEntryFunction(ctx, txn.EntryFunctionData{
		Function: e.functionID(entryModule, "redeem_from_vault"),
		Args:     []any{subaccount, vault, shares},
	}, opts...)
}
