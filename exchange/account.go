package exchange

import (
	"context"

	"github.com/decibel-trade/go-decibel/node"
	"github.com/decibel-trade/go-decibel/txn"
	"github.com/decibel-trade/go-decibel/types"
)

// CreateSubaccount creates a fresh subaccount owned by the signing account.
func (e *Exchange) CreateSubaccount(ctx context.Context, opts ...SendOption) (*node.Transaction, error) {
	return e.SendEntryFunction(ctx, txn.EntryFunctionData{
		Function: e.functionID(entryModule, "create_new_subaccount"),
		Args:     []any{},
	}, opts...)
}

// DeactivateSubaccount retires an empty subaccount.
func (e *Exchange) DeactivateSubaccount(ctx context.Context, subaccount types.Address, opts ...SendOption) (*node.Transaction, error) {
	return e.SendEntryFunction(ctx, txn.EntryFunctionData{
		Function: e.functionID(entryModule, "deactivate_subaccount"),
		Args:     []any{subaccount},
	}, opts...)
}

// Deposit moves collateral from the account's wallet into a subaccount.
// Amount is in chain units of the collateral asset.
func (e *Exchange) Deposit(ctx context.Context, subaccount types.Address, amount uint64, opts ...SendOption) (*node.Transaction, error) {
	return e.SendEntryFunction(ctx, txn.EntryFunctionData{
		Function: e.functionID(entryModule, "deposit_to_subaccount_at"),
		Args:     []any{subaccount, amount},
	}, opts...)
}

// Withdraw moves collateral from a subaccount back to the wallet.
func (e *Exchange) Withdraw(ctx context.Context, subaccount types.Address, amount uint64, opts ...SendOption) (*node.Transaction, error) {
	return e.SendEntryFunction(ctx, txn.EntryFunctionData{
		Function: e.functionID(entryModule, "withdraw_from_subaccount"),
		Args:     []any{subaccount, amount},
	}, opts...)
}

// UserSettings are the per-market margin preferences.
type UserSettings struct {
	// CrossMargin shares collateral across positions; isolated pins it
	// per position.
	CrossMargin bool
	Leverage    uint8
}

// ConfigureUserSettings sets margin mode and leverage for one market.
func (e *Exchange) ConfigureUserSettings(ctx context.Context, subaccount, market types.Address, settings UserSettings, opts ...SendOption) (*node.Transaction, error) {
	return e.SendEntryFunction(ctx, txn.EntryFunctionData{
		Function: e.functionID(entryModule, "configure_user_settings_for_market"),
		Args:     []any{subaccount, market, settings.CrossMargin, settings.Leverage},
	}, opts...)
}

// DelegateTrading authorizes another account to trade on the subaccount.
// A nil expiry delegates until revoked.
func (e *Exchange) DelegateTrading(ctx context.Context, subaccount, delegate types.Address, expiryUnixSecs *uint64, opts ...SendOption) (*node.Transaction, error) {
	return e.SendEntryFunction(ctx, txn.EntryFunctionData{
		Function: e.functionID(entryModule, "delegate_trading_to_for_subaccount"),
		Args:     []any{subaccount, delegate, expiryUnixSecs},
	}, opts...)
}

// RevokeDelegation withdraws a trading delegation.
func (e *Exchange) RevokeDelegation(ctx context.Context, subaccount, delegate types.Address, opts ...SendOption) (*node.Transaction, error) {
	return e.SendEntryFunction(ctx, txn.EntryFunctionData{
		Function: e.functionID(entryModule, "revoke_delegation"),
		Args:     []any{subaccount, delegate},
	}, opts...)
}

// ApproveMaxBuilderFee caps what a builder may charge on orders routed
// through them for this subaccount. The fee is in tenths of a basis point.
func (e *Exchange) ApproveMaxBuilderFee(ctx context.Context, subaccount, builder types.Address, maxFeeTenthBps uint64, opts ...SendOption) (*node.Transaction, error) {
	return e.SendEntryFunction(ctx, txn.EntryFunctionData{
		Function: e.functionID(entryModule, "approve_max_builder_fee_for_subaccount"),
		Args:     []any{subaccount, builder, maxFeeTenthBps},
	}, opts...)
}

// RevokeMaxBuilderFee removes a builder fee approval.
func (e *Exchange) RevokeMaxBuilderFee(ctx context.Context, subaccount, builder types.Address, opts ...SendOption) (*node.Transaction, error) {
	return e.SendEntryFunction(ctx, txn.EntryFunctionData{
		Function: e.functionID(entryModule, "revoke_max_builder_fee_for_subaccount"),
		Args:     []any{subaccount, builder},
	}, opts...)
}
