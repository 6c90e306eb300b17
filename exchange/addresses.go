package exchange

import (
	"github.com/decibel-trade/go-decibel/bcs"
	"github.com/decibel-trade/go-decibel/constants"
	"github.com/decibel-trade/go-decibel/types"
)

// MarketAddress derives a perp market's object address from its name, e.g.
// "BTC/USD". Markets are named objects under the global perp engine.
func MarketAddress(deployment constants.Deployment, marketName string) types.Address {
	s := &bcs.Serializer{}
	s.Str(marketName)
	return types.NamedObjectAddress(deployment.PerpEngineGlobal, s.Output())
}

// PrimarySubaccountAddress derives the subaccount every account gets
// implicitly. Subaccounts are named objects under the global subaccount
// manager, seeded by owner address and slot name.
func PrimarySubaccountAddress(deployment constants.Deployment, owner types.Address) types.Address {
	manager := types.NamedObjectAddress(deployment.Package, []byte("GlobalSubaccountManager"))
	s := &bcs.Serializer{}
	s.FixedBytes(owner.Bytes())
	s.Str("primary_subaccount")
	return types.NamedObjectAddress(manager, s.Output())
}

// VaultShareAddress derives the fungible share asset of a vault.
func VaultShareAddress(vault types.Address) types.Address {
	return types.NamedObjectAddress(vault, []byte("vault_share"))
}

// MarketAddress resolves a market name against the client's deployment.
func (e *Exchange) MarketAddress(marketName string) types.Address {
	return MarketAddress(e.cfg.Deployment, marketName)
}

// PrimarySubaccountAddress is the client account's primary subaccount.
func (e *Exchange) PrimarySubaccountAddress() types.Address {
	return PrimarySubaccountAddress(e.cfg.Deployment, e.account.Address())
}
