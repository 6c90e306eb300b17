package ws

import (
	"github.com/decibel-trade/go-decibel/types"
)

// Feed payload types. Numeric fields the server renders as {"$bigint": ".."}
// wrappers decode through types.BigInt.

// MarketPrice is the per-market price snapshot.
type MarketPrice struct {
	Market            string       `json:"market"`
	MarkPx            types.BigInt `json:"mark_px"`
	MidPx             types.BigInt `json:"mid_px"`
	OraclePx          types.BigInt `json:"oracle_px"`
	FundingRateBps    types.BigInt `json:"funding_rate_bps"`
	IsFundingPositive bool         `json:"is_funding_positive"`
	OpenInterest      types.BigInt `json:"open_interest"`
	TransactionUnixMs int64        `json:"transaction_unix_ms"`
}

// MarketPriceMessage wraps one market_price update.
type MarketPriceMessage struct {
	Price MarketPrice `json:"price"`
}

// AllMarketPricesMessage carries a snapshot of every market's prices.
type AllMarketPricesMessage struct {
	Prices []MarketPrice `json:"prices"`
}

// DepthLevel is one price level of the book.
type DepthLevel struct {
	Px   types.BigInt `json:"px"`
	Size types.BigInt `json:"size"`
}

// DepthMessage is an aggregated order book snapshot.
type DepthMessage struct {
	Market string       `json:"market"`
	Bids   []DepthLevel `json:"bids"`
	Asks   []DepthLevel `json:"asks"`
}

// Trade is one public fill.
type Trade struct {
	Market     string       `json:"market"`
	Px         types.BigInt `json:"px"`
	Size       types.BigInt `json:"size"`
	IsBuy      bool         `json:"is_buy"`
	UnixMs     int64        `json:"unix_ms"`
	TradeIndex uint64       `json:"trade_index"`
}

// TradesMessage is a batch of public fills.
type TradesMessage struct {
	Trades []Trade `json:"trades"`
}

// CandlestickMessage is one bucketed OHLCV update.
type CandlestickMessage struct {
	Market   string       `json:"market"`
	Interval string       `json:"interval"`
	OpenMs   int64        `json:"open_ms"`
	CloseMs  int64        `json:"close_ms"`
	Open     types.BigInt `json:"open"`
	High     types.BigInt `json:"high"`
	Low      types.BigInt `json:"low"`
	Close    types.BigInt `json:"close"`
	Volume   types.BigInt `json:"volume"`
}

// OrderUpdate is one order lifecycle transition.
type OrderUpdate struct {
	Market        string       `json:"market"`
	OrderID       string       `json:"order_id"`
	ClientOrderID string       `json:"client_order_id"`
	Status        string       `json:"status"`
	IsBuy         bool         `json:"is_buy"`
	Px            types.BigInt `json:"px"`
	OrigSize      types.BigInt `json:"orig_size"`
	RemainingSize types.BigInt `json:"remaining_size"`
	UnixMs        int64        `json:"unix_ms"`
}

// OrderUpdatesMessage is a batch of order transitions.
type OrderUpdatesMessage struct {
	Orders []OrderUpdate `json:"orders"`
}

// Position is one open position.
type Position struct {
	Market        string       `json:"market"`
	IsLong        bool         `json:"is_long"`
	Size          types.BigInt `json:"size"`
	EntryPx       types.BigInt `json:"entry_px"`
	UnrealizedPnl types.BigInt `json:"unrealized_pnl"`
	Leverage      uint8        `json:"leverage"`
	IsIsolated    bool         `json:"is_isolated"`
}

// AccountPositionsMessage is the subaccount's position set.
type AccountPositionsMessage struct {
	Positions []Position `json:"positions"`
}

// AccountOverviewMessage summarizes a subaccount's balances and margin.
type AccountOverviewMessage struct {
	EquityBalance     types.BigInt `json:"equity_balance"`
	AvailableBalance  types.BigInt `json:"available_balance"`
	MarginUsed        types.BigInt `json:"margin_used"`
	TotalNotional     types.BigInt `json:"total_notional"`
	UnrealizedPnl     types.BigInt `json:"unrealized_pnl"`
	CrossMarginRatio  types.BigInt `json:"cross_margin_ratio"`
	MaintenanceMargin types.BigInt `json:"maintenance_margin"`
}

// UserTrade is one of the subaccount's own fills.
type UserTrade struct {
	Market  string       `json:"market"`
	OrderID string       `json:"order_id"`
	Px      types.BigInt `json:"px"`
	Size    types.BigInt `json:"size"`
	IsBuy   bool         `json:"is_buy"`
	Fee     types.BigInt `json:"fee"`
	UnixMs  int64        `json:"unix_ms"`
}

// UserTradesMessage is a batch of own fills.
type UserTradesMessage struct {
	Trades []UserTrade `json:"trades"`
}

// ActiveTwap is the progress of one running TWAP order.
type ActiveTwap struct {
	Market        string       `json:"market"`
	TwapID        string       `json:"twap_id"`
	IsBuy         bool         `json:"is_buy"`
	TotalSize     types.BigInt `json:"total_size"`
	ExecutedSize  types.BigInt `json:"executed_size"`
	EndUnixMs     int64        `json:"end_unix_ms"`
	FrequencySecs uint64       `json:"frequency_secs"`
}

// UserActiveTwapsMessage is the subaccount's running TWAP set.
type UserActiveTwapsMessage struct {
	Twaps []ActiveTwap `json:"twaps"`
}

// NotificationMessage is one user-facing exchange notification, e.g. a
// liquidation warning.
type NotificationMessage struct {
	Kind   string `json:"kind"`
	Text   string `json:"text"`
	UnixMs int64  `json:"unix_ms"`
}
