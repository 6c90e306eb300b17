package read

import (
	"github.com/decibel-trade/go-decibel/types"
)

// Market is one listed perp market and its trading rules.
type Market struct {
	MarketAddr   string `json:"market_addr"`
	MarketName   string `json:"market_name"`
	TickSize     uint64 `json:"tick_size"`
	LotSize      uint64 `json:"lot_size"`
	SizeDecimals int    `json:"size_decimals"`
	MaxLeverage  uint8  `json:"max_leverage"`
	IsActive     bool   `json:"is_active"`
}

// MarketPrice mirrors the WebSocket market price snapshot.
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

// AccountOverview summarizes a subaccount's balances and margin.
type AccountOverview struct {
	EquityBalance     types.BigInt `json:"equity_balance"`
	AvailableBalance  types.BigInt `json:"available_balance"`
	MarginUsed        types.BigInt `json:"margin_used"`
	TotalNotional     types.BigInt `json:"total_notional"`
	UnrealizedPnl     types.BigInt `json:"unrealized_pnl"`
	MaintenanceMargin types.BigInt `json:"maintenance_margin"`
}

// OpenOrder is one resting order.
type OpenOrder struct {
	Market        string       `json:"market"`
	OrderID       string       `json:"order_id"`
	ClientOrderID string       `json:"client_order_id"`
	IsBuy         bool         `json:"is_buy"`
	Px            types.BigInt `json:"px"`
	OrigSize      types.BigInt `json:"orig_size"`
	RemainingSize types.BigInt `json:"remaining_size"`
	PlacedUnixMs  int64        `json:"placed_unix_ms"`
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

// Fill is one historical fill of the subaccount.
type Fill struct {
	Market  string       `json:"market"`
	OrderID string       `json:"order_id"`
	Px      types.BigInt `json:"px"`
	Size    types.BigInt `json:"size"`
	IsBuy   bool         `json:"is_buy"`
	Fee     types.BigInt `json:"fee"`
	UnixMs  int64        `json:"unix_ms"`
}

// Candlestick is one OHLCV bucket.
type Candlestick struct {
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

// FundingRate is one historical funding sample.
type FundingRate struct {
	Market         string       `json:"market"`
	FundingRateBps types.BigInt `json:"funding_rate_bps"`
	IsPositive     bool         `json:"is_positive"`
	UnixMs         int64        `json:"unix_ms"`
}
