// Package read queries the trading API's HTTP endpoints: market metadata,
// prices, and per-subaccount state. It is the request/response counterpart
// of the ws package's feeds.
package read

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samber/mo"

	"github.com/decibel-trade/go-decibel/types"
)

// Client provides access to market data and account state via the trading
// HTTP API.
type Client struct {
	baseUrl string
	apiKey  mo.Option[string]
	timeout mo.Option[time.Duration]
}

// Config for initializing the read client
type Config struct {
	// BaseURL is the trading API root, e.g.
	// "https://api.testnet.aptoslabs.com/decibel"
	BaseURL string
	// APIKey is sent as the x-api-key header when set
	APIKey string
	// Timeout is the timeout for network requests
	// If none is provided, no timeout will be enforced
	Timeout time.Duration
}

// New creates a new read client with the provided configuration.
func New(cfg Config) *Client {
	var apiKey mo.Option[string]
	var timeout mo.Option[time.Duration]

	if cfg.APIKey != "" {
		apiKey = mo.Some(cfg.APIKey)
	}
	if cfg.Timeout != 0 {
		timeout = mo.Some(cfg.Timeout)
	}

	return &Client{
		baseUrl: cfg.BaseURL,
		apiKey:  apiKey,
		timeout: timeout,
	}
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, result any) error {
	cancel := context.CancelFunc(func() {})
	if timeout, ok := c.timeout.Get(); ok {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	req := resty.New().R().SetContext(ctx).SetResult(result)
	if key, ok := c.apiKey.Get(); ok {
		req.SetHeader("x-api-key", key)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Get(c.baseUrl + path)
	if err != nil {
		return err
	}
	if resp.StatusCode() >= 400 {
		return fmt.Errorf("read: %s returned status %d: %s", path, resp.StatusCode(), resp.Body())
	}
	return nil
}

// ===== Market Data Queries =====

// Markets lists every market with its trading rules.
func (c *Client) Markets(ctx context.Context) ([]Market, error) {
	var result []Market
	err := c.get(ctx, "/api/v1/markets", nil, &result)
	return result, err
}

// MarketPrices retrieves the current price snapshot for every market.
func (c *Client) MarketPrices(ctx context.Context) ([]MarketPrice, error) {
	var result []MarketPrice
	err := c.get(ctx, "/api/v1/market_prices", nil, &result)
	return result, err
}

// MarketPrice retrieves the price snapshot of one market.
func (c *Client) MarketPrice(ctx context.Context, market types.Address) (*MarketPrice, error) {
	var result MarketPrice
	err := c.get(ctx, "/api/v1/market_prices", map[string]string{
		"market_addr": market.String(),
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Candlesticks retrieves OHLCV buckets for a market over [startMs, endMs).
func (c *Client) Candlesticks(ctx context.Context, market types.Address, interval string, startMs, endMs int64) ([]Candlestick, error) {
	var result []Candlestick
	err := c.get(ctx, "/api/v1/candlesticks", map[string]string{
		"market_addr": market.String(),
		"interval":    interval,
		"start_ms":    strconv.FormatInt(startMs, 10),
		"end_ms":      strconv.FormatInt(endMs, 10),
	}, &result)
	return result, err
}

// FundingRateHistory retrieves historical funding samples for a market.
func (c *Client) FundingRateHistory(ctx context.Context, market types.Address, startMs, endMs int64) ([]FundingRate, error) {
	var result []FundingRate
	err := c.get(ctx, "/api/v1/funding_rate_history", map[string]string{
		"market_addr": market.String(),
		"start_ms":    strconv.FormatInt(startMs, 10),
		"end_ms":      strconv.FormatInt(endMs, 10),
	}, &result)
	return result, err
}

// ===== Account Queries =====

// AccountOverview retrieves a subaccount's balance and margin summary.
func (c *Client) AccountOverview(ctx context.Context, subaccount types.Address) (*AccountOverview, error) {
	var result AccountOverview
	err := c.get(ctx, "/api/v1/account_overview", map[string]string{
		"subaccount": subaccount.String(),
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// OpenOrders retrieves a subaccount's resting orders.
func (c *Client) OpenOrders(ctx context.Context, subaccount types.Address) ([]OpenOrder, error) {
	var result []OpenOrder
	err := c.get(ctx, "/api/v1/open_orders", map[string]string{
		"subaccount": subaccount.String(),
	}, &result)
	return result, err
}

// Positions retrieves a subaccount's open positions.
func (c *Client) Positions(ctx context.Context, subaccount types.Address) ([]Position, error) {
	var result []Position
	err := c.get(ctx, "/api/v1/positions", map[string]string{
		"subaccount": subaccount.String(),
	}, &result)
	return result, err
}

// TradeHistory retrieves a subaccount's historical fills.
func (c *Client) TradeHistory(ctx context.Context, subaccount types.Address, limit int) ([]Fill, error) {
	query := map[string]string{"subaccount": subaccount.String()}
	if limit > 0 {
		query["limit"] = strconv.Itoa(limit)
	}
	var result []Fill
	err := c.get(ctx, "/api/v1/trade_history", query, &result)
	return result, err
}
