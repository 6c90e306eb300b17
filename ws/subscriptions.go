package ws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/decibel-trade/go-decibel/types"
)

// SubscribeJSON registers a typed listener: each payload is decoded into T
// before the callback runs. Decode failures go to the client's error
// handler, not the callback.
func SubscribeJSON[T any](ctx context.Context, c *Client, topic string, callback func(*T)) (*Subscription, error) {
	return c.Subscribe(ctx, topic, func(data json.RawMessage) {
		var msg T
		if err := json.Unmarshal(data, &msg); err != nil {
			c.onError(topic, fmt.Errorf("ws: decoding %T: %w", msg, err))
			return
		}
		callback(&msg)
	})
}

// ===== Typed subscription methods =====

// SubscribeMarketPrice subscribes to one market's price feed.
func (c *Client) SubscribeMarketPrice(ctx context.Context, market types.Address, callback func(*MarketPriceMessage)) (*Subscription, error) {
	return SubscribeJSON(ctx, c, MarketPriceTopic(market), callback)
}

// SubscribeAllMarketPrices subscribes to price snapshots for every market.
func (c *Client) SubscribeAllMarketPrices(ctx context.Context, callback func(*AllMarketPricesMessage)) (*Subscription, error) {
	return SubscribeJSON(ctx, c, AllMarketPricesTopic(), callback)
}

// SubscribeDepth subscribes to the aggregated order book for a market.
func (c *Client) SubscribeDepth(ctx context.Context, market types.Address, aggregation int, callback func(*DepthMessage)) (*Subscription, error) {
	return SubscribeJSON(ctx, c, DepthTopic(market, aggregation), callback)
}

// SubscribeTrades subscribes to public fills on a market.
func (c *Client) SubscribeTrades(ctx context.Context, market types.Address, callback func(*TradesMessage)) (*Subscription, error) {
	return SubscribeJSON(ctx, c, TradesTopic(market), callback)
}

// SubscribeCandlesticks subscribes to OHLCV buckets for a market, e.g.
// interval "1m".
func (c *Client) SubscribeCandlesticks(ctx context.Context, market types.Address, interval string, callback func(*CandlestickMessage)) (*Subscription, error) {
	return SubscribeJSON(ctx, c, CandlestickTopic(market, interval), callback)
}

// SubscribeAccountOverview subscribes to a subaccount's balance and margin
// summary.
func (c *Client) SubscribeAccountOverview(ctx context.Context, subaccount types.Address, callback func(*AccountOverviewMessage)) (*Subscription, error) {
	return SubscribeJSON(ctx, c, AccountOverviewTopic(subaccount), callback)
}

// SubscribeAccountPositions subscribes to a subaccount's open positions.
func (c *Client) SubscribeAccountPositions(ctx context.Context, subaccount types.Address, callback func(*AccountPositionsMessage)) (*Subscription, error) {
	return SubscribeJSON(ctx, c, AccountPositionsTopic(subaccount), callback)
}

// SubscribeOrderUpdates subscribes to a subaccount's order lifecycle
// events.
func (c *Client) SubscribeOrderUpdates(ctx context.Context, subaccount types.Address, callback func(*OrderUpdatesMessage)) (*Subscription, error) {
	return SubscribeJSON(ctx, c, OrderUpdatesTopic(subaccount), callback)
}

// SubscribeAccountOpenOrders subscribes to a subaccount's resting order
// set.
func (c *Client) SubscribeAccountOpenOrders(ctx context.Context, subaccount types.Address, callback func(*OrderUpdatesMessage)) (*Subscription, error) {
	return SubscribeJSON(ctx, c, AccountOpenOrdersTopic(subaccount), callback)
}

// SubscribeUserTrades subscribes to a subaccount's own fills.
func (c *Client) SubscribeUserTrades(ctx context.Context, subaccount types.Address, callback func(*UserTradesMessage)) (*Subscription, error) {
	return SubscribeJSON(ctx, c, UserTradesTopic(subaccount), callback)
}

// SubscribeUserActiveTwaps subscribes to a subaccount's running TWAP
// orders.
func (c *Client) SubscribeUserActiveTwaps(ctx context.Context, subaccount types.Address, callback func(*UserActiveTwapsMessage)) (*Subscription, error) {
	return SubscribeJSON(ctx, c, UserActiveTwapsTopic(subaccount), callback)
}

// SubscribeNotifications subscribes to user-facing exchange notifications.
func (c *Client) SubscribeNotifications(ctx context.Context, subaccount types.Address, callback func(*NotificationMessage)) (*Subscription, error) {
	return SubscribeJSON(ctx, c, NotificationsTopic(subaccount), callback)
}
