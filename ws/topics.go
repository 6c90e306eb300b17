package ws

import (
	"fmt"

	"github.com/decibel-trade/go-decibel/types"
)

// Topic builders for the feeds the trading API serves. Market-scoped topics
// key on the market object address, account-scoped ones on the subaccount
// address.

func MarketPriceTopic(market types.Address) string {
	return "market_price:" + market.String()
}

func AllMarketPricesTopic() string {
	return "all_market_prices"
}

func DepthTopic(market types.Address, aggregation int) string {
	return fmt.Sprintf("depth:%s:%d", market, aggregation)
}

func TradesTopic(market types.Address) string {
	return "trades:" + market.String()
}

func CandlestickTopic(market types.Address, interval string) string {
	return fmt.Sprintf("market_candlestick:%s:%s", market, interval)
}

func AccountOverviewTopic(subaccount types.Address) string {
	return "account_overview:" + subaccount.String()
}

func AccountPositionsTopic(subaccount types.Address) string {
	return "account_positions:" + subaccount.String()
}

func AccountOpenOrdersTopic(subaccount types.Address) string {
	return "account_open_orders:" + subaccount.String()
}

func OrderUpdatesTopic(subaccount types.Address) string {
	return "order_updates:" + subaccount.String()
}

func UserTradesTopic(subaccount types.Address) string {
	return "user_trades:" + subaccount.String()
}

func UserActiveTwapsTopic(subaccount types.Address) string {
	return "user_active_twaps:" + subaccount.String()
}

func BulkOrdersTopic(subaccount types.Address) string {
	return "bulk_orders:" + subaccount.String()
}

func NotificationsTopic(subaccount types.Address) string {
	return "notifications:" + subaccount.String()
}
