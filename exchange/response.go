package exchange

import (
	"encoding/json"
	"strings"

	"github.com/decibel-trade/go-decibel/node"
)

// OrderStatus reports how far an order made it.
type OrderStatus string

const (
	// OrderStatusAcked means the transaction committed and an order id
	// was assigned.
	OrderStatusAcked OrderStatus = "acked"
	// OrderStatusCommitted means the transaction committed but no order
	// event was found, e.g. the order filled and closed in one block.
	OrderStatusCommitted OrderStatus = "committed"
	// OrderStatusRejected means the transaction aborted on chain.
	OrderStatusRejected OrderStatus = "rejected"
)

// PlaceOrderResult is the non-throwing outcome of a place call. An on-chain
// rejection lands in Status and VMStatus instead of an error, so callers can
// treat it as a quote-level outcome; transport failures still error.
type PlaceOrderResult struct {
	Status   OrderStatus
	Hash     string
	OrderID  string
	TwapID   string
	VMStatus string
}

// Rejected reports whether the order was refused on chain.
func (r PlaceOrderResult) Rejected() bool { return r.Status == OrderStatusRejected }

type orderEventData struct {
	OrderID string `json:"order_id"`
}

type twapEventData struct {
	TwapID string `json:"twap_id"`
}

// resultFromTransaction folds a committed transaction into a
// PlaceOrderResult, digging the assigned ids out of its events.
func resultFromTransaction(transaction *node.Transaction) PlaceOrderResult {
	result := PlaceOrderResult{
		Status:   OrderStatusCommitted,
		Hash:     transaction.Hash,
		VMStatus: transaction.VMStatus,
	}
	if transaction.Success != nil && !*transaction.Success {
		result.Status = OrderStatusRejected
		return result
	}
	for _, event := range transaction.Events {
		switch {
		case strings.HasSuffix(event.Type, "::order_book_types::OrderEvent"):
			var data orderEventData
			if err := json.Unmarshal(event.Data, &data); err == nil && data.OrderID != "" {
				result.OrderID = data.OrderID
				result.Status = OrderStatusAcked
			}
		case strings.HasSuffix(event.Type, "::order_book_types::TwapEvent"):
			var data twapEventData
			if err := json.Unmarshal(event.Data, &data); err == nil && data.TwapID != "" {
				result.TwapID = data.TwapID
				result.Status = OrderStatusAcked
			}
		}
	}
	return result
}
