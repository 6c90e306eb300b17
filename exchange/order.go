package exchange

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/decibel-trade/go-decibel/node"
	"github.com/decibel-trade/go-decibel/txn"
	"github.com/decibel-trade/go-decibel/types"
)

// TimeInForce controls how an order rests on the book.
type TimeInForce uint8

const (
	TimeInForceGTC      TimeInForce = 0
	TimeInForcePostOnly TimeInForce = 1
	TimeInForceIOC      TimeInForce = 2
)

const entryModule = "dex_accounts_entry"

func (e *Exchange) functionID(module, name string) string {
	return e.cfg.Deployment.Package.String() + "::" + module + "::" + name
}

// PlaceOrderArgs are the parameters of a limit order. Prices and sizes are
// in chain units; nil optionals are omitted on the wire.
type PlaceOrderArgs struct {
	Price       uint64
	Size        uint64
	IsBuy       bool
	TimeInForce TimeInForce
	ReduceOnly  bool

	// ClientOrderID tags the order for later cancellation by name.
	ClientOrderID *string
	// StopPrice turns the order into a stop order.
	StopPrice *uint64

	// Optional take-profit / stop-loss legs attached to the order.
	TpTriggerPrice *uint64
	TpLimitPrice   *uint64
	SlTriggerPrice *uint64
	SlLimitPrice   *uint64

	// Builder fee attribution.
	BuilderAddress *types.Address
	BuilderFee     *uint64

	// TickSize, when nonzero, snaps the price and all trigger and limit
	// legs to the market's tick grid before encoding.
	TickSize uint64
}

// roundArgsToTick returns args with every price field snapped to the tick
// grid. A zero tick size leaves them untouched.
func roundArgsToTick(args PlaceOrderArgs) PlaceOrderArgs {
	if args.TickSize == 0 {
		return args
	}
	snap := func(price *uint64) *uint64 {
		if price == nil {
			return nil
		}
		rounded := RoundToTickSize(*price, args.TickSize)
		return &rounded
	}
	args.Price = RoundToTickSize(args.Price, args.TickSize)
	args.StopPrice = snap(args.StopPrice)
	args.TpTriggerPrice = snap(args.TpTriggerPrice)
	args.TpLimitPrice = snap(args.TpLimitPrice)
	args.SlTriggerPrice = snap(args.SlTriggerPrice)
	args.SlLimitPrice = snap(args.SlLimitPrice)
	return args
}

// PlaceOrder submits a limit order for the subaccount on the given market.
// On-chain rejections come back in the result, not as an error.
func (e *Exchange) PlaceOrder(ctx context.Context, subaccount, market types.Address, args PlaceOrderArgs, opts ...SendOption) (PlaceOrderResult, error) {
	args = roundArgsToTick(args)
	return e.sendForResult(ctx, txn.EntryFunctionData{
		Function: e.functionID(entryModule, "place_order_to_subaccount"),
		Args: []any{
			subaccount, market,
			args.Price, args.Size, args.IsBuy, uint8(args.TimeInForce), args.ReduceOnly,
			args.ClientOrderID, args.StopPrice,
			args.TpTriggerPrice, args.TpLimitPrice, args.SlTriggerPrice, args.SlLimitPrice,
			args.BuilderAddress, args.BuilderFee,
		},
	}, opts)
}

// BulkOrder is one leg of a bulk placement.
type BulkOrder struct {
	Price       uint64
	Size        uint64
	IsBuy       bool
	TimeInForce TimeInForce
	ReduceOnly  bool
}

// PlaceBulkOrders submits several orders on one market atomically.
func (e *Exchange) PlaceBulkOrders(ctx context.Context, subaccount, market types.Address, orders []BulkOrder, opts ...SendOption) (PlaceOrderResult, error) {
	if len(orders) == 0 {
		return PlaceOrderResult{}, fmt.Errorf("exchange: no orders to place")
	}
	prices := make([]uint64, len(orders))
	sizes := make([]uint64, len(orders))
	isBuy := make([]bool, len(orders))
	tifs := make([]uint8, len(orders))
	reduceOnly := make([]bool, len(orders))
	for i, order := range orders {
		prices[i] = order.Price
		sizes[i] = order.Size
		isBuy[i] = order.IsBuy
		tifs[i] = uint8(order.TimeInForce)
		reduceOnly[i] = order.ReduceOnly
	}
	return e.sendForResult(ctx, txn.EntryFunctionData{
		Function: e.functionID(entryModule, "place_bulk_orders_to_subaccount"),
		Args:     []any{subaccount, market, prices, sizes, isBuy, tifs, reduceOnly},
	}, opts)
}

// CancelBulkOrders cancels several orders on one market atomically.
func (e *Exchange) CancelBulkOrders(ctx context.Context, subaccount, market types.Address, orderIDs []string, opts ...SendOption) (*node.Transaction, error) {
	ids := make([]*big.Int, len(orderIDs))
	for i, orderID := range orderIDs {
		id, err := parseOrderID(orderID)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return e.SendEntryFunction(ctx, txn.EntryFunctionData{
		Function: e.functionID(entryModule, "cancel_bulk_order_to_subaccount"),
		Args:     []any{subaccount, market, ids},
	}, opts...)
}

// PlaceTwapOrderArgs parameterize a time-weighted order that executes in
// slices over a duration.
type PlaceTwapOrderArgs struct {
	Size          uint64
	IsBuy         bool
	ReduceOnly    bool
	DurationSecs  uint64
	FrequencySecs uint64

	ClientOrderID  *string
	BuilderAddress *types.Address
	BuilderFee     *uint64
}

// PlaceTwapOrder submits a TWAP order. The assigned twap id comes back in
// the result.
func (e *Exchange) PlaceTwapOrder(ctx context.Context, subaccount, market types.Address, args PlaceTwapOrderArgs, opts ...SendOption) (PlaceOrderResult, error) {
	return e.sendForResult(ctx, txn.EntryFunctionData{
		Function: e.functionID(entryModule, "place_twap_order_to_subaccount_v2"),
		Args: []any{
			subaccount, market,
			args.Size, args.IsBuy, args.ReduceOnly,
			args.DurationSecs, args.FrequencySecs,
			args.ClientOrderID, args.BuilderAddress, args.BuilderFee,
		},
	}, opts)
}

// CancelOrder cancels a resting order by its chain-assigned id.
func (e *Exchange) CancelOrder(ctx context.Context, subaccount, market types.Address, orderID string, opts ...SendOption) (*node.Transaction, error) {
	id, err := parseOrderID(orderID)
	if err != nil {
		return nil, err
	}
	return e.SendEntryFunction(ctx, txn.EntryFunctionData{
		Function: e.functionID(entryModule, "cancel_order_to_subaccount"),
		Args:     []any{subaccount, market, id},
	}, opts...)
}

// CancelClientOrder cancels a resting order by the client order id it was
// placed with.
func (e *Exchange) CancelClientOrder(ctx context.Context, subaccount, market types.Address, clientOrderID string, opts ...SendOption) (*node.Transaction, error) {
	return e.SendEntryFunction(ctx, txn.EntryFunctionData{
		Function: e.functionID(entryModule, "cancel_client_order_to_subaccount"),
		Args:     []any{subaccount, market, clientOrderID},
	}, opts...)
}

// CancelTwapOrder stops a running TWAP order.
func (e *Exchange) CancelTwapOrder(ctx context.Context, subaccount, market types.Address, twapID string, opts ...SendOption) (*node.Transaction, error) {
	id, err := parseOrderID(twapID)
	if err != nil {
		return nil, err
	}
	return e.SendEntryFunction(ctx, txn.EntryFunctionData{
		Function: e.functionID(entryModule, "cancel_twap_orders_to_subaccount"),
		Args:     []any{subaccount, market, id},
	}, opts...)
}

// TpSlArgs describe position-level take-profit and stop-loss legs. Each leg
// needs at least its trigger price; a nil size applies to the whole
// position.
type TpSlArgs struct {
	TpTriggerPrice *uint64
	TpLimitPrice   *uint64
	TpSize         *uint64
	SlTriggerPrice *uint64
	SlLimitPrice   *uint64
	SlSize         *uint64
}

// PlaceTpSlOrder attaches take-profit/stop-loss orders to an open position.
func (e *Exchange) PlaceTpSlOrder(ctx context.Context, subaccount, market types.Address, args TpSlArgs, opts ...SendOption) (PlaceOrderResult, error) {
	if args.TpTriggerPrice == nil && args.SlTriggerPrice == nil {
		return PlaceOrderResult{}, fmt.Errorf("exchange: at least one of tp or sl trigger price is required")
	}
	return e.sendForResult(ctx, txn.EntryFunctionData{
		Function: e.functionID(entryModule, "place_tp_sl_order_for_position"),
		Args: []any{
			subaccount, market,
			args.TpTriggerPrice, args.TpLimitPrice, args.TpSize,
			args.SlTriggerPrice, args.SlLimitPrice, args.SlSize,
		},
	}, opts)
}

// UpdateTpOrder re-prices an existing take-profit leg.
func (e *Exchange) UpdateTpOrder(ctx context.Context, subaccount, market types.Address, orderID string, triggerPrice, limitPrice, size *uint64, opts ...SendOption) (*node.Transaction, error) {
	return e.updateTpSl(ctx, "update_tp_order_for_position", subaccount, market, orderID, triggerPrice, limitPrice, size, opts)
}

// UpdateSlOrder re-prices an existing stop-loss leg.
func (e *Exchange) UpdateSlOrder(ctx context.Context, subaccount, market types.Address, orderID string, triggerPrice, limitPrice, size *uint64, opts ...SendOption) (*node.Transaction, error) {
	return e.updateTpSl(ctx, "update_sl_order_for_position", subaccount, market, orderID, triggerPrice, limitPrice, size, opts)
}

func (e *Exchange) updateTpSl(ctx context.Context, function string, subaccount, market types.Address, orderID string, triggerPrice, limitPrice, size *uint64, opts []SendOption) (*node.Transaction, error) {
	id, err := parseOrderID(orderID)
	if err != nil {
		return nil, err
	}
	return e.SendEntryFunction(ctx, txn.EntryFunctionData{
		Function: e.functionID(entryModule, function),
		Args:     []any{subaccount, market, id, triggerPrice, limitPrice, size},
	}, opts...)
}

// CancelTpSlOrder removes the position's take-profit/stop-loss legs.
func (e *Exchange) CancelTpSlOrder(ctx context.Context, subaccount, market types.Address, opts ...SendOption) (*node.Transaction, error) {
	return e.SendEntryFunction(ctx, txn.EntryFunctionData{
		Function: e.functionID(entryModule, "cancel_tp_sl_order_for_position"),
		Args:     []any{subaccount, market},
	}, opts...)
}

// sendForResult runs the pipeline and folds on-chain aborts into the result
// instead of an error. Aborts caught at simulation reject the same way ones
// caught after submission do.
func (e *Exchange) sendForResult(ctx context.Context, data txn.EntryFunctionData, opts []SendOption) (PlaceOrderResult, error) {
	transaction, err := e.SendEntryFunction(ctx, data, opts...)
	if err != nil {
		var failed *node.FailedError
		if errors.As(err, &failed) && transaction != nil {
			return resultFromTransaction(transaction), nil
		}
		var sim *SimulationError
		if errors.As(err, &sim) {
			return PlaceOrderResult{Status: OrderStatusRejected, VMStatus: sim.VMStatus}, nil
		}
		return PlaceOrderResult{}, err
	}
	return resultFromTransaction(transaction), nil
}

// parseOrderID parses the decimal u128 order ids the chain hands out.
func parseOrderID(orderID string) (*big.Int, error) {
	id, ok := new(big.Int).SetString(orderID, 10)
	if !ok || id.Sign() < 0 {
		return nil, fmt.Errorf("exchange: invalid order id %q", orderID)
	}
	return id, nil
}
