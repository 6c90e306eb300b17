package node

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// GasEstimate is the response of GET /estimate_gas_price.
type GasEstimate struct {
	GasEstimate              uint64  `json:"gas_estimate"`
	DeprioritizedGasEstimate *uint64 `json:"deprioritized_gas_estimate,omitempty"`
	PrioritizedGasEstimate   *uint64 `json:"prioritized_gas_estimate,omitempty"`
}

// SimulationResult is one element of the array returned by the simulate
// endpoint. The node renders u64 fields as JSON strings.
type SimulationResult struct {
	Success      bool   `json:"success"`
	VMStatus     string `json:"vm_status"`
	GasUsed      string `json:"gas_used"`
	GasUnitPrice string `json:"gas_unit_price"`
	MaxGasAmount string `json:"max_gas_amount"`
}

// GasUsedUnits parses the gas_used field.
func (r SimulationResult) GasUsedUnits() (uint64, error) {
	return parseU64(r.GasUsed, "gas_used")
}

// MaxGasUnits parses the max_gas_amount field, the node's estimated gas
// ceiling when simulating with estimate_max_gas_amount=true.
func (r SimulationResult) MaxGasUnits() (uint64, error) {
	return parseU64(r.MaxGasAmount, "max_gas_amount")
}

// GasUnitPriceOctas parses the gas_unit_price field.
func (r SimulationResult) GasUnitPriceOctas() (uint64, error) {
	return parseU64(r.GasUnitPrice, "gas_unit_price")
}

func parseU64(str, field string) (uint64, error) {
	if str == "" {
		return 0, fmt.Errorf("node: simulation result missing %s", field)
	}
	v, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("node: parsing %s %q: %w", field, str, err)
	}
	return v, nil
}

// Event is one event emitted by a committed transaction. Data is kept raw
// because its shape depends on the event type.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Transaction is the by-hash view of a transaction. Success is nil while the
// transaction is still pending.
type Transaction struct {
	Type     string  `json:"type"`
	Hash     string  `json:"hash"`
	Success  *bool   `json:"success"`
	VMStatus string  `json:"vm_status"`
	Events   []Event `json:"events"`
}

const pendingTransactionType = "pending_transaction"

// Committed reports whether the node has executed the transaction.
func (t *Transaction) Committed() bool {
	return t.Type != "" && t.Type != pendingTransactionType
}

// SubmitResponse is the acknowledgement for POST /transactions.
type SubmitResponse struct {
	Hash string `json:"hash"`
}
