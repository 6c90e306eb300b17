package node

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/maxatome/go-testdeep/td"
)

func TestEstimateGasPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		td.Cmp(t, r.URL.Path, "/estimate_gas_price")
		td.Cmp(t, r.Header.Get("x-api-key"), "secret")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]uint64{"gas_estimate": 150})
	}))
	defer server.Close()

	client := New(Config{BaseUrl: server.URL, APIKey: "secret"})
	estimate, err := client.EstimateGasPrice(context.Background())
	td.CmpNoError(t, err)
	td.Cmp(t, estimate.GasEstimate, uint64(150))
}

func TestSimulateTransaction(t *testing.T) {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		td.Cmp(t, r.URL.Path, "/transactions/simulate")
		td.Cmp(t, r.URL.Query().Get("estimate_max_gas_amount"), "true")
		td.Cmp(t, r.URL.Query().Get("estimate_gas_unit_price"), "true")
		td.Cmp(t, r.Header.Get("Content-Type"), "application/x.aptos.signed_transaction+bcs")
		body, _ := io.ReadAll(r.Body)
		td.Cmp(t, body, payload)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]any{{
			"success":        true,
			"vm_status":      "Executed successfully",
			"gas_used":       "48000",
			"max_gas_amount": "60000",
			"gas_unit_price": "5",
		}})
	}))
	defer server.Close()

	client := New(Config{BaseUrl: server.URL})
	result, err := client.SimulateTransaction(context.Background(), payload)
	td.CmpNoError(t, err)
	td.CmpTrue(t, result.Success)

	gasUsed, err := result.GasUsedUnits()
	td.CmpNoError(t, err)
	td.Cmp(t, gasUsed, uint64(48000))
	simGas, err := result.MaxGasUnits()
	td.CmpNoError(t, err)
	td.Cmp(t, simGas, uint64(60000))
	price, err := result.GasUnitPriceOctas()
	td.CmpNoError(t, err)
	td.Cmp(t, price, uint64(5))
}

func TestSimulateTransactionEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := New(Config{BaseUrl: server.URL})
	_, err := client.SimulateTransaction(context.Background(), []byte{1})
	td.CmpError(t, err)
}

func TestSubmitTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		td.Cmp(t, r.URL.Path, "/transactions")
		td.Cmp(t, r.Header.Get("Content-Type"), "application/x.aptos.signed_transaction+bcs")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"hash": "0xabc"})
	}))
	defer server.Close()

	client := New(Config{BaseUrl: server.URL})
	hash, err := client.SubmitTransaction(context.Background(), []byte{1, 2})
	td.CmpNoError(t, err)
	td.Cmp(t, hash, "0xabc")
}

func TestSubmitTransactionClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"message":    "Invalid transaction: SEQUENCE_NUMBER_TOO_OLD",
			"error_code": "vm_error",
		})
	}))
	defer server.Close()

	client := New(Config{BaseUrl: server.URL})
	_, err := client.SubmitTransaction(context.Background(), []byte{1})

	var clientErr *ClientError
	td.CmpTrue(t, errors.As(err, &clientErr))
	td.Cmp(t, clientErr.StatusCode, int64(http.StatusBadRequest))
	td.Cmp(t, clientErr.ErrorCode, "vm_error")
}

func TestTransactionByHashNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"transaction not found"}`))
	}))
	defer server.Close()

	client := New(Config{BaseUrl: server.URL})
	txn, err := client.TransactionByHash(context.Background(), "0xabc")
	td.CmpNoError(t, err)
	td.CmpFalse(t, txn.Committed())
}

func TestWaitForTransactionCommits(t *testing.T) {
	var polls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		td.Cmp(t, r.URL.Path, "/transactions/by_hash/0xabc")
		w.Header().Set("Content-Type", "application/json")
		if polls.Add(1) == 1 {
			json.NewEncoder(w).Encode(map[string]any{"type": "pending_transaction", "hash": "0xabc"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"type":      "user_transaction",
			"hash":      "0xabc",
			"success":   true,
			"vm_status": "Executed successfully",
		})
	}))
	defer server.Close()

	client := New(Config{BaseUrl: server.URL})
	txn, err := client.WaitForTransaction(context.Background(), "0xabc")
	td.CmpNoError(t, err)
	td.CmpTrue(t, txn.Committed())
	td.CmpTrue(t, polls.Load() >= 2)
}

func TestWaitForTransactionAborted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"type":      "user_transaction",
			"hash":      "0xdef",
			"success":   false,
			"vm_status": "Move abort: insufficient margin",
		})
	}))
	defer server.Close()

	client := New(Config{BaseUrl: server.URL})
	txn, err := client.WaitForTransaction(context.Background(), "0xdef")

	var failed *FailedError
	td.CmpTrue(t, errors.As(err, &failed))
	td.Cmp(t, failed.VMStatus, "Move abort: insufficient margin")
	td.CmpNotNil(t, txn)
}

func TestWaitForTransactionContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"type": "pending_transaction", "hash": "0xabc"})
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := New(Config{BaseUrl: server.URL})
	_, err := client.WaitForTransaction(ctx, "0xabc")
	td.CmpErrorIs(t, err, context.Canceled)
}
