// Package node provides core functions for
// network requests to fullnode REST API endpoints
package node

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samber/mo"
)

// Content type for BCS-encoded signed transaction bodies.
const signedTxnContentType = "application/x.aptos.signed_transaction+bcs"

const (
	defaultPollInterval = time.Second
	defaultWaitTimeout  = 30 * time.Second
)

type Client struct {
	baseUrl string
	apiKey  mo.Option[string]
	timeout mo.Option[time.Duration]
}

// ClientInterface defines the contract for fullnode API calls
type ClientInterface interface {
	EstimateGasPrice(ctx context.Context) (GasEstimate, error)
	SimulateTransaction(ctx context.Context, signedTxn []byte) (SimulationResult, error)
	SubmitTransaction(ctx context.Context, signedTxn []byte) (string, error)
	TransactionByHash(ctx context.Context, hash string) (*Transaction, error)
	WaitForTransaction(ctx context.Context, hash string) (*Transaction, error)
}

type Config struct {
	// BaseUrl is the fullnode REST API root, e.g.
	// "https://api.testnet.aptoslabs.com/v1"
	BaseUrl string
	// APIKey is sent as the x-api-key header when set
	APIKey string
	// Timeout is the timeout for network requests
	// If none is provided, no timeout will be enforced
	Timeout time.Duration
}

// New creates a new client instance with the
// provided configuration.
func New(c Config) *Client {
	var apiKey mo.Option[string]
	var timeout mo.Option[time.Duration]

	if c.APIKey != "" {
		apiKey = mo.Some(c.APIKey)
	}
	if c.Timeout != 0 {
		timeout = mo.Some(c.Timeout)
	}

	return &Client{
		baseUrl: c.BaseUrl,
		apiKey:  apiKey,
		timeout: timeout,
	}
}

func (c *Client) request(ctx context.Context) (*resty.Request, context.CancelFunc) {
	cancel := context.CancelFunc(func() {})
	if timeout, ok := c.timeout.Get(); ok {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}
	req := resty.New().R().SetContext(ctx)
	if key, ok := c.apiKey.Get(); ok {
		req.SetHeader("x-api-key", key)
	}
	return req, cancel
}

// EstimateGasPrice fetches the node's current gas unit price estimate.
func (c *Client) EstimateGasPrice(ctx context.Context) (GasEstimate, error) {
	var result GasEstimate
	req, cancel := c.request(ctx)
	defer cancel()

	resp, err := req.SetResult(&result).Get(c.baseUrl + "/estimate_gas_price")
	if err != nil {
		return GasEstimate{}, err
	}
	if err := handleException(resp); err != nil {
		return GasEstimate{}, err
	}
	return result, nil
}

// SimulateTransaction executes a zero-signature signed transaction against
// current state and returns the node's gas estimates for it.
func (c *Client) SimulateTransaction(ctx context.Context, signedTxn []byte) (SimulationResult, error) {
	var results []SimulationResult
	req, cancel := c.request(ctx)
	defer cancel()

	resp, err := req.
		SetHeader("Content-Type", signedTxnContentType).
		SetQueryParams(map[string]string{
			"estimate_max_gas_amount": "true",
			"estimate_gas_unit_price": "true",
		}).
		SetBody(signedTxn).
		SetResult(&results).
		Post(c.baseUrl + "/transactions/simulate")
	if err != nil {
		return SimulationResult{}, err
	}
	if err := handleException(resp); err != nil {
		return SimulationResult{}, err
	}
	if len(results) == 0 {
		return SimulationResult{}, fmt.Errorf("node: simulate returned no results")
	}
	return results[0], nil
}

// SubmitTransaction posts a signed transaction to the mempool and returns
// its hash.
func (c *Client) SubmitTransaction(ctx context.Context, signedTxn []byte) (string, error) {
	var result SubmitResponse
	req, cancel := c.request(ctx)
	defer cancel()

	resp, err := req.
		SetHeader("Content-Type", signedTxnContentType).
		SetBody(signedTxn).
		SetResult(&result).
		Post(c.baseUrl + "/transactions")
	if err != nil {
		return "", err
	}
	if err := handleException(resp); err != nil {
		return "", err
	}
	if result.Hash == "" {
		return "", fmt.Errorf("node: submit response missing hash")
	}
	return result.Hash, nil
}

// TransactionByHash looks up a transaction. A 404 means the node has not
// seen it yet and is not an error here; the returned transaction has an
// empty Type in that case.
func (c *Client) TransactionByHash(ctx context.Context, hash string) (*Transaction, error) {
	var result Transaction
	req, cancel := c.request(ctx)
	defer cancel()

	resp, err := req.SetResult(&result).Get(c.baseUrl + "/transactions/by_hash/" + hash)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == 404 {
		return &Transaction{Hash: hash}, nil
	}
	if err := handleException(resp); err != nil {
		return nil, err
	}
	return &result, nil
}

// TimeoutError is returned when a transaction did not commit within the
// wait window. The transaction may still land later.
type TimeoutError struct {
	Hash    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("transaction %s not committed within %s", e.Hash, e.Timeout)
}

// FailedError is returned when a transaction committed but its execution
// aborted.
type FailedError struct {
	Hash     string
	VMStatus string
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("transaction %s failed: %s", e.Hash, e.VMStatus)
}

// WaitForTransaction polls until the transaction commits, the wait window
// elapses, or ctx is done. A committed-but-aborted transaction is returned
// together with a *FailedError carrying its vm_status.
func (c *Client) WaitForTransaction(ctx context.Context, hash string) (*Transaction, error) {
	deadline := time.Now().Add(defaultWaitTimeout)
	ticker := time.NewTicker(defaultPollInterval)
	defer ticker.Stop()

	for {
		txn, err := c.TransactionByHash(ctx, hash)
		if err != nil {
			var serverErr *ServerError
			if !errors.As(err, &serverErr) {
				return nil, err
			}
			// transient node trouble, keep polling
		} else if txn.Committed() {
			if txn.Success != nil && !*txn.Success {
				return txn, &FailedError{Hash: hash, VMStatus: txn.VMStatus}
			}
			return txn, nil
		}

		if time.Now().After(deadline) {
			return nil, &TimeoutError{Hash: hash, Timeout: defaultWaitTimeout}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
