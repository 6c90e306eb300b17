// Package feepay submits fee payer transactions through a sponsorship
// relay, which countersigns them and pays gas on the sender's behalf.
package feepay

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/decibel-trade/go-decibel/bcs"
	"github.com/decibel-trade/go-decibel/constants"
	"github.com/decibel-trade/go-decibel/txn"
)

// Default gas station endpoints for networks that run one.
const (
	testnetGasStationURL = "https://api.testnet.aptoslabs.com/gs/v1"
	netnaGasStationURL   = "https://api.netna.aptoslabs.com/gs/v1"
)

// PendingTransaction is the relay's acknowledgement. The transaction is in
// the mempool but not yet committed. Bearer gas stations return only the
// hash, so the envelope fields are echoed from the submitted transaction;
// legacy relays report all of them.
type PendingTransaction struct {
	Hash                    string `json:"hash"`
	Sender                  string `json:"sender"`
	SequenceNumber          string `json:"sequence_number"`
	MaxGasAmount            string `json:"max_gas_amount"`
	GasUnitPrice            string `json:"gas_unit_price"`
	ExpirationTimestampSecs string `json:"expiration_timestamp_secs"`
}

// Config selects and configures a relay. An API key selects the bearer gas
// station protocol; a bare URL selects the legacy relay protocol.
type Config struct {
	// URL of the relay. Optional with an API key on networks that have a
	// default gas station.
	URL string
	// APIKey authenticates against a bearer gas station.
	APIKey string
	// Network and ChainID pick the default gas station URL when none is
	// configured.
	Network constants.Network
	ChainID uint8
	// Timeout for relay requests. Zero means no timeout.
	Timeout time.Duration
}

// Relay submits signed fee payer transactions for sponsorship.
type Relay struct {
	url     string
	apiKey  string
	timeout time.Duration
}

// ErrNoRelay is wrapped by New when neither an API key nor a URL is
// configured.
var ErrNoRelay = fmt.Errorf("feepay: no relay configured: set a gas station API key or a relay URL")

// New resolves the relay configuration. With an API key but no URL, the
// network's default gas station is used; legacy relays always need an
// explicit URL.
func New(c Config) (*Relay, error) {
	if c.APIKey != "" {
		url := c.URL
		if url == "" {
			switch {
			case c.Network == constants.NetworkTestnet:
				url = testnetGasStationURL
			case c.ChainID == constants.CHAIN_ID_NETNA:
				url = netnaGasStationURL
			default:
				return nil, fmt.Errorf("feepay: no default gas station for network %q (chain %d), set a relay URL", c.Network, c.ChainID)
			}
		}
		return &Relay{url: url, apiKey: c.APIKey, timeout: c.Timeout}, nil
	}
	if c.URL != "" {
		return &Relay{url: c.URL, timeout: c.Timeout}, nil
	}
	return nil, ErrNoRelay
}

// Submit sends the transaction and the sender's signature to the relay and
// returns the pending transaction hash.
func (r *Relay) Submit(ctx context.Context, transaction txn.SimpleTransaction, senderAuth txn.AccountAuthenticator) (PendingTransaction, error) {
	if r.apiKey != "" {
		return r.submitBearer(ctx, transaction, senderAuth)
	}
	return r.submitLegacy(ctx, transaction, senderAuth)
}

// bearerResponse tolerates both hash field spellings seen across gas
// station versions.
type bearerResponse struct {
	TransactionHash string `json:"transactionHash"`
	Hash            string `json:"hash"`
}

func (r *Relay) submitBearer(ctx context.Context, transaction txn.SimpleTransaction, senderAuth txn.AccountAuthenticator) (PendingTransaction, error) {
	txnBytes, err := serializeForRelay(transaction)
	if err != nil {
		return PendingTransaction{}, err
	}

	var result bearerResponse
	req, cancel := r.request(ctx)
	defer cancel()

	resp, err := req.
		SetHeader("Authorization", "Bearer "+r.apiKey).
		SetBody(map[string]any{
			"transactionBytes": toIntArray(txnBytes),
			"senderAuth":       toIntArray(senderAuth.Serialize()),
		}).
		SetResult(&result).
		Post(r.url + "/api/transaction/signAndSubmit")
	if err != nil {
		return PendingTransaction{}, err
	}
	if resp.StatusCode() >= 400 {
		return PendingTransaction{}, fmt.Errorf("feepay: gas station rejected transaction (status %d): %s", resp.StatusCode(), resp.Body())
	}

	hash := result.TransactionHash
	if hash == "" {
		hash = result.Hash
	}
	if hash == "" {
		return PendingTransaction{}, fmt.Errorf("feepay: gas station response missing transaction hash")
	}
	return PendingTransaction{
		Hash:                    hash,
		Sender:                  transaction.Raw.Sender.String(),
		SequenceNumber:          strconv.FormatUint(transaction.Raw.SequenceNumber, 10),
		MaxGasAmount:            strconv.FormatUint(transaction.Raw.MaxGasAmount, 10),
		GasUnitPrice:            strconv.FormatUint(transaction.Raw.GasUnitPrice, 10),
		ExpirationTimestampSecs: strconv.FormatUint(transaction.Raw.ExpirationTimestampSecs, 10),
	}, nil
}

func (r *Relay) submitLegacy(ctx context.Context, transaction txn.SimpleTransaction, senderAuth txn.AccountAuthenticator) (PendingTransaction, error) {
	rawBytes, err := transaction.Raw.Serialize()
	if err != nil {
		return PendingTransaction{}, err
	}

	var result PendingTransaction
	req, cancel := r.request(ctx)
	defer cancel()

	resp, err := req.
		SetBody(map[string]any{
			"signature":   toIntArray(senderAuth.Serialize()),
			"transaction": toIntArray(rawBytes),
		}).
		SetResult(&result).
		Post(r.url + "/transactions")
	if err != nil {
		return PendingTransaction{}, err
	}
	if resp.StatusCode() >= 400 {
		return PendingTransaction{}, fmt.Errorf("feepay: relay rejected transaction (status %d): %s", resp.StatusCode(), resp.Body())
	}
	if result.Hash == "" {
		return PendingTransaction{}, fmt.Errorf("feepay: relay response missing transaction hash")
	}
	return result, nil
}

func (r *Relay) request(ctx context.Context) (*resty.Request, context.CancelFunc) {
	cancel := context.CancelFunc(func() {})
	if r.timeout != 0 {
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
	}
	return resty.New().R().SetContext(ctx).SetHeader("Content-Type", "application/json"), cancel
}

// serializeForRelay encodes the raw transaction followed by the fee payer
// marker, which the gas station replaces with its own payer.
func serializeForRelay(transaction txn.SimpleTransaction) ([]byte, error) {
	rawBytes, err := transaction.Raw.Serialize()
	if err != nil {
		return nil, err
	}
	s := &bcs.Serializer{}
	s.FixedBytes(rawBytes)
	if transaction.FeePayerAddress != nil {
		s.Bool(true)
		s.FixedBytes(transaction.FeePayerAddress.Bytes())
	} else {
		s.Bool(false)
	}
	return s.Output(), nil
}

// toIntArray renders bytes as a JSON array of numbers. Go marshals []byte
// to base64, which relays do not accept.
func toIntArray(b []byte) []int {
	out := make([]int, len(b))
	for i, v := range b {
		out[i] = int(v)
	}
	return out
}
