// Package gas maintains a cached gas unit price, refreshed in the
// background from the node's estimate endpoint.
package gas

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/samber/mo"
	"golang.org/x/sync/singleflight"

	"github.com/decibel-trade/go-decibel/node"
)

const (
	// safetyMultiplier is applied to the node's estimate so transactions
	// stay above the floor when the estimate moves between refreshes.
	safetyMultiplier = 2.0

	refreshInterval = 60 * time.Second
)

// PriceInfo is one cached estimate together with when it was fetched.
type PriceInfo struct {
	GasEstimate uint64
	FetchedAt   time.Time
}

// PriceSource caches the node's gas price estimate with a safety multiplier
// applied. Initialize starts a background refresh loop; Destroy stops it and
// waits for it to exit.
type PriceSource struct {
	client node.ClientInterface

	mu     sync.RWMutex
	cached mo.Option[PriceInfo]

	group singleflight.Group

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      sync.WaitGroup
}

// NewPriceSource creates a source reading estimates from the given node
// client. The loop does not start until Initialize.
func NewPriceSource(client node.ClientInterface) *PriceSource {
	return &PriceSource{
		client: client,
		stop:   make(chan struct{}),
	}
}

// Initialize fetches an initial estimate and starts the refresh loop. The
// loop is started at most once.
func (p *PriceSource) Initialize(ctx context.Context) error {
	if _, err := p.FetchAndSet(ctx); err != nil {
		return err
	}
	p.startOnce.Do(func() {
		p.done.Add(1)
		go p.refreshLoop()
	})
	return nil
}

// Destroy stops the refresh loop, blocks until it has exited and clears the
// cache, returning the source to its uninitialized state. Safe to call more
// than once and before Initialize.
func (p *PriceSource) Destroy() {
	p.stopOnce.Do(func() { close(p.stop) })
	p.done.Wait()
	p.mu.Lock()
	p.cached = mo.None[PriceInfo]()
	p.mu.Unlock()
}

func (p *PriceSource) refreshLoop() {
	defer p.done.Done()
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			if _, err := p.FetchAndSet(context.Background()); err != nil {
				log.Printf("gas price refresh failed: %v", err)
			}
		}
	}
}

// CachedPrice returns the cached estimate without touching the network.
func (p *PriceSource) CachedPrice() mo.Option[PriceInfo] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cached
}

// FetchAndSet fetches a fresh estimate and stores it. Concurrent calls are
// coalesced into a single network request.
func (p *PriceSource) FetchAndSet(ctx context.Context) (PriceInfo, error) {
	v, err, _ := p.group.Do("gas_price", func() (any, error) {
		estimate, err := p.client.EstimateGasPrice(ctx)
		if err != nil {
			return PriceInfo{}, fmt.Errorf("gas: fetching estimate: %w", err)
		}
		if estimate.GasEstimate == 0 {
			return PriceInfo{}, fmt.Errorf("gas: node returned a zero gas estimate")
		}
		info := PriceInfo{
			GasEstimate: uint64(float64(estimate.GasEstimate) * safetyMultiplier),
			FetchedAt:   time.Now(),
		}
		p.mu.Lock()
		p.cached = mo.Some(info)
		p.mu.Unlock()
		return info, nil
	})
	if err != nil {
		return PriceInfo{}, err
	}
	return v.(PriceInfo), nil
}

// Refresh triggers an asynchronous refresh. Errors are logged, not
// returned; the cached value keeps serving until a fetch succeeds.
func (p *PriceSource) Refresh() {
	go func() {
		if _, err := p.FetchAndSet(context.Background()); err != nil {
			log.Printf("gas price refresh failed: %v", err)
		}
	}()
}
