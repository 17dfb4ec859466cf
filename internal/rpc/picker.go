package rpc

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNoHealthyRPC is returned when no healthy RPC endpoint is available.
var ErrNoHealthyRPC = errors.New("no healthy RPC endpoint available")

// Algorithm defines how an RPC endpoint is selected.
type Algorithm string

const (
	AlgorithmFastest    Algorithm = "fastest"
	AlgorithmRoundRobin Algorithm = "round-robin"
	AlgorithmFailover   Algorithm = "failover"

	// BSC produces a block every ~3s; a node further behind than this is
	// serving stale sale state.
	staleBlockThreshold = 3
	// Keep the fastest winner for this long before scoring again.
	cacheTTL = 5 * time.Minute
)

// ParseAlgorithm validates a configured algorithm name. Empty means fastest.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(s); a {
	case "":
		return AlgorithmFastest, nil
	case AlgorithmFastest, AlgorithmRoundRobin, AlgorithmFailover:
		return a, nil
	default:
		return "", fmt.Errorf("unknown RPC algorithm %q (want fastest, round-robin or failover)", s)
	}
}

// Endpoint is a benchmarked RPC endpoint.
type Endpoint struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Err         error
}

// Healthy reports whether the endpoint answered.
func (e Endpoint) Healthy() bool { return e.Err == nil }

// Picker selects an RPC endpoint according to its algorithm. A Picker is
// safe for concurrent use.
type Picker struct {
	algo Algorithm

	mu          sync.Mutex
	next        int
	cachedURL   string
	cacheExpiry time.Time
	now         func() time.Time
}

// NewPicker creates a Picker for algo.
func NewPicker(algo Algorithm) *Picker {
	return &Picker{algo: algo, now: time.Now}
}

// Pick chooses one endpoint from a benchmark run.
func (p *Picker) Pick(endpoints []Endpoint) (Endpoint, error) {
	live := fresh(endpoints)
	if len(live) == 0 {
		return Endpoint{}, ErrNoHealthyRPC
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.algo {
	case AlgorithmRoundRobin:
		e := live[p.next%len(live)]
		p.next = (p.next + 1) % len(live)
		return e, nil
	case AlgorithmFailover:
		// fresh keeps input order, so the first survivor is the highest priority.
		return live[0], nil
	default:
		return p.fastest(live), nil
	}
}

func (p *Picker) fastest(live []Endpoint) Endpoint {
	if p.cachedURL != "" && p.now().Before(p.cacheExpiry) {
		for _, e := range live {
			if e.URL == p.cachedURL {
				return e
			}
		}
	}

	best := live[0]
	for _, e := range live[1:] {
		if e.Latency < best.Latency {
			best = e
		}
	}
	p.cachedURL = best.URL
	p.cacheExpiry = p.now().Add(cacheTTL)
	return best
}

// fresh drops endpoints that failed or lag the highest block seen by more
// than staleBlockThreshold. Order is preserved.
func fresh(endpoints []Endpoint) []Endpoint {
	var head uint64
	for _, e := range endpoints {
		if e.Healthy() && e.BlockNumber > head {
			head = e.BlockNumber
		}
	}

	out := make([]Endpoint, 0, len(endpoints))
	for _, e := range endpoints {
		if !e.Healthy() {
			continue
		}
		if head-e.BlockNumber > staleBlockThreshold {
			continue
		}
		out = append(out, e)
	}
	return out
}
