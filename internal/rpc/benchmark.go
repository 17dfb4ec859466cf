package rpc

import (
	"context"
	"time"

	"github.com/Mohsinsiddi/squadcli/internal/chain"
	"golang.org/x/sync/errgroup"
)

// maxParallelPings bounds concurrent benchmark requests.
const maxParallelPings = 8

// Benchmark pings every URL in parallel, each bounded by timeout, and returns
// one Endpoint per URL in input order. Individual failures are recorded on
// the Endpoint rather than returned.
func Benchmark(ctx context.Context, urls []string, timeout time.Duration) []Endpoint {
	results := make([]Endpoint, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelPings)
	for i, url := range urls {
		g.Go(func() error {
			pingCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			latency, block, err := chain.NewEVMClient(url).Ping(pingCtx)
			results[i] = Endpoint{URL: url, Latency: latency, BlockNumber: block, Err: err}
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors

	return results
}

// Select benchmarks urls and returns the one algo picks. A single URL is
// returned as-is without a network round trip.
func Select(ctx context.Context, urls []string, algo Algorithm, timeout time.Duration) (string, error) {
	switch len(urls) {
	case 0:
		return "", ErrNoHealthyRPC
	case 1:
		return urls[0], nil
	}

	winner, err := NewPicker(algo).Pick(Benchmark(ctx, urls, timeout))
	if err != nil {
		return "", err
	}
	return winner.URL, nil
}

// Dial selects an endpoint and returns a client bound to it.
func Dial(ctx context.Context, urls []string, algo Algorithm, timeout time.Duration) (*chain.EVMClient, error) {
	url, err := Select(ctx, urls, algo, timeout)
	if err != nil {
		return nil, err
	}
	return chain.NewEVMClient(url), nil
}
