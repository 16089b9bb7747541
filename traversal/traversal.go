// Package traversal implements the federated lookup walk: recursive
// `lookup` calls across the server hint graph, loop avoidance via a
// visited set, a bounded hop budget, and a TTL cache for repeat queries.
package traversal

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// Walk structure (visited bloom/set, alpha-bounded fanout per round,
// per-hop timeout, absorb-and-continue on error) grounded on
// bfix-gospel/network/p2p/srv_lookup.go's LookupService.Lookup, adapted
// from bloom-filtered iterative-deepening to a sequential hint-ordered
// cascade. TTL cache grounded on the same package's routing table
// eviction pattern.
//----------------------------------------------------------------------

import (
	"context"
	"sync"
	"time"

	herrors "github.com/bfix/hyperborea/errors"
	"github.com/bfix/hyperborea/node"
	"github.com/bfix/hyperborea/router"
)

// DefaultHopBudget bounds the number of peer servers a single Walk may
// consult.
const DefaultHopBudget = 8

// DefaultCacheTTL bounds how long a successful resolution is memoized.
const DefaultCacheTTL = 5 * time.Minute

// DefaultHopTimeout bounds a single outbound lookup call.
const DefaultHopTimeout = 3 * time.Second

// LookupClient is the client-side envelope machinery the walker drives
// against a peer server's HTTP endpoint. Implemented by the transport
// package; kept as an interface here so traversal has no transport
// dependency.
type LookupClient interface {
	Lookup(ctx context.Context, server *node.ServerRecord, pk string, t node.ClientType) (*router.LookupResult, error)
}

type cacheEntry struct {
	result *router.LookupResult
	expiry time.Time
}

func cacheKey(pk string, t node.ClientType) string {
	return t.String() + ":" + pk
}

// Walker resolves (public_key, client_type) pairs by first consulting the
// local router, then walking the federated hint graph.
type Walker struct {
	router     router.Router
	client     LookupClient
	hopBudget  int
	hopTimeout time.Duration
	ttl        time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// Option configures a Walker.
type Option func(*Walker)

// WithHopBudget overrides DefaultHopBudget.
func WithHopBudget(n int) Option { return func(w *Walker) { w.hopBudget = n } }

// WithHopTimeout overrides DefaultHopTimeout.
func WithHopTimeout(d time.Duration) Option { return func(w *Walker) { w.hopTimeout = d } }

// WithCacheTTL overrides DefaultCacheTTL. A non-positive value disables caching.
func WithCacheTTL(d time.Duration) Option { return func(w *Walker) { w.ttl = d } }

// NewWalker returns a Walker over r, dispatching cross-server hops via client.
func NewWalker(r router.Router, client LookupClient, opts ...Option) *Walker {
	w := &Walker{
		router:     r,
		client:     client,
		hopBudget:  DefaultHopBudget,
		hopTimeout: DefaultHopTimeout,
		ttl:        DefaultCacheTTL,
		cache:      make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Walk resolves pk/t: a local-router hit returns immediately; otherwise the
// hint graph is walked server by server, in XOR-distance order, until a
// Local or Remote hit is found, the hint is exhausted, or the hop budget
// runs out. Per-hop errors are absorbed and the next candidate is tried;
// only exhaustion is surfaced to the caller.
func (w *Walker) Walk(ctx context.Context, pk string, t node.ClientType) (*router.LookupResult, error) {
	if cached, ok := w.fromCache(pk, t); ok {
		return cached, nil
	}

	visited := make(map[string]bool)
	result := router.Resolve(w.router, pk, t, visited)
	if result.Kind != router.LookupHint {
		w.store(pk, t, result)
		return result, nil
	}

	pending := result.Servers
	hops := 0
	for hops < w.hopBudget {
		if len(pending) == 0 {
			return nil, herrors.New(herrors.ErrNotFound, "hint graph exhausted for %.8s after %d hops", pk, hops)
		}
		server := pending[0]
		pending = pending[1:]

		key := server.PublicKey.Base64()
		if visited[key] {
			continue
		}
		visited[key] = true
		hops++

		hopCtx, cancel := context.WithTimeout(ctx, w.hopTimeout)
		next, err := w.client.Lookup(hopCtx, server, pk, t)
		cancel()
		if err != nil {
			continue
		}

		switch next.Kind {
		case router.LookupLocal, router.LookupRemote:
			w.store(pk, t, next)
			return next, nil
		case router.LookupHint:
			for _, s := range next.Servers {
				if !visited[s.PublicKey.Base64()] {
					pending = append(pending, s)
				}
			}
		}
	}
	return nil, herrors.New(herrors.ErrNotFound, "hop budget (%d) exhausted for %.8s", w.hopBudget, pk)
}

func (w *Walker) fromCache(pk string, t node.ClientType) (*router.LookupResult, bool) {
	if w.ttl <= 0 {
		return nil, false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.cache[cacheKey(pk, t)]
	if !ok || time.Now().After(e.expiry) {
		return nil, false
	}
	return e.result, true
}

func (w *Walker) store(pk string, t node.ClientType, result *router.LookupResult) {
	if w.ttl <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cache[cacheKey(pk, t)] = cacheEntry{result: result, expiry: time.Now().Add(w.ttl)}
}
