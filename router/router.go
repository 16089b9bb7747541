// Package router implements the overlay's routing driver: a local-client
// index, a remote-client index, a server index, and lookup plus hint
// generation for cross-server traversal.
package router

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// Map-of-records-with-mutex layout grounded on
// bfix-gospel/network/p2p/routing.go's BucketList; XOR-distance hint
// ordering grounded on the same file's Address.Distance.
//----------------------------------------------------------------------

import (
	"bytes"
	"math/big"
	"sort"
	"sync"

	hcrypto "github.com/bfix/hyperborea/crypto"
	"github.com/bfix/hyperborea/node"
)

// Router is the routing driver interface. All operations may fail with an
// implementation-defined error.
type Router interface {
	IndexLocalClient(c *node.Client) error
	Disconnect(pk string) error
	LocalClients() []*node.Client

	IndexRemoteClient(c *node.Client, s *node.ServerRecord) error
	LookupLocalClient(pk string, t node.ClientType) (client *node.Client, available bool)
	LookupRemoteClient(pk string, t node.ClientType) (client *node.Client, server *node.ServerRecord, available bool)
	LookupRemoteClientHint(pk string, t node.ClientType, exclude map[string]bool) []*node.ServerRecord

	IndexServer(s *node.ServerRecord) error
	Servers() []*node.ServerRecord
}

type remoteEntry struct {
	client *node.Client
	server *node.ServerRecord
}

// InMemory is the reference Router implementation: three maps guarded by a
// shared mutex, so every operation is trivially linearizable per key.
type InMemory struct {
	mu sync.RWMutex

	local  map[string]*node.Client
	remote map[string]remoteEntry
	srv    map[string]*node.ServerRecord
}

// NewInMemory returns an empty router.
func NewInMemory() *InMemory {
	return &InMemory{
		local:  make(map[string]*node.Client),
		remote: make(map[string]remoteEntry),
		srv:    make(map[string]*node.ServerRecord),
	}
}

// IndexLocalClient upserts c into local_clients, removing any remote_clients
// entry for the same key.
func (r *InMemory) IndexLocalClient(c *node.Client) error {
	key := c.PublicKey.Base64()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.local[key] = c
	delete(r.remote, key)
	return nil
}

// Disconnect removes pk from local_clients. Idempotent.
func (r *InMemory) Disconnect(pk string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.local, pk)
	return nil
}

// LocalClients returns a snapshot of the local client records.
func (r *InMemory) LocalClients() []*node.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*node.Client, 0, len(r.local))
	for _, c := range r.local {
		out = append(out, c)
	}
	return out
}

// IndexRemoteClient upserts (c, s) into remote_clients; no-op if c's public
// key is currently a local client.
func (r *InMemory) IndexRemoteClient(c *node.Client, s *node.ServerRecord) error {
	key := c.PublicKey.Base64()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, isLocal := r.local[key]; isLocal {
		return nil
	}
	r.remote[key] = remoteEntry{client: c, server: s}
	return nil
}

// LookupLocalClient looks up pk in local_clients, reporting whether a
// record exists and its type matches t.
func (r *InMemory) LookupLocalClient(pk string, t node.ClientType) (*node.Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.local[pk]
	if !ok {
		return nil, false
	}
	return c, t.Matches(c.Info.ClientType)
}

// LookupRemoteClient looks up pk in remote_clients analogously.
func (r *InMemory) LookupRemoteClient(pk string, t node.ClientType) (*node.Client, *node.ServerRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.remote[pk]
	if !ok {
		return nil, nil, false
	}
	return e.client, e.server, t.Matches(e.client.Info.ClientType)
}

// LookupRemoteClientHint returns known servers ordered by XOR distance to
// target pk, minus any the caller has already queried. Ties break by
// bytewise comparison of server public-key bytes, keeping traversal output
// deterministic.
func (r *InMemory) LookupRemoteClientHint(pk string, t node.ClientType, exclude map[string]bool) []*node.ServerRecord {
	r.mu.RLock()
	candidates := make([]*node.ServerRecord, 0, len(r.srv))
	for key, s := range r.srv {
		if exclude != nil && exclude[key] {
			continue
		}
		candidates = append(candidates, s)
	}
	r.mu.RUnlock()

	targetPub, err := hcrypto.NewPublicKeyFromBase64(pk)
	if err != nil {
		return candidates
	}
	target := targetPub.Bytes()
	sort.Slice(candidates, func(i, j int) bool {
		di := xorDistance(candidates[i].PublicKey.Bytes(), target)
		dj := xorDistance(candidates[j].PublicKey.Bytes(), target)
		if cmp := di.Cmp(dj); cmp != 0 {
			return cmp < 0
		}
		return bytes.Compare(candidates[i].PublicKey.Bytes(), candidates[j].PublicKey.Bytes()) < 0
	})
	return candidates
}

// IndexServer upserts s into the server index.
func (r *InMemory) IndexServer(s *node.ServerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.srv[s.PublicKey.Base64()] = s
	return nil
}

// Servers returns a snapshot of known peer servers.
func (r *InMemory) Servers() []*node.ServerRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*node.ServerRecord, 0, len(r.srv))
	for _, s := range r.srv {
		out = append(out, s)
	}
	return out
}

func xorDistance(a, b []byte) *big.Int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		var av, bv byte
		if i < len(a) {
			av = a[len(a)-1-i]
		}
		if i < len(b) {
			bv = b[len(b)-1-i]
		}
		out[n-1-i] = av ^ bv
	}
	return new(big.Int).SetBytes(out)
}
