package traversal

import (
	"context"
	"testing"

	hcrypto "github.com/bfix/hyperborea/crypto"
	"github.com/bfix/hyperborea/node"
	"github.com/bfix/hyperborea/router"
)

// fakeClient answers Lookup from a canned per-server script.
type fakeClient struct {
	answers map[string]*router.LookupResult
	calls   []string
}

func (f *fakeClient) Lookup(_ context.Context, server *node.ServerRecord, pk string, t node.ClientType) (*router.LookupResult, error) {
	key := server.PublicKey.Base64()
	f.calls = append(f.calls, key)
	res, ok := f.answers[key]
	if !ok {
		return &router.LookupResult{Kind: router.LookupHint}, nil
	}
	return res, nil
}

func newServer(t *testing.T) (*node.ServerRecord, *hcrypto.PublicKey) {
	t.Helper()
	pk, _, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	return node.NewServerRecord(pk, "https://relay.example"), pk
}

func TestWalkLocalHit(t *testing.T) {
	r := router.NewInMemory()
	sk, targetPK := mustKeypair(t)
	client, err := node.NewClient(sk, mustPK(t), node.ClientInfo{ClientType: node.Thick})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.IndexLocalClient(client); err != nil {
		t.Fatal(err)
	}

	w := NewWalker(r, &fakeClient{})
	res, err := w.Walk(context.Background(), targetPK.Base64(), node.Thin)
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != router.LookupLocal {
		t.Fatalf("want LookupLocal, got %v", res.Kind)
	}
}

func TestWalkMultiHopResolution(t *testing.T) {
	r := router.NewInMemory()
	s1, _ := newServer(t)
	s2, _ := newServer(t)
	if err := r.IndexServer(s1); err != nil {
		t.Fatal(err)
	}

	sk, targetPK := mustKeypair(t)
	remoteClient, err := node.NewClient(sk, s2.PublicKey, node.ClientInfo{ClientType: node.Thick})
	if err != nil {
		t.Fatal(err)
	}

	// s1 (the only locally known server) points at s2, which knows the client.
	fc := &fakeClient{answers: map[string]*router.LookupResult{
		s1.PublicKey.Base64(): {Kind: router.LookupHint, Servers: []*node.ServerRecord{s2}},
		s2.PublicKey.Base64(): {Kind: router.LookupRemote, Client: remoteClient, Server: s2},
	}}

	w := NewWalker(r, fc)
	res, err := w.Walk(context.Background(), targetPK.Base64(), node.Thin)
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != router.LookupRemote {
		t.Fatalf("want LookupRemote, got %v", res.Kind)
	}
	if len(fc.calls) != 2 {
		t.Fatalf("want exactly two hops, got %d", len(fc.calls))
	}

	// second walk for the same key should be served from cache: no new hops.
	if _, err := w.Walk(context.Background(), targetPK.Base64(), node.Thin); err != nil {
		t.Fatal(err)
	}
	if len(fc.calls) != 2 {
		t.Fatalf("want cached result to avoid further hops, got %d calls", len(fc.calls))
	}
}

func TestWalkExhaustionNotFound(t *testing.T) {
	r := router.NewInMemory()
	s1, _ := newServer(t)
	if err := r.IndexServer(s1); err != nil {
		t.Fatal(err)
	}
	_, targetPK := mustKeypair(t)

	w := NewWalker(r, &fakeClient{}, WithCacheTTL(0))
	_, err := w.Walk(context.Background(), targetPK.Base64(), node.Thin)
	if err == nil {
		t.Fatal("expected not-found error when hint graph is exhausted")
	}
}

func TestWalkHopBudgetStopsLoop(t *testing.T) {
	r := router.NewInMemory()
	s1, _ := newServer(t)
	s2, _ := newServer(t)
	if err := r.IndexServer(s1); err != nil {
		t.Fatal(err)
	}
	if err := r.IndexServer(s2); err != nil {
		t.Fatal(err)
	}

	// each server only ever points back at the other. With a budget of one
	// hop the walk stops after the first server, before the visited set
	// would have ended it after the second.
	fc := &fakeClient{answers: map[string]*router.LookupResult{
		s1.PublicKey.Base64(): {Kind: router.LookupHint, Servers: []*node.ServerRecord{s2}},
		s2.PublicKey.Base64(): {Kind: router.LookupHint, Servers: []*node.ServerRecord{s1}},
	}}

	_, targetPK := mustKeypair(t)
	w := NewWalker(r, fc, WithHopBudget(1), WithCacheTTL(0))
	_, err := w.Walk(context.Background(), targetPK.Base64(), node.Thin)
	if err == nil {
		t.Fatal("expected hop-budget exhaustion error")
	}
	if len(fc.calls) > 1 {
		t.Fatalf("walker exceeded its hop budget: %d calls", len(fc.calls))
	}
}

func mustKeypair(t *testing.T) (*hcrypto.SecretKey, *hcrypto.PublicKey) {
	t.Helper()
	pk, sk, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	return sk, pk
}

func mustPK(t *testing.T) *hcrypto.PublicKey {
	t.Helper()
	pk, _, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	return pk
}
