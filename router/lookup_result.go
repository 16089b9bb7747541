package router

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// Shared result shape for the lookup verb's resolution cascade, consumed
// by both the server driver and the traversal walker.
//----------------------------------------------------------------------

import (
	"github.com/bfix/hyperborea/node"

	herrors "github.com/bfix/hyperborea/errors"
)

// LookupKind tags which branch of the cascade produced a LookupResult.
type LookupKind int

const (
	// LookupLocal means lookup_local_client matched.
	LookupLocal LookupKind = iota
	// LookupRemote means lookup_remote_client matched.
	LookupRemote
	// LookupHint means neither matched locally; Servers carries the hint.
	LookupHint
)

// String renders the cascade branch name.
func (k LookupKind) String() string {
	switch k {
	case LookupLocal:
		return "Local"
	case LookupRemote:
		return "Remote"
	case LookupHint:
		return "Hint"
	default:
		return "Local"
	}
}

// MarshalJSON renders the kind as its cascade branch name.
func (k LookupKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// UnmarshalJSON parses the cascade branch name.
func (k *LookupKind) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"Local"`:
		*k = LookupLocal
	case `"Remote"`:
		*k = LookupRemote
	case `"Hint"`:
		*k = LookupHint
	default:
		return herrors.New(herrors.ErrAsJSON, "unknown lookup kind %s", data)
	}
	return nil
}

// LookupResult is the body of a successful `lookup` response.
type LookupResult struct {
	Kind    LookupKind
	Client  *node.Client         // set for LookupLocal and LookupRemote
	Server  *node.ServerRecord   // set for LookupRemote (the client's home server)
	Servers []*node.ServerRecord // set for LookupHint
}

// Resolve runs the lookup resolution cascade against r: a local-client
// hit, then a remote-client hit, and finally a hint list of candidate
// servers to try next.
func Resolve(r Router, pk string, t node.ClientType, exclude map[string]bool) *LookupResult {
	if c, available := r.LookupLocalClient(pk, t); available {
		return &LookupResult{Kind: LookupLocal, Client: c}
	}
	if c, s, available := r.LookupRemoteClient(pk, t); available {
		return &LookupResult{Kind: LookupRemote, Client: c, Server: s}
	}
	return &LookupResult{Kind: LookupHint, Servers: r.LookupRemoteClientHint(pk, t, exclude)}
}
