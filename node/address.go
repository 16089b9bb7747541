// Package node holds the overlay's identity and addressing data model:
// client/server records, the Sender pairing, the URI scheme, and the
// versioned on-disk secret-key blob.
package node

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// URI scheme grounded on original_source/src/address.rs; String()/Equals()
// naming grounded on bfix-gospel/network/p2p/routing.go's Address type.
//----------------------------------------------------------------------

import (
	"strings"

	hcrypto "github.com/bfix/hyperborea/crypto"
	herrors "github.com/bfix/hyperborea/errors"
)

// ClientType is a client's capability tag.
type ClientType int

const (
	// Thin clients are transient (a type filter of Thin matches anything).
	Thin ClientType = iota
	// Thick clients are persistent.
	Thick
	// Server clients are relay nodes acting as clients elsewhere.
	Server
	// File clients are archival.
	File
)

// String returns the lower-case scheme alias for the client type.
func (t ClientType) String() string {
	switch t {
	case Thin:
		return "thin"
	case Thick:
		return "thick"
	case Server:
		return "server"
	case File:
		return "file"
	default:
		return "thin"
	}
}

// Matches implements a lookup's type filter: Thin in the request matches
// any record; otherwise the types must be equal.
func (want ClientType) Matches(have ClientType) bool {
	if want == Thin {
		return true
	}
	return want == have
}

// MarshalJSON renders the client type as its lower-case scheme alias.
func (t ClientType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON parses the lower-case scheme alias.
func (t *ClientType) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	ct, ok := parseClientType(s)
	if !ok {
		return herrors.New(herrors.ErrAsJSON, "unknown client type %q", s)
	}
	*t = ct
	return nil
}

func parseClientType(s string) (ClientType, bool) {
	switch strings.ToLower(s) {
	case "", "thin":
		return Thin, true
	case "thick":
		return Thick, true
	case "server":
		return Server, true
	case "file":
		return File, true
	default:
		return 0, false
	}
}

// Address is an overlay node's URI-level location as parsed from a
// user-facing hyperborea:// address.
type Address struct {
	// Hyperborea is non-nil for hyperborea://, hyp:// and qualified forms.
	Hyperborea *HyperboreaAddr
	// HTTP is non-empty for http:// and https:// addresses, holding
	// everything after the "scheme://" prefix.
	HTTP string
	// HTTPScheme is "http" or "https", set alongside HTTP.
	HTTPScheme string
	// Raw holds any address whose scheme was not recognized.
	Raw string
}

// HyperboreaAddr is a parsed hyperborea://<pk>[:type] address.
type HyperboreaAddr struct {
	PublicKey  *hcrypto.PublicKey
	ClientType ClientType
}

// ParseAddress parses a user-facing address against the supported scheme
// table: hyperborea://<pk>, hyperborea-{client|server|file}://<pk>,
// hyp[-client|-server|-file]://<pk>, hyperborea://<type>:<pk>,
// http(s):// passed through unchanged, and anything else as Raw.
func ParseAddress(s string) (*Address, error) {
	scheme, rest, hasScheme := strings.Cut(s, "://")
	if !hasScheme {
		return &Address{Raw: s}, nil
	}
	lower := strings.ToLower(scheme)
	switch {
	case lower == "http" || lower == "https":
		return &Address{HTTP: rest, HTTPScheme: lower}, nil
	case isHyperboreaScheme(lower):
		ct, err := schemeClientType(lower, rest)
		if err != nil {
			return nil, err
		}
		pkPart := rest
		if idx := strings.Index(rest, ":"); idx >= 0 && schemeQualifiesType(lower) {
			typeLabel, tail, ok := strings.Cut(rest, ":")
			if ok {
				if parsed, ok := parseClientType(typeLabel); ok {
					ct = parsed
					pkPart = tail
				}
			}
		}
		pub, err := hcrypto.NewPublicKeyFromBase64(pkPart)
		if err != nil {
			return nil, herrors.New(herrors.ErrAsJSON, "address public key: %v", err)
		}
		return &Address{Hyperborea: &HyperboreaAddr{PublicKey: pub, ClientType: ct}}, nil
	default:
		return &Address{Raw: s}, nil
	}
}

func isHyperboreaScheme(lower string) bool {
	switch lower {
	case "hyperborea", "hyperborea-client", "hyperborea-server", "hyperborea-file",
		"hyp", "hyp-client", "hyp-server", "hyp-file":
		return true
	default:
		return false
	}
}

// schemeQualifiesType reports whether the scheme is the bare "hyperborea"
// or "hyp" alias, which additionally allows the "<type>:<pk>" qualified
// form.
func schemeQualifiesType(lower string) bool {
	return lower == "hyperborea" || lower == "hyp"
}

func schemeClientType(lower, rest string) (ClientType, error) {
	switch lower {
	case "hyperborea-client", "hyp-client", "hyperborea", "hyp":
		return Thin, nil
	case "hyperborea-server", "hyp-server":
		return Server, nil
	case "hyperborea-file", "hyp-file":
		return File, nil
	default:
		return Thin, nil
	}
}

// String renders the address back to its canonical hyperborea:// form (or
// passes through the HTTP/Raw value unchanged).
func (a *Address) String() string {
	switch {
	case a.Hyperborea != nil:
		return "hyperborea://" + a.Hyperborea.ClientType.String() + ":" + a.Hyperborea.PublicKey.Base64()
	case a.HTTP != "":
		return a.HTTPScheme + "://" + a.HTTP
	default:
		return a.Raw
	}
}
