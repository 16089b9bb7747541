package node

import (
	"testing"

	hcrypto "github.com/bfix/hyperborea/crypto"
)

func TestParseAddressScenarios(t *testing.T) {
	pub, _, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	pk := pub.Base64()

	cases := []struct {
		uri      string
		wantType ClientType
		wantKind string // "hyperborea", "http", "raw"
	}{
		{"hyperborea://" + pk, Thin, "hyperborea"},
		{"hyp-server://" + pk, Server, "hyperborea"},
		{"hyperborea://file:" + pk, File, "hyperborea"},
		{"http://example.org", 0, "http"},
		{"example.org", 0, "raw"},
	}
	for _, c := range cases {
		addr, err := ParseAddress(c.uri)
		if err != nil {
			t.Fatalf("%s: %v", c.uri, err)
		}
		switch c.wantKind {
		case "hyperborea":
			if addr.Hyperborea == nil {
				t.Fatalf("%s: expected a hyperborea address", c.uri)
			}
			if addr.Hyperborea.ClientType != c.wantType {
				t.Fatalf("%s: want type %v, got %v", c.uri, c.wantType, addr.Hyperborea.ClientType)
			}
			if !addr.Hyperborea.PublicKey.Equals(pub) {
				t.Fatalf("%s: public key mismatch", c.uri)
			}
		case "http":
			if addr.HTTP != "example.org" {
				t.Fatalf("%s: want http %q, got %q", c.uri, "example.org", addr.HTTP)
			}
		case "raw":
			if addr.Raw != "example.org" {
				t.Fatalf("%s: want raw %q, got %q", c.uri, "example.org", addr.Raw)
			}
		}
	}
}

func TestClientTypeMatches(t *testing.T) {
	if !Thin.Matches(Server) {
		t.Fatal("a Thin filter should match any record")
	}
	if Server.Matches(Thin) {
		t.Fatal("a non-Thin filter should require an exact type match")
	}
	if !Server.Matches(Server) {
		t.Fatal("identical types should match")
	}
}
