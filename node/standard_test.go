package node

import (
	"testing"

	hcrypto "github.com/bfix/hyperborea/crypto"
)

func TestStandardRoundTrip(t *testing.T) {
	_, sk, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	s := NewStandard(sk)
	s2, err := StandardFromBytes(s.ToBytes())
	if err != nil {
		t.Fatal(err)
	}
	if !s2.Secret.Public().Equals(sk.Public()) {
		t.Fatal("secret key mismatch after standard round trip")
	}
}

func TestStandardRejectsUnknownVersion(t *testing.T) {
	_, sk, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	blob := NewStandard(sk).ToBytes()
	blob[0] = 0x07
	if _, err := StandardFromBytes(blob); err == nil {
		t.Fatal("expected rejection of an unsupported standard version")
	}
}

func TestStandardRejectsEmptyBlob(t *testing.T) {
	if _, err := StandardFromBytes(nil); err == nil {
		t.Fatal("expected rejection of an empty blob")
	}
}
