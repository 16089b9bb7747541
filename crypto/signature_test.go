package crypto

import "testing"

func TestSignVerify(t *testing.T) {
	pub, sk, err := NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	msg := []byte("hello overlay")
	sig, err := sk.Sign(msg)
	if err != nil {
		t.Fatal(err)
	}
	if !pub.Verify(msg, sig) {
		t.Fatal("signature failed to verify")
	}
	if pub.Verify([]byte("tampered"), sig) {
		t.Fatal("signature verified against the wrong message")
	}
}

func TestSignSeedVerifySeed(t *testing.T) {
	pub, sk, err := NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	seed := uint64(0xDEADBEEFCAFEBABE)
	sig, err := sk.SignSeed(seed)
	if err != nil {
		t.Fatal(err)
	}
	if !pub.VerifySeed(seed, sig) {
		t.Fatal("seed signature failed to verify")
	}
	if pub.VerifySeed(seed+1, sig) {
		t.Fatal("seed signature verified against the wrong seed")
	}
}

func TestSignatureBytesRoundTrip(t *testing.T) {
	pub, sk, err := NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	msg := []byte("round trip")
	sig, err := sk.Sign(msg)
	if err != nil {
		t.Fatal(err)
	}
	sig2, err := NewSignatureFromBytes(sig.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !pub.Verify(msg, sig2) {
		t.Fatal("decoded signature failed to verify")
	}
}
