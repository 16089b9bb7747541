package message

import (
	"bytes"
	"encoding/json"
	"testing"

	hcrypto "github.com/bfix/hyperborea/crypto"
)

func allEncodings() []Encoding {
	var out []Encoding
	for _, text := range []hcrypto.TextEncoding{hcrypto.TextBase64, hcrypto.TextBase58} {
		for _, comp := range []hcrypto.Compression{hcrypto.CompressionNone, hcrypto.CompressionDeflate, hcrypto.CompressionBrotli} {
			for _, enc := range []hcrypto.Encryption{hcrypto.EncryptionNone, hcrypto.EncryptionChaCha20Poly1305, hcrypto.EncryptionAES256GCM} {
				out = append(out, Encoding{Text: text, Compression: comp, Encryption: enc})
			}
		}
	}
	return out
}

// Create(sender_sk, receiver_pk, plaintext, enc).Read(receiver_sk, sender_pk)
// must reproduce plaintext for every encoding triple.
func TestCreateReadRoundTrip(t *testing.T) {
	senderPK, senderSK, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	receiverPK, receiverSK, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	plaintext := []byte("this message must survive every encoding combination")
	_ = senderPK
	for _, enc := range allEncodings() {
		msg, err := Create(senderSK, receiverPK, plaintext, enc, 0)
		if err != nil {
			t.Fatalf("%s: create: %v", enc, err)
		}
		out, err := msg.Read(receiverSK, senderSK.Public())
		if err != nil {
			t.Fatalf("%s: read: %v", enc, err)
		}
		if !bytes.Equal(plaintext, out) {
			t.Fatalf("%s: plaintext mismatch after round trip", enc)
		}
	}
	_ = receiverSK
}

func TestReadRejectsTamperedSignature(t *testing.T) {
	senderPK, senderSK, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	_ = senderPK
	receiverPK, receiverSK, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	enc := Encoding{Text: hcrypto.TextBase64, Compression: hcrypto.CompressionNone, Encryption: hcrypto.EncryptionChaCha20Poly1305}
	msg, err := Create(senderSK, receiverPK, []byte("authentic"), enc, 0)
	if err != nil {
		t.Fatal(err)
	}
	other, _, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := msg.Read(receiverSK, other); err == nil {
		t.Fatal("expected signature verification to fail against the wrong sender key")
	}
}

func TestEncodingJSONRoundTrip(t *testing.T) {
	for _, enc := range allEncodings() {
		buf, err := json.Marshal(enc)
		if err != nil {
			t.Fatal(err)
		}
		var got Encoding
		if err := json.Unmarshal(buf, &got); err != nil {
			t.Fatal(err)
		}
		if got != enc {
			t.Fatalf("encoding mismatch: want %+v got %+v", enc, got)
		}
	}
}

func TestMessageJSONRoundTrip(t *testing.T) {
	senderPK, senderSK, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	_ = senderPK
	receiverPK, _, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	enc := Encoding{Text: hcrypto.TextBase64, Compression: hcrypto.CompressionDeflate, Encryption: hcrypto.EncryptionAES256GCM}
	msg, err := Create(senderSK, receiverPK, []byte("wire format check"), enc, 0)
	if err != nil {
		t.Fatal(err)
	}
	buf, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	var msg2 Message
	if err := json.Unmarshal(buf, &msg2); err != nil {
		t.Fatal(err)
	}
	if msg2.Content != msg.Content || msg2.Encoding != msg.Encoding {
		t.Fatal("message mismatch after JSON round trip")
	}
}
