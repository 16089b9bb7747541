// Package message implements the overlay's authenticated, optionally
// compressed and encrypted payload: sign, compress, seal, text-encode on
// the way out; decode, open, decompress, verify on the way back in.
package message

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// Pipeline shape (sign-then-seal, verify-after-open) grounded on
// bfix-gospel/network/p2p/packet.go's NewPacketFromData/Unwrap.
//----------------------------------------------------------------------

import (
	"fmt"
	"strings"

	hcrypto "github.com/bfix/hyperborea/crypto"
	herrors "github.com/bfix/hyperborea/errors"
)

// Encoding is the (text_encoding, compression, encryption) triple attached
// to every Message.
type Encoding struct {
	Text        hcrypto.TextEncoding
	Compression hcrypto.Compression
	Encryption  hcrypto.Encryption
}

// String renders the compact descriptor, e.g.
// "base64/deflate/chacha20-poly1305".
func (e Encoding) String() string {
	return strings.Join([]string{textName(e.Text), compressionName(e.Compression), encryptionName(e.Encryption)}, "/")
}

// MarshalJSON renders the encoding as its compact descriptor string.
func (e Encoding) MarshalJSON() ([]byte, error) {
	return []byte(`"` + e.String() + `"`), nil
}

// UnmarshalJSON parses the compact descriptor string.
func (e *Encoding) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return herrors.New(herrors.ErrAsJSON, "malformed encoding descriptor %q", s)
	}
	text, err := parseText(parts[0])
	if err != nil {
		return err
	}
	comp, err := parseCompression(parts[1])
	if err != nil {
		return err
	}
	enc, err := parseEncryption(parts[2])
	if err != nil {
		return err
	}
	*e = Encoding{Text: text, Compression: comp, Encryption: enc}
	return nil
}

func textName(t hcrypto.TextEncoding) string {
	switch t {
	case hcrypto.TextBase64:
		return "base64"
	case hcrypto.TextBase58:
		return "base58"
	default:
		return fmt.Sprintf("text-%d", t)
	}
}

func parseText(s string) (hcrypto.TextEncoding, error) {
	switch s {
	case "base64":
		return hcrypto.TextBase64, nil
	case "base58":
		return hcrypto.TextBase58, nil
	default:
		return 0, herrors.New(herrors.ErrAsJSON, "unknown text encoding %q", s)
	}
}

func compressionName(c hcrypto.Compression) string {
	switch c {
	case hcrypto.CompressionNone:
		return "none"
	case hcrypto.CompressionDeflate:
		return "deflate"
	case hcrypto.CompressionBrotli:
		return "brotli"
	default:
		return fmt.Sprintf("compression-%d", c)
	}
}

func parseCompression(s string) (hcrypto.Compression, error) {
	switch s {
	case "none":
		return hcrypto.CompressionNone, nil
	case "deflate":
		return hcrypto.CompressionDeflate, nil
	case "brotli":
		return hcrypto.CompressionBrotli, nil
	default:
		return 0, herrors.New(herrors.ErrAsJSON, "unknown compression %q", s)
	}
}

func encryptionName(e hcrypto.Encryption) string {
	switch e {
	case hcrypto.EncryptionNone:
		return "none"
	case hcrypto.EncryptionChaCha20Poly1305:
		return "chacha20-poly1305"
	case hcrypto.EncryptionAES256GCM:
		return "aes256-gcm"
	default:
		return fmt.Sprintf("encryption-%d", e)
	}
}

func parseEncryption(s string) (hcrypto.Encryption, error) {
	switch s {
	case "none":
		return hcrypto.EncryptionNone, nil
	case "chacha20-poly1305":
		return hcrypto.EncryptionChaCha20Poly1305, nil
	case "aes256-gcm":
		return hcrypto.EncryptionAES256GCM, nil
	default:
		return 0, herrors.New(herrors.ErrAsJSON, "unknown encryption %q", s)
	}
}

// Message is the overlay's authenticated payload: content is the
// serialized, optionally compressed, optionally sealed payload; sign is the
// sender's signature over the original plaintext.
type Message struct {
	Content  string             `json:"content"`
	Sign     *hcrypto.Signature `json:"sign"`
	Encoding Encoding           `json:"encoding"`
}

// Create builds a Message: sign the plaintext, compress, seal under an
// ECDH-derived key, then text-encode.
func Create(senderSK *hcrypto.SecretKey, receiverPK *hcrypto.PublicKey, plaintext []byte, enc Encoding, compressionLevel int) (*Message, error) {
	sig, err := senderSK.Sign(plaintext)
	if err != nil {
		return nil, err
	}
	payload := plaintext
	if enc.Compression != hcrypto.CompressionNone {
		payload, err = hcrypto.Compress(enc.Compression, payload, compressionLevel)
		if err != nil {
			return nil, err
		}
	}
	if enc.Encryption != hcrypto.EncryptionNone {
		secret := hcrypto.SharedSecret(senderSK, receiverPK)
		payload, err = hcrypto.Seal(enc.Encryption, secret, payload)
		if err != nil {
			return nil, err
		}
	}
	content, err := hcrypto.EncodeText(enc.Text, payload)
	if err != nil {
		return nil, err
	}
	return &Message{Content: content, Sign: sig, Encoding: enc}, nil
}

// Read reverses Create: decode, decrypt with the ECDH key derived from the
// receiver's secret and the sender's public key, decompress, then verify
// sign against the recovered plaintext and senderPK.
func (m *Message) Read(receiverSK *hcrypto.SecretKey, senderPK *hcrypto.PublicKey) ([]byte, error) {
	payload, err := hcrypto.DecodeText(m.Encoding.Text, m.Content)
	if err != nil {
		return nil, err
	}
	if m.Encoding.Encryption != hcrypto.EncryptionNone {
		secret := hcrypto.SharedSecret(receiverSK, senderPK)
		payload, err = hcrypto.Open(m.Encoding.Encryption, secret, payload)
		if err != nil {
			return nil, err
		}
	}
	if m.Encoding.Compression != hcrypto.CompressionNone {
		payload, err = hcrypto.Decompress(m.Encoding.Compression, payload)
		if err != nil {
			return nil, err
		}
	}
	if !senderPK.Verify(payload, m.Sign) {
		return nil, herrors.New(herrors.ErrCryptography, "message signature does not verify")
	}
	return payload, nil
}
