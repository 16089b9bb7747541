package crypto

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// ChaCha20-Poly1305 sealing lifted from bfix-gospel/network/p2p/packet.go's
// nonce-prefixed-ciphertext convention (AGPL-3.0-or-later), Copyright (C)
// 2011-2023 Bernd Fix. AES-256-GCM added the same way using stdlib GCM.
//----------------------------------------------------------------------

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"

	"golang.org/x/crypto/chacha20poly1305"

	herrors "github.com/bfix/hyperborea/errors"
)

// Encryption names the message payload's supported AEAD schemes.
type Encryption int

const (
	// EncryptionNone leaves the payload unsealed.
	EncryptionNone Encryption = iota
	// EncryptionChaCha20Poly1305 seals with ChaCha20-Poly1305.
	EncryptionChaCha20Poly1305
	// EncryptionAES256GCM seals with AES-256-GCM.
	EncryptionAES256GCM
)

// Seal encrypts plaintext under a key derived from sharedSecret, prefixing
// the output with the nonce.
func Seal(enc Encryption, sharedSecret, plaintext []byte) ([]byte, error) {
	aead, err := newAEAD(enc, sharedSecret)
	if err != nil {
		return nil, err
	}
	if aead == nil {
		return plaintext, nil
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, herrors.New(herrors.ErrCryptography, "nonce generation: %v", err)
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal.
func Open(enc Encryption, sharedSecret, sealed []byte) ([]byte, error) {
	aead, err := newAEAD(enc, sharedSecret)
	if err != nil {
		return nil, err
	}
	if aead == nil {
		return sealed, nil
	}
	if len(sealed) < aead.NonceSize() {
		return nil, herrors.New(herrors.ErrCryptography, "sealed payload shorter than nonce")
	}
	nonce := sealed[:aead.NonceSize()]
	ct := sealed[aead.NonceSize():]
	pt, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, herrors.New(herrors.ErrCryptography, "aead open: %v", err)
	}
	return pt, nil
}

func newAEAD(enc Encryption, sharedSecret []byte) (cipher.AEAD, error) {
	switch enc {
	case EncryptionNone:
		return nil, nil
	case EncryptionChaCha20Poly1305:
		key := sha256.Sum256(sharedSecret) // ChaCha20Poly1305 wants exactly 32 bytes
		aead, err := chacha20poly1305.New(key[:])
		if err != nil {
			return nil, herrors.New(herrors.ErrCryptography, "chacha20poly1305 init: %v", err)
		}
		return aead, nil
	case EncryptionAES256GCM:
		key := sha256.Sum256(sharedSecret)
		block, err := aes.NewCipher(key[:])
		if err != nil {
			return nil, herrors.New(herrors.ErrCryptography, "aes init: %v", err)
		}
		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, herrors.New(herrors.ErrCryptography, "gcm init: %v", err)
		}
		return aead, nil
	default:
		return nil, herrors.New(herrors.ErrCryptography, "unknown encryption scheme %d", enc)
	}
}
