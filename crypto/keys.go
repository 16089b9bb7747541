// Package crypto implements the overlay's asymmetric keypairs, signatures,
// ECDH key agreement, AEAD sealing and the text/compression codecs used by
// the message layer. Keys live on secp256k1.
package crypto

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// Adapted from bfix-gospel/crypto/ed25519/keys.go (AGPL-3.0-or-later),
// Copyright (C) 2011-2023 Bernd Fix.
//----------------------------------------------------------------------

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	herrors "github.com/bfix/hyperborea/errors"
)

// PublicKey is a secp256k1 public key.
type PublicKey struct {
	pk *secp256k1.PublicKey
}

// SecretKey is a secp256k1 private key. Never transmitted.
type SecretKey struct {
	sk *secp256k1.PrivateKey
}

// NewKeypair generates a new random secret/public keypair.
func NewKeypair() (*PublicKey, *SecretKey, error) {
	sk, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, nil, herrors.New(herrors.ErrCryptography, "keypair generation: %v", err)
	}
	return &PublicKey{pk: sk.PubKey()}, &SecretKey{sk: sk}, nil
}

// NewPublicKeyFromBytes decodes a compressed SEC1 public key (33 bytes).
func NewPublicKeyFromBytes(data []byte) (*PublicKey, error) {
	pk, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return nil, herrors.New(herrors.ErrCryptography, "public key decode: %v", err)
	}
	return &PublicKey{pk: pk}, nil
}

// NewPublicKeyFromBase64 decodes a public key from its base64 Address form.
func NewPublicKeyFromBase64(s string) (*PublicKey, error) {
	buf, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, herrors.New(herrors.ErrCryptography, "base64 decode: %v", err)
	}
	return NewPublicKeyFromBytes(buf)
}

// NewSecretKeyFromBytes decodes a raw 32-byte secp256k1 scalar.
func NewSecretKeyFromBytes(data []byte) (*SecretKey, error) {
	if len(data) != 32 {
		return nil, herrors.New(herrors.ErrCryptography, "secret key must be 32 bytes, got %d", len(data))
	}
	sk := secp256k1.PrivKeyFromBytes(data)
	return &SecretKey{sk: sk}, nil
}

// Bytes returns the compressed SEC1 encoding of the public key (33 bytes).
func (pub *PublicKey) Bytes() []byte {
	return pub.pk.SerializeCompressed()
}

// Base64 returns the base64 encoding of the compressed public key — this is
// the overlay address of the owning node.
func (pub *PublicKey) Base64() string {
	return base64.StdEncoding.EncodeToString(pub.Bytes())
}

// Equals reports whether two public keys are the same point.
func (pub *PublicKey) Equals(o *PublicKey) bool {
	if pub == nil || o == nil {
		return pub == o
	}
	return pub.pk.IsEqual(o.pk)
}

func (pub *PublicKey) inner() *secp256k1.PublicKey { return pub.pk }

// Bytes returns the raw 32-byte scalar of the secret key.
func (prv *SecretKey) Bytes() []byte {
	return prv.sk.Serialize()
}

// Public returns the public key belonging to this secret key.
func (prv *SecretKey) Public() *PublicKey {
	return &PublicKey{pk: prv.sk.PubKey()}
}

func (prv *SecretKey) inner() *secp256k1.PrivateKey { return prv.sk }

// RandomSeed64 returns a cryptographically random 64-bit value, used for the
// envelope's proof_seed and the inbox's message identifiers.
func RandomSeed64() (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, herrors.New(herrors.ErrCryptography, "random seed: %v", err)
	}
	var v uint64
	for _, b := range buf {
		v = (v << 8) | uint64(b)
	}
	return v, nil
}
