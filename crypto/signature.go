package crypto

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// Adapted from bfix-gospel/crypto/ed25519/signature.go (AGPL-3.0-or-later),
// Copyright (C) 2011-2023 Bernd Fix.
//----------------------------------------------------------------------

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	herrors "github.com/bfix/hyperborea/errors"
)

// Signature is a DER-encoded ECDSA signature over secp256k1.
type Signature struct {
	raw []byte
}

// Bytes returns the DER-encoded signature.
func (s *Signature) Bytes() []byte {
	return s.raw
}

// Bytes64 returns the base64 encoding of the DER-encoded signature, the
// wire form used by proof_sign.
func (s *Signature) Bytes64() string {
	return base64.StdEncoding.EncodeToString(s.raw)
}

// NewSignatureFromBytes parses a DER-encoded signature.
func NewSignatureFromBytes(data []byte) (*Signature, error) {
	if _, err := ecdsa.ParseDERSignature(data); err != nil {
		return nil, herrors.New(herrors.ErrCryptography, "signature decode: %v", err)
	}
	return &Signature{raw: data}, nil
}

// NewSignatureFromBase64 decodes a base64-encoded DER signature.
func NewSignatureFromBase64(s string) (*Signature, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, herrors.New(herrors.ErrCryptography, "signature base64 decode: %v", err)
	}
	return NewSignatureFromBytes(raw)
}

// Sign signs msg (its SHA-256 digest) with the secret key.
func (prv *SecretKey) Sign(msg []byte) (*Signature, error) {
	h := sha256.Sum256(msg)
	sig := ecdsa.Sign(prv.sk, h[:])
	return &Signature{raw: sig.Serialize()}, nil
}

// Verify checks sig over msg under the public key.
func (pub *PublicKey) Verify(msg []byte, sig *Signature) bool {
	parsed, err := ecdsa.ParseDERSignature(sig.raw)
	if err != nil {
		return false
	}
	h := sha256.Sum256(msg)
	return parsed.Verify(h[:], pub.pk)
}

// SignSeed signs an 8-byte big-endian encoding of seed, proving possession
// of the secret key for an envelope's proof_sign.
func (prv *SecretKey) SignSeed(seed uint64) (*Signature, error) {
	return prv.Sign(seedBytes(seed))
}

// VerifySeed checks that sig verifies the 8-byte big-endian encoding of seed
// under the public key.
func (pub *PublicKey) VerifySeed(seed uint64, sig *Signature) bool {
	return pub.Verify(seedBytes(seed), sig)
}

func seedBytes(seed uint64) []byte {
	buf := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		buf[i] = byte(seed)
		seed >>= 8
	}
	return buf
}
