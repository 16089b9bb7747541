package crypto

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// The shared-secret derivation mirrors the ECDH step of
// bfix-gospel/network/p2p/packet.go ("Q := receiver.Mult(r.Mul(sender.D))"),
// adapted from the prior ad-hoc ECDH scheme to plain secp256k1 ECDH.
//----------------------------------------------------------------------

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// SharedSecret derives a 32-byte shared secret between a local secret key
// and a remote public key via ECDH on secp256k1. Used to key the message
// codec's AEAD.
func SharedSecret(sk *SecretKey, pk *PublicKey) []byte {
	return secp256k1.GenerateSharedSecret(sk.sk, pk.pk)
}
