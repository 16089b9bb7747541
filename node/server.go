package node

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
//----------------------------------------------------------------------

import (
	hcrypto "github.com/bfix/hyperborea/crypto"
)

// ServerRecord is a peer relay record. Address is a transport-level URL
// (http/https).
type ServerRecord struct {
	PublicKey *hcrypto.PublicKey `json:"public_key"`
	Address   string             `json:"address"`
}

// NewServerRecord builds a ServerRecord.
func NewServerRecord(pub *hcrypto.PublicKey, address string) *ServerRecord {
	return &ServerRecord{PublicKey: pub, Address: address}
}
