package node

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// Grounded on original_source/hyperborea/src/node/owned/standard.rs: a
// version-tagged on-disk secret-key blob. Unknown versions are rejected
// rather than guessed at.
//----------------------------------------------------------------------

import (
	"os"

	hcrypto "github.com/bfix/hyperborea/crypto"
	herrors "github.com/bfix/hyperborea/errors"
)

// StandardV1 is the only supported on-disk node standard: a leading
// version byte (0x00) followed by the raw secp256k1 secret scalar.
const StandardV1 = 0x00

// Standard wraps a node's owned secret key together with its on-disk
// standard version.
type Standard struct {
	Version byte
	Secret  *hcrypto.SecretKey
}

// NewStandard wraps sk as the latest supported standard.
func NewStandard(sk *hcrypto.SecretKey) *Standard {
	return &Standard{Version: StandardV1, Secret: sk}
}

// ToBytes serializes the blob as [version][secret scalar].
func (s *Standard) ToBytes() []byte {
	return append([]byte{s.Version}, s.Secret.Bytes()...)
}

// StandardFromBytes parses a version-tagged blob, rejecting any version
// other than StandardV1.
func StandardFromBytes(data []byte) (*Standard, error) {
	if len(data) == 0 {
		return nil, herrors.New(herrors.ErrInvalidStandard, "empty standard blob")
	}
	version := data[0]
	if version != StandardV1 {
		return nil, herrors.New(herrors.ErrInvalidStandard, "unsupported version byte %d", version)
	}
	sk, err := hcrypto.NewSecretKeyFromBytes(data[1:])
	if err != nil {
		return nil, err
	}
	return &Standard{Version: version, Secret: sk}, nil
}

// Save writes the blob to path.
func (s *Standard) Save(path string) error {
	if err := os.WriteFile(path, s.ToBytes(), 0600); err != nil {
		return herrors.New(herrors.ErrIO, "write standard blob: %v", err)
	}
	return nil
}

// LoadStandard reads and parses a blob from path.
func LoadStandard(path string) (*Standard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, herrors.New(herrors.ErrIO, "read standard blob: %v", err)
	}
	return StandardFromBytes(data)
}

// Address returns the overlay Address derived from the wrapped secret key.
func (s *Standard) Address() string {
	return s.Secret.Public().Base64()
}
