package crypto

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// Text encoding of a message's sealed content.
//----------------------------------------------------------------------

import (
	"encoding/base64"

	"github.com/mr-tron/base58"

	herrors "github.com/bfix/hyperborea/errors"
)

// TextEncoding names a message's supported content text encodings.
type TextEncoding int

const (
	// TextBase64 encodes content as standard base64.
	TextBase64 TextEncoding = iota
	// TextBase58 encodes content as Bitcoin-alphabet base58.
	TextBase58
)

// EncodeText encodes raw bytes using the named scheme.
func EncodeText(enc TextEncoding, raw []byte) (string, error) {
	switch enc {
	case TextBase64:
		return base64.StdEncoding.EncodeToString(raw), nil
	case TextBase58:
		return base58.Encode(raw), nil
	default:
		return "", herrors.New(herrors.ErrAsJSON, "unknown text encoding %d", enc)
	}
}

// DecodeText reverses EncodeText.
func DecodeText(enc TextEncoding, s string) ([]byte, error) {
	switch enc {
	case TextBase64:
		raw, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, herrors.New(herrors.ErrAsJSON, "base64 decode: %v", err)
		}
		return raw, nil
	case TextBase58:
		raw, err := base58.Decode(s)
		if err != nil {
			return nil, herrors.New(herrors.ErrAsJSON, "base58 decode: %v", err)
		}
		return raw, nil
	default:
		return nil, herrors.New(herrors.ErrAsJSON, "unknown text encoding %d", enc)
	}
}
