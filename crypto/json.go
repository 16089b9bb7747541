package crypto

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// JSON wire form for keys and signatures is plain base64 strings, so these
// types marshal directly instead of forcing every embedding struct to carry
// a string field and a conversion step.
//----------------------------------------------------------------------

import "encoding/json"

// MarshalJSON renders the public key as its base64 Address form.
func (pub *PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(pub.Base64())
}

// UnmarshalJSON parses a base64 public key.
func (pub *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := NewPublicKeyFromBase64(s)
	if err != nil {
		return err
	}
	*pub = *parsed
	return nil
}

// MarshalJSON renders the signature as base64.
func (s *Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Bytes64())
}

// UnmarshalJSON parses a base64 signature.
func (s *Signature) UnmarshalJSON(data []byte) error {
	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return err
	}
	parsed, err := NewSignatureFromBase64(encoded)
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}
