// Package rest implements the generic signed request/response envelope
// every overlay RPC is wrapped in: the caller's public key plus a
// proof-of-possession signature over a fresh nonce. Go generics give the
// shared validator literal code reuse across verbs instead of per-verb
// duplication.
package rest

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
//----------------------------------------------------------------------

import (
	"encoding/json"

	hcrypto "github.com/bfix/hyperborea/crypto"
	herrors "github.com/bfix/hyperborea/errors"
)

// Status is the outcome code carried by a Response envelope.
type Status string

const (
	// StatusSuccess means the verb completed and response carries a body.
	StatusSuccess Status = "Success"
	// StatusRequestValidationFailed means the envelope itself failed to validate.
	StatusRequestValidationFailed Status = "RequestValidationFailed"
	// StatusServerError means the backing driver returned an error.
	StatusServerError Status = "ServerError"
)

// Request is the generic signed request envelope. B is the verb-specific
// body, which must be JSON-serializable.
type Request[B any] struct {
	PublicKey  string `json:"public_key"`
	ProofSeed  uint64 `json:"proof_seed"`
	ProofSign  string `json:"proof_sign"`
	RequestBody B     `json:"request"`
}

// NewRequest builds and signs a new request envelope for body, proving
// possession of sk.
func NewRequest[B any](sk *hcrypto.SecretKey, body B) (*Request[B], error) {
	seed, err := hcrypto.RandomSeed64()
	if err != nil {
		return nil, err
	}
	sig, err := sk.SignSeed(seed)
	if err != nil {
		return nil, err
	}
	return &Request[B]{
		PublicKey:   sk.Public().Base64(),
		ProofSeed:   seed,
		ProofSign:   sig.Bytes64(),
		RequestBody: body,
	}, nil
}

// Validate recomputes the proof_sign check against the declared public key.
// It never consults time or replay state.
func (r *Request[B]) Validate() (*hcrypto.PublicKey, error) {
	pub, sig, err := decodeProof(r.PublicKey, r.ProofSign)
	if err != nil {
		return nil, err
	}
	if !pub.VerifySeed(r.ProofSeed, sig) {
		return nil, herrors.New(herrors.ErrValidation, "request proof_sign does not verify proof_seed")
	}
	return pub, nil
}

// Response is the generic signed response envelope.
type Response[B any] struct {
	Status       Status `json:"status"`
	PublicKey    string `json:"public_key,omitempty"`
	ProofSign    string `json:"proof_sign,omitempty"`
	ResponseBody *B     `json:"response,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// NewSuccessResponse builds a signed success response, reusing the
// request's proof_seed to bind the response to its request.
func NewSuccessResponse[B any](sk *hcrypto.SecretKey, requestSeed uint64, body B) (*Response[B], error) {
	sig, err := sk.SignSeed(requestSeed)
	if err != nil {
		return nil, err
	}
	return &Response[B]{
		Status:       StatusSuccess,
		PublicKey:    sk.Public().Base64(),
		ProofSign:    sig.Bytes64(),
		ResponseBody: &body,
	}, nil
}

// NewErrorResponse builds an unsigned failure response; failure responses
// carry no proof and no body.
func NewErrorResponse[B any](status Status, reason string) *Response[B] {
	return &Response[B]{Status: status, Reason: reason}
}

// Validate checks that the response's proof_sign verifies requestSeed under
// the response's declared public key, binding the response to its request.
func (r *Response[B]) Validate(requestSeed uint64) bool {
	if r.Status != StatusSuccess {
		return false
	}
	pub, sig, err := decodeProof(r.PublicKey, r.ProofSign)
	if err != nil {
		return false
	}
	return pub.VerifySeed(requestSeed, sig)
}

func decodeProof(pubB64, sigB64 string) (*hcrypto.PublicKey, *hcrypto.Signature, error) {
	pub, err := hcrypto.NewPublicKeyFromBase64(pubB64)
	if err != nil {
		return nil, nil, herrors.New(herrors.ErrAsJSON, "public_key decode: %v", err)
	}
	sig, err := hcrypto.NewSignatureFromBase64(sigB64)
	if err != nil {
		return nil, nil, herrors.New(herrors.ErrAsJSON, "proof_sign decode: %v", err)
	}
	return pub, sig, nil
}

// ToJSON serializes an envelope value (Request[B] or Response[B]).
func ToJSON(v any) ([]byte, error) {
	buf, err := json.Marshal(v)
	if err != nil {
		return nil, herrors.New(herrors.ErrSerialize, "marshal: %v", err)
	}
	return buf, nil
}

// FromJSON deserializes into an envelope value.
func FromJSON(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return herrors.New(herrors.ErrSerialize, "unmarshal: %v", err)
	}
	return nil
}
