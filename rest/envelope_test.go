package rest

import (
	"testing"

	hcrypto "github.com/bfix/hyperborea/crypto"
)

type pingBody struct {
	Nonce string `json:"nonce"`
}

func TestRequestValidate(t *testing.T) {
	_, sk, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	req, err := NewRequest(sk, pingBody{Nonce: "abc"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := req.Validate(); err != nil {
		t.Fatal(err)
	}
	req.ProofSign = req.ProofSign[:len(req.ProofSign)-2] + "AA"
	if _, err := req.Validate(); err == nil {
		t.Fatal("expected validation failure on tampered proof_sign")
	}
}

func TestResponseBindsToRequestSeed(t *testing.T) {
	_, clientSK, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	_, serverSK, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	req, err := NewRequest(clientSK, pingBody{Nonce: "xyz"})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := NewSuccessResponse(serverSK, req.ProofSeed, pingBody{Nonce: "pong"})
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Validate(req.ProofSeed) {
		t.Fatal("response should validate against the request's proof_seed")
	}
	// mutating one bit of proof_sign invalidates it
	bad := *resp
	bad.ProofSign = flipLastByte(bad.ProofSign)
	if bad.Validate(req.ProofSeed) {
		t.Fatal("mutated proof_sign should fail to validate")
	}
	if resp.Validate(req.ProofSeed + 1) {
		t.Fatal("response should not validate against a different seed")
	}
}

func TestEnvelopeJSONRoundTrip(t *testing.T) {
	_, sk, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	req, err := NewRequest(sk, pingBody{Nonce: "roundtrip"})
	if err != nil {
		t.Fatal(err)
	}
	buf, err := ToJSON(req)
	if err != nil {
		t.Fatal(err)
	}
	var req2 Request[pingBody]
	if err := FromJSON(buf, &req2); err != nil {
		t.Fatal(err)
	}
	if req2.PublicKey != req.PublicKey || req2.ProofSeed != req.ProofSeed || req2.ProofSign != req.ProofSign {
		t.Fatal("request mismatch after JSON round trip")
	}
	if req2.RequestBody.Nonce != "roundtrip" {
		t.Fatal("request body mismatch after JSON round trip")
	}
}

func TestErrorResponseCarriesNoBody(t *testing.T) {
	resp := NewErrorResponse[pingBody](StatusRequestValidationFailed, "bad proof")
	if resp.ResponseBody != nil {
		t.Fatal("error response should carry no body")
	}
	if resp.Validate(0) {
		t.Fatal("error response should never validate")
	}
}

func flipLastByte(s string) string {
	if len(s) == 0 {
		return s
	}
	b := []byte(s)
	b[len(b)-1] ^= 1
	return string(b)
}
