package server

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// The shared envelope-validating decorator grounded on
// original_source/src/rest_api/middleware/server.rs, which wraps every
// verb handler in the same validate -> call driver -> sign-response
// sequence rather than duplicating it per verb.
//----------------------------------------------------------------------

import (
	hcrypto "github.com/bfix/hyperborea/crypto"
	"github.com/bfix/hyperborea/rest"
)

// handle is a verb's driver-facing logic, given the envelope's verified
// public key and request body.
type handle[Req, Resp any] func(pub *hcrypto.PublicKey, body Req) (Resp, error)

// dispatch validates req, runs fn against its body, and signs the result
// as a success response. If envelope validation fails it replies
// RequestValidationFailed; if the backing driver errors it replies
// ServerError; otherwise Success.
func dispatch[Req, Resp any](sk *hcrypto.SecretKey, req *rest.Request[Req], fn handle[Req, Resp]) *rest.Response[Resp] {
	pub, err := req.Validate()
	if err != nil {
		return rest.NewErrorResponse[Resp](rest.StatusRequestValidationFailed, err.Error())
	}

	body, err := fn(pub, req.RequestBody)
	if err != nil {
		return rest.NewErrorResponse[Resp](rest.StatusServerError, err.Error())
	}

	resp, err := rest.NewSuccessResponse(sk, req.ProofSeed, body)
	if err != nil {
		return rest.NewErrorResponse[Resp](rest.StatusServerError, err.Error())
	}
	return resp
}
