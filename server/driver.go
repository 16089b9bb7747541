// Package server implements the relay driver: a dispatcher that validates
// every inbound envelope, delegates to the router or inbox, and signs a
// response envelope with the server's key.
package server

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// Driver shape grounded on original_source/src/drivers/server/mod.rs'
// ServerDriver (router + traversal + inbox behind one struct) and on
// bfix-gospel/network/p2p/service.go's ServiceList pattern of owning the
// shared state a set of handlers dispatches against.
//----------------------------------------------------------------------

import (
	hcrypto "github.com/bfix/hyperborea/crypto"
	herrors "github.com/bfix/hyperborea/errors"
	"github.com/bfix/hyperborea/inbox"
	"github.com/bfix/hyperborea/node"
	"github.com/bfix/hyperborea/rest"
	"github.com/bfix/hyperborea/router"
)

// Driver owns the router and inbox a relay serves requests against, and
// signs every response with its own secret key.
type Driver struct {
	SecretKey *hcrypto.SecretKey
	Router    router.Router
	Inbox     inbox.Inbox
}

// NewDriver builds a Driver over r and ib, signing responses with sk.
func NewDriver(sk *hcrypto.SecretKey, r router.Router, ib inbox.Inbox) *Driver {
	return &Driver{SecretKey: sk, Router: r, Inbox: ib}
}

// Info answers GET info (verb 1): no request body, no validation beyond
// the envelope itself.
func (d *Driver) Info(req *rest.Request[struct{}]) *rest.Response[InfoResponseBody] {
	return dispatch(d.SecretKey, req, func(_ *hcrypto.PublicKey, _ struct{}) (InfoResponseBody, error) {
		metricVerb("info")
		return InfoResponseBody{PublicKey: d.SecretKey.Public().Base64(), Standard: node.StandardV1}, nil
	})
}

// Clients answers GET clients (verb 2).
func (d *Driver) Clients(req *rest.Request[struct{}]) *rest.Response[ClientsResponseBody] {
	return dispatch(d.SecretKey, req, func(_ *hcrypto.PublicKey, _ struct{}) (ClientsResponseBody, error) {
		metricVerb("clients")
		return ClientsResponseBody{Clients: d.Router.LocalClients()}, nil
	})
}

// Servers answers GET servers (verb 3).
func (d *Driver) Servers(req *rest.Request[struct{}]) *rest.Response[ServersResponseBody] {
	return dispatch(d.SecretKey, req, func(_ *hcrypto.PublicKey, _ struct{}) (ServersResponseBody, error) {
		metricVerb("servers")
		return ServersResponseBody{Servers: d.Router.Servers()}, nil
	})
}

// Connect answers POST connect (verb 4): the certificate must verify
// against this server's own public key before the client is indexed.
func (d *Driver) Connect(req *rest.Request[ConnectRequestBody]) *rest.Response[struct{}] {
	return dispatch(d.SecretKey, req, func(pub *hcrypto.PublicKey, body ConnectRequestBody) (struct{}, error) {
		metricVerb("connect")
		cert, err := hcrypto.NewSignatureFromBase64(body.Certificate)
		if err != nil {
			return struct{}{}, herrors.New(herrors.ErrValidation, "decode certificate: %v", err)
		}
		if !node.VerifyCertificate(pub, d.SecretKey.Public(), cert) {
			return struct{}{}, herrors.New(herrors.ErrValidation, "client certificate does not verify against this server")
		}
		client := &node.Client{PublicKey: pub, Certificate: cert, Info: body.ClientInfo}
		if err := d.Router.IndexLocalClient(client); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
}

// Disconnect answers POST disconnect (verb 5).
func (d *Driver) Disconnect(req *rest.Request[DisconnectRequestBody]) *rest.Response[struct{}] {
	return dispatch(d.SecretKey, req, func(pub *hcrypto.PublicKey, _ DisconnectRequestBody) (struct{}, error) {
		metricVerb("disconnect")
		return struct{}{}, d.Router.Disconnect(pub.Base64())
	})
}

// Announce answers POST announce (verb 6).
func (d *Driver) Announce(req *rest.Request[AnnounceRequestBody]) *rest.Response[struct{}] {
	return dispatch(d.SecretKey, req, func(_ *hcrypto.PublicKey, body AnnounceRequestBody) (struct{}, error) {
		metricVerb("announce")
		switch body.Kind {
		case "client":
			if body.Client == nil || body.Server == nil {
				return struct{}{}, herrors.New(herrors.ErrAsJSON, "announce client body missing client or server")
			}
			return struct{}{}, d.Router.IndexRemoteClient(body.Client, body.Server)
		case "server":
			if body.Server == nil {
				return struct{}{}, herrors.New(herrors.ErrAsJSON, "announce server body missing server")
			}
			return struct{}{}, d.Router.IndexServer(body.Server)
		default:
			return struct{}{}, herrors.New(herrors.ErrAsJSON, "unknown announce kind %q", body.Kind)
		}
	})
}

// Lookup answers POST lookup (verb 7): the resolution cascade is run
// against this server's own router only — cross-server walking is the
// traversal package's concern, driving this same verb against peer
// servers.
func (d *Driver) Lookup(req *rest.Request[LookupRequestBody]) *rest.Response[LookupResponseBody] {
	return dispatch(d.SecretKey, req, func(_ *hcrypto.PublicKey, body LookupRequestBody) (LookupResponseBody, error) {
		metricVerb("lookup")
		result := router.Resolve(d.Router, body.PublicKey, body.ClientType, nil)
		return lookupResponseFrom(result), nil
	})
}

// Send answers POST send (verb 8).
func (d *Driver) Send(req *rest.Request[SendRequestBody]) *rest.Response[struct{}] {
	return dispatch(d.SecretKey, req, func(_ *hcrypto.PublicKey, body SendRequestBody) (struct{}, error) {
		metricVerb("send")
		return struct{}{}, d.Inbox.AddMessage(body.Sender, body.ReceiverPublic, body.Channel, body.Message)
	})
}

// Poll answers POST poll (verb 9).
func (d *Driver) Poll(req *rest.Request[PollRequestBody]) *rest.Response[PollResponseBody] {
	return dispatch(d.SecretKey, req, func(pub *hcrypto.PublicKey, body PollRequestBody) (PollResponseBody, error) {
		metricVerb("poll")
		messages, remaining, err := d.Inbox.PollMessages(pub.Base64(), body.Channel, body.Limit)
		if err != nil {
			return PollResponseBody{}, err
		}
		observePollDrain(len(messages))
		return PollResponseBody{Messages: messages, Remaining: remaining}, nil
	})
}
