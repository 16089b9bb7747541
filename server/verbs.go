package server

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// Verb request/response body shapes grounded on
// original_source/src/rest_api/requests/* and
// original_source/hyperborealib/src/rest_api/*.
//----------------------------------------------------------------------

import (
	"github.com/bfix/hyperborea/message"
	"github.com/bfix/hyperborea/node"
	"github.com/bfix/hyperborea/router"
)

// InfoResponseBody answers GET info (verb 1).
type InfoResponseBody struct {
	PublicKey string `json:"public_key"`
	Standard  uint8  `json:"standard"`
}

// ClientsResponseBody answers GET clients (verb 2).
type ClientsResponseBody struct {
	Clients []*node.Client `json:"clients"`
}

// ServersResponseBody answers GET servers (verb 3).
type ServersResponseBody struct {
	Servers []*node.ServerRecord `json:"servers"`
}

// ConnectRequestBody is POST connect's body (verb 4): a certificate by the
// requester over the server's public key, plus the client's advertised info.
type ConnectRequestBody struct {
	Certificate string         `json:"certificate"`
	ClientInfo  node.ClientInfo `json:"client_info"`
}

// DisconnectRequestBody is POST disconnect's body (verb 5). Empty: the
// envelope's public_key names the client to remove.
type DisconnectRequestBody struct{}

// AnnounceRequestBody is POST announce's body (verb 6): either a remote
// client sighting (Client + its home Server) or a bare peer-server sighting.
// Exactly one of the two shapes is populated; Kind disambiguates.
type AnnounceRequestBody struct {
	Kind   string             `json:"kind"` // "client" | "server"
	Client *node.Client       `json:"client,omitempty"`
	Server *node.ServerRecord `json:"server,omitempty"`
}

// NewAnnounceClient builds the "client" variant.
func NewAnnounceClient(c *node.Client, s *node.ServerRecord) AnnounceRequestBody {
	return AnnounceRequestBody{Kind: "client", Client: c, Server: s}
}

// NewAnnounceServer builds the "server" variant.
func NewAnnounceServer(s *node.ServerRecord) AnnounceRequestBody {
	return AnnounceRequestBody{Kind: "server", Server: s}
}

// LookupRequestBody is POST lookup's body (verb 7).
type LookupRequestBody struct {
	PublicKey  string          `json:"public_key"`
	ClientType node.ClientType `json:"client_type"`
}

// LookupResponseBody mirrors router.LookupResult over the wire.
type LookupResponseBody struct {
	Kind    router.LookupKind    `json:"kind"`
	Client  *node.Client         `json:"client,omitempty"`
	Server  *node.ServerRecord   `json:"server,omitempty"`
	Servers []*node.ServerRecord `json:"servers,omitempty"`
}

func lookupResponseFrom(r *router.LookupResult) LookupResponseBody {
	return LookupResponseBody{Kind: r.Kind, Client: r.Client, Server: r.Server, Servers: r.Servers}
}

// SendRequestBody is POST send's body (verb 8).
type SendRequestBody struct {
	Sender         *node.Sender     `json:"sender"`
	ReceiverPublic string           `json:"receiver_public"`
	Channel        string           `json:"channel"`
	Message        *message.Message `json:"message"`
}

// PollRequestBody is POST poll's body (verb 9).
type PollRequestBody struct {
	Channel string  `json:"channel"`
	Limit   *uint64 `json:"limit,omitempty"`
}

// PollResponseBody answers POST poll.
type PollResponseBody struct {
	Messages  []*message.Info `json:"messages"`
	Remaining uint64          `json:"remaining"`
}
