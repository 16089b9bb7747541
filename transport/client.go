// Package transport supplies the overlay's HTTP client/server pair and
// a UPnP port-forwarding facade, built on net/http so the overlay core
// is runnable end to end.
package transport

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// Request/response plumbing (marshal body, POST, unmarshal) grounded on
// bfix-gospel/bitcoin/rpc/session.go's Session.call; route table grounded
// on original_source/src/rest_api/middleware/server.rs's "/api/v1/..."
// registrations.
//----------------------------------------------------------------------

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	hcrypto "github.com/bfix/hyperborea/crypto"
	herrors "github.com/bfix/hyperborea/errors"
	"github.com/bfix/hyperborea/node"
	"github.com/bfix/hyperborea/rest"
	"github.com/bfix/hyperborea/router"
	"github.com/bfix/hyperborea/server"
)

// Client is the client-side envelope machinery driven against a relay's
// HTTP endpoints.
type Client struct {
	http *http.Client
}

// NewClient returns a Client with the given per-request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

func call[Req, Resp any](ctx context.Context, c *Client, baseURL, route string, req *rest.Request[Req]) (*rest.Response[Resp], error) {
	buf, err := rest.ToJSON(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+route, bytes.NewReader(buf))
	if err != nil {
		return nil, herrors.New(herrors.ErrMiddleware, "build request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, herrors.New(herrors.ErrMiddleware, "%s: %v", route, err)
	}
	defer httpResp.Body.Close()

	var resp rest.Response[Resp]
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, herrors.New(herrors.ErrSerialize, "decode %s response: %v", route, err)
	}
	return &resp, nil
}

// Connect sends POST connect.
func (c *Client) Connect(ctx context.Context, baseURL string, req *rest.Request[server.ConnectRequestBody]) (*rest.Response[struct{}], error) {
	return call[server.ConnectRequestBody, struct{}](ctx, c, baseURL, "/api/v1/connect", req)
}

// Disconnect sends POST disconnect.
func (c *Client) Disconnect(ctx context.Context, baseURL string, req *rest.Request[server.DisconnectRequestBody]) (*rest.Response[struct{}], error) {
	return call[server.DisconnectRequestBody, struct{}](ctx, c, baseURL, "/api/v1/disconnect", req)
}

// Announce sends POST announce.
func (c *Client) Announce(ctx context.Context, baseURL string, req *rest.Request[server.AnnounceRequestBody]) (*rest.Response[struct{}], error) {
	return call[server.AnnounceRequestBody, struct{}](ctx, c, baseURL, "/api/v1/announce", req)
}

// LookupEnvelope sends POST lookup, returning the raw envelope.
func (c *Client) LookupEnvelope(ctx context.Context, baseURL string, req *rest.Request[server.LookupRequestBody]) (*rest.Response[server.LookupResponseBody], error) {
	return call[server.LookupRequestBody, server.LookupResponseBody](ctx, c, baseURL, "/api/v1/lookup", req)
}

// Send sends POST send.
func (c *Client) Send(ctx context.Context, baseURL string, req *rest.Request[server.SendRequestBody]) (*rest.Response[struct{}], error) {
	return call[server.SendRequestBody, struct{}](ctx, c, baseURL, "/api/v1/send", req)
}

// Poll sends POST poll.
func (c *Client) Poll(ctx context.Context, baseURL string, req *rest.Request[server.PollRequestBody]) (*rest.Response[server.PollResponseBody], error) {
	return call[server.PollRequestBody, server.PollResponseBody](ctx, c, baseURL, "/api/v1/poll", req)
}

// LookupClient adapts Client into traversal.LookupClient: it signs a fresh
// envelope with sk and drives it against the target server's own lookup
// verb, translating the wire response into a router.LookupResult.
type LookupClient struct {
	Client *Client
	SK     *hcrypto.SecretKey
}

func (l *LookupClient) Lookup(ctx context.Context, srv *node.ServerRecord, pk string, t node.ClientType) (*router.LookupResult, error) {
	req, err := rest.NewRequest(l.SK, server.LookupRequestBody{PublicKey: pk, ClientType: t})
	if err != nil {
		return nil, err
	}
	resp, err := l.Client.LookupEnvelope(ctx, srv.Address, req)
	if err != nil {
		return nil, err
	}
	if resp.Status != rest.StatusSuccess || resp.ResponseBody == nil {
		return nil, herrors.New(herrors.ErrMiddleware, "lookup on %s: %s", srv.Address, resp.Reason)
	}
	body := *resp.ResponseBody
	return &router.LookupResult{Kind: body.Kind, Client: body.Client, Server: body.Server, Servers: body.Servers}, nil
}
