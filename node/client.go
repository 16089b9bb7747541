package node

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// Data-model types grounded on original_source/hyperborealib/client.rs.
//----------------------------------------------------------------------

import (
	hcrypto "github.com/bfix/hyperborea/crypto"
	herrors "github.com/bfix/hyperborea/errors"
)

// ClientInfo is the minimal metadata advertised on connect.
type ClientInfo struct {
	ClientType ClientType `json:"client_type"`
}

// Client is a server-indexed client record. Certificate is a signature by
// the client over its hosting server's public key, proving intent to be
// represented by that server.
type Client struct {
	PublicKey   *hcrypto.PublicKey `json:"public_key"`
	Certificate *hcrypto.Signature `json:"certificate"`
	Info        ClientInfo         `json:"info"`
}

// NewCertificate signs the server's public key with the client's secret
// key, producing the certificate a connect request carries.
func NewCertificate(clientSK *hcrypto.SecretKey, serverPK *hcrypto.PublicKey) (*hcrypto.Signature, error) {
	return clientSK.Sign(serverPK.Bytes())
}

// VerifyCertificate checks that cert is a valid certificate by clientPK
// over serverPK.
func VerifyCertificate(clientPK, serverPK *hcrypto.PublicKey, cert *hcrypto.Signature) bool {
	return clientPK.Verify(serverPK.Bytes(), cert)
}

// NewClient builds a Client record, certifying it against serverPK.
func NewClient(clientSK *hcrypto.SecretKey, serverPK *hcrypto.PublicKey, info ClientInfo) (*Client, error) {
	cert, err := NewCertificate(clientSK, serverPK)
	if err != nil {
		return nil, err
	}
	return &Client{
		PublicKey:   clientSK.Public(),
		Certificate: cert,
		Info:        info,
	}, nil
}

// Verify checks this client record's certificate against the hosting
// server's public key.
func (c *Client) Verify(serverPK *hcrypto.PublicKey) error {
	if !VerifyCertificate(c.PublicKey, serverPK, c.Certificate) {
		return herrors.New(herrors.ErrValidation, "client certificate does not verify")
	}
	return nil
}
