package node

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// Grounded on original_source/hyperborealib/client.rs's Sender helper.
//----------------------------------------------------------------------

// Sender is the pair a receiver needs to verify provenance and reach a
// reply path.
type Sender struct {
	Client *Client       `json:"client"`
	Server *ServerRecord `json:"server"`
}

// NewSender builds a Sender from a client record and its hosting server.
func NewSender(client *Client, server *ServerRecord) *Sender {
	return &Sender{Client: client, Server: server}
}
