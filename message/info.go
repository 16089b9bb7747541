package message

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// Grounded on original_source/src/drivers/server/messages_inbox/stored_queue.rs's
// MessageInfo{sender, channel, message, received_at} construction.
//----------------------------------------------------------------------

import (
	"github.com/bfix/hyperborea/node"
)

// Info is the server-side inbox record.
type Info struct {
	Sender     *node.Sender `json:"sender"`
	Channel    string       `json:"channel"`
	Message    *Message     `json:"message"`
	ReceivedAt uint64       `json:"received_at"`
}

// NewInfo builds an inbox record stamped with receivedAt (unix seconds).
func NewInfo(sender *node.Sender, channel string, msg *Message, receivedAt uint64) *Info {
	return &Info{Sender: sender, Channel: channel, Message: msg, ReceivedAt: receivedAt}
}
