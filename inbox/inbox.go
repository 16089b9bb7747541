// Package inbox implements the overlay's per-(recipient, channel) FIFO
// message store, with at-most-once drain-on-poll semantics.
package inbox

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
//----------------------------------------------------------------------

import (
	"github.com/bfix/hyperborea/message"
	"github.com/bfix/hyperborea/node"
)

// Inbox is the message-store driver interface.
type Inbox interface {
	// AddMessage appends a message to the (receiver, channel) queue.
	AddMessage(sender *node.Sender, receiverPK string, channel string, msg *message.Message) error

	// PollMessages drains up to limit messages (unbounded if nil) from the
	// (receiver, channel) queue in insertion order, returning them plus the
	// count still remaining.
	PollMessages(receiverPK string, channel string, limit *uint64) ([]*message.Info, uint64, error)
}
