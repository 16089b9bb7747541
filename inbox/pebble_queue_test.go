package inbox

import (
	"path/filepath"
	"testing"

	hcrypto "github.com/bfix/hyperborea/crypto"
)

// Same drain/partial-poll properties as StoredQueue, run against the
// pebble-backed implementation.
func TestPebbleQueueSendPollDrain(t *testing.T) {
	dir := t.TempDir()
	q, err := OpenPebbleQueue(filepath.Join(dir, "inbox.pebble"))
	if err != nil {
		t.Fatal(err)
	}
	defer q.Close()

	sender, senderSK := testSender(t)
	receiverPK, _, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	rk := receiverPK.Base64()

	for i := 1; i <= 5; i++ {
		msg := plainMessage(t, senderSK, receiverPK, "message")
		if err := q.AddMessage(sender, rk, "default channel", msg); err != nil {
			t.Fatal(err)
		}
	}

	msgs, remaining, err := q.PollMessages(rk, "other channel", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 0 || remaining != 0 {
		t.Fatalf("unrelated channel should be empty, got %d remaining=%d", len(msgs), remaining)
	}

	one := uint64(1)
	msgs, remaining, err = q.PollMessages(rk, "default channel", &one)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 || remaining != 4 {
		t.Fatalf("want 1 message remaining 4, got %d remaining %d", len(msgs), remaining)
	}

	two := uint64(2)
	msgs, remaining, err = q.PollMessages(rk, "default channel", &two)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 || remaining != 2 {
		t.Fatalf("want 2 messages remaining 2, got %d remaining %d", len(msgs), remaining)
	}

	msgs, remaining, err = q.PollMessages(rk, "default channel", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 || remaining != 0 {
		t.Fatalf("want 2 final messages remaining 0, got %d remaining %d", len(msgs), remaining)
	}
}
