package server

import (
	"testing"

	hcrypto "github.com/bfix/hyperborea/crypto"
	"github.com/bfix/hyperborea/inbox"
	"github.com/bfix/hyperborea/message"
	"github.com/bfix/hyperborea/node"
	"github.com/bfix/hyperborea/rest"
	"github.com/bfix/hyperborea/router"
)

func newTestDriver(t *testing.T) (*Driver, *hcrypto.SecretKey) {
	t.Helper()
	_, serverSK, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	ib, err := inbox.NewStoredQueue(dir)
	if err != nil {
		t.Fatal(err)
	}
	return NewDriver(serverSK, router.NewInMemory(), ib), serverSK
}

func TestConnectIndexesLocalClient(t *testing.T) {
	d, serverSK := newTestDriver(t)

	clientPK, clientSK, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	cert, err := node.NewCertificate(clientSK, serverSK.Public())
	if err != nil {
		t.Fatal(err)
	}

	req, err := rest.NewRequest(clientSK, ConnectRequestBody{
		Certificate: cert.Bytes64(),
		ClientInfo:  node.ClientInfo{ClientType: node.Thick},
	})
	if err != nil {
		t.Fatal(err)
	}

	resp := d.Connect(req)
	if resp.Status != rest.StatusSuccess {
		t.Fatalf("want Success, got %s: %s", resp.Status, resp.Reason)
	}

	c, available := d.Router.LookupLocalClient(clientPK.Base64(), node.Thin)
	if !available || c.PublicKey.Base64() != clientPK.Base64() {
		t.Fatal("client was not indexed locally")
	}
}

func TestConnectRejectsBadCertificate(t *testing.T) {
	d, _ := newTestDriver(t)

	_, clientSK, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	_, otherSK, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	// certificate signed over the WRONG server key
	cert, err := node.NewCertificate(clientSK, otherSK.Public())
	if err != nil {
		t.Fatal(err)
	}

	req, err := rest.NewRequest(clientSK, ConnectRequestBody{
		Certificate: cert.Bytes64(),
		ClientInfo:  node.ClientInfo{ClientType: node.Thick},
	})
	if err != nil {
		t.Fatal(err)
	}

	resp := d.Connect(req)
	if resp.Status != rest.StatusServerError {
		t.Fatalf("want ServerError for a certificate signed over the wrong server key, got %s", resp.Status)
	}
}

func TestDisconnectRemovesLocalClient(t *testing.T) {
	d, serverSK := newTestDriver(t)
	clientPK, clientSK, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	client, err := node.NewClient(clientSK, serverSK.Public(), node.ClientInfo{ClientType: node.Thin})
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Router.IndexLocalClient(client); err != nil {
		t.Fatal(err)
	}

	req, err := rest.NewRequest(clientSK, DisconnectRequestBody{})
	if err != nil {
		t.Fatal(err)
	}
	resp := d.Disconnect(req)
	if resp.Status != rest.StatusSuccess {
		t.Fatalf("want Success, got %s: %s", resp.Status, resp.Reason)
	}
	if _, available := d.Router.LookupLocalClient(clientPK.Base64(), node.Thin); available {
		t.Fatal("client should no longer be indexed after disconnect")
	}
}

// Lookup cascade falling through to a hint of every known server, driven
// through the verb dispatcher instead of the router directly.
func TestLookupCascadeHint(t *testing.T) {
	d, _ := newTestDriver(t)
	s1 := node.NewServerRecord(mustPubkey(t), "https://s1.example")
	s2 := node.NewServerRecord(mustPubkey(t), "https://s2.example")
	if err := d.Router.IndexServer(s1); err != nil {
		t.Fatal(err)
	}
	if err := d.Router.IndexServer(s2); err != nil {
		t.Fatal(err)
	}

	targetPK, callerSK, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}

	req, err := rest.NewRequest(callerSK, LookupRequestBody{PublicKey: targetPK.Base64(), ClientType: node.Thin})
	if err != nil {
		t.Fatal(err)
	}
	resp := d.Lookup(req)
	if resp.Status != rest.StatusSuccess {
		t.Fatalf("want Success, got %s: %s", resp.Status, resp.Reason)
	}
	if resp.ResponseBody.Kind != router.LookupHint {
		t.Fatalf("want LookupHint, got %v", resp.ResponseBody.Kind)
	}
	if len(resp.ResponseBody.Servers) != 2 {
		t.Fatalf("want both known servers in the hint, got %d", len(resp.ResponseBody.Servers))
	}
}

func TestSendThenPollRoundTrip(t *testing.T) {
	d, serverSK := newTestDriver(t)

	receiverPK, receiverSK, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	senderPK, senderSK, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	senderClient, err := node.NewClient(senderSK, serverSK.Public(), node.ClientInfo{ClientType: node.Thick})
	if err != nil {
		t.Fatal(err)
	}
	sender := node.NewSender(senderClient, node.NewServerRecord(serverSK.Public(), "https://relay.example"))

	enc := message.Encoding{Text: hcrypto.TextBase64, Compression: hcrypto.CompressionNone, Encryption: hcrypto.EncryptionNone}
	msg, err := message.Create(senderSK, receiverPK, []byte("hi"), enc, 0)
	if err != nil {
		t.Fatal(err)
	}

	sendReq, err := rest.NewRequest(senderSK, SendRequestBody{
		Sender:         sender,
		ReceiverPublic: receiverPK.Base64(),
		Channel:        "default",
		Message:        msg,
	})
	if err != nil {
		t.Fatal(err)
	}
	sendResp := d.Send(sendReq)
	if sendResp.Status != rest.StatusSuccess {
		t.Fatalf("send failed: %s: %s", sendResp.Status, sendResp.Reason)
	}
	pollReq, err := rest.NewRequest(receiverSK, PollRequestBody{Channel: "default"})
	if err != nil {
		t.Fatal(err)
	}
	pollResp := d.Poll(pollReq)
	if pollResp.Status != rest.StatusSuccess {
		t.Fatalf("poll failed: %s: %s", pollResp.Status, pollResp.Reason)
	}
	if len(pollResp.ResponseBody.Messages) != 1 || pollResp.ResponseBody.Remaining != 0 {
		t.Fatalf("want 1 message remaining 0, got %d remaining %d",
			len(pollResp.ResponseBody.Messages), pollResp.ResponseBody.Remaining)
	}

	plaintext, err := pollResp.ResponseBody.Messages[0].Message.Read(receiverSK, senderPK)
	if err != nil {
		t.Fatal(err)
	}
	if string(plaintext) != "hi" {
		t.Fatalf("want %q, got %q", "hi", plaintext)
	}
}

func mustPubkey(t *testing.T) *hcrypto.PublicKey {
	t.Helper()
	pk, _, err := hcrypto.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	return pk
}

