package inbox

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// Algorithm grounded line-for-line on
// original_source/src/drivers/server/messages_inbox/stored_queue.rs:
// an index file of 8-byte big-endian message ids plus one JSON file per
// message, drained with skip-on-missing. Per-(receiver,channel)
// serialization via a keyed mutex, the same pattern
// bfix-gospel/network/p2p/routing.go uses per-Bucket.
//----------------------------------------------------------------------

import (
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	hcrypto "github.com/bfix/hyperborea/crypto"
	herrors "github.com/bfix/hyperborea/errors"
	"github.com/bfix/hyperborea/message"
	"github.com/bfix/hyperborea/node"
)

const indexFileName = "index"

// StoredQueue is a filesystem-backed Inbox: one directory per
// (receiver, channel), an append-only index of message ids, and one JSON
// file per message.
type StoredQueue struct {
	root  string
	locks sync.Map // dir path -> *sync.Mutex
}

// NewStoredQueue creates (if needed) root and returns a StoredQueue rooted there.
func NewStoredQueue(root string) (*StoredQueue, error) {
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, herrors.New(herrors.ErrIO, "create inbox root: %v", err)
	}
	return &StoredQueue{root: root}, nil
}

func (q *StoredQueue) dir(receiverPK, channel string) string {
	return filepath.Join(q.root, receiverPK, channel)
}

func (q *StoredQueue) lockFor(dir string) *sync.Mutex {
	v, _ := q.locks.LoadOrStore(dir, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// AddMessage generates a random 64-bit id, writes the message file, then
// rewrites the index with the id appended. A crash between the two writes
// leaves at most an orphan message file that no index entry names;
// PollMessages also tolerates index entries whose file is absent.
func (q *StoredQueue) AddMessage(sender *node.Sender, receiverPK, channel string, msg *message.Message) error {
	dir := q.dir(receiverPK, channel)
	lock := q.lockFor(dir)
	lock.Lock()
	defer lock.Unlock()

	if err := os.MkdirAll(dir, 0700); err != nil {
		return herrors.New(herrors.ErrIO, "create inbox dir: %v", err)
	}

	indexPath := filepath.Join(dir, indexFileName)
	index, err := os.ReadFile(indexPath)
	if err != nil && !os.IsNotExist(err) {
		return herrors.New(herrors.ErrIO, "read index: %v", err)
	}
	if len(index)%8 != 0 {
		return herrors.New(herrors.ErrIO, "index file length %d is not a multiple of 8", len(index))
	}

	id, err := hcrypto.RandomSeed64()
	if err != nil {
		return err
	}

	info := message.NewInfo(sender, channel, msg, uint64(time.Now().Unix()))
	buf, err := json.Marshal(info)
	if err != nil {
		return herrors.New(herrors.ErrSerialize, "marshal message info: %v", err)
	}

	msgPath := filepath.Join(dir, strconv.FormatUint(id, 10))
	if err := os.WriteFile(msgPath, buf, 0600); err != nil {
		return herrors.New(herrors.ErrIO, "write message file: %v", err)
	}

	var idBytes [8]byte
	binary.BigEndian.PutUint64(idBytes[:], id)
	index = append(index, idBytes[:]...)
	if err := os.WriteFile(indexPath, index, 0600); err != nil {
		return herrors.New(herrors.ErrIO, "write index: %v", err)
	}
	return nil
}

// PollMessages drains the queue: read the index, read up to limit
// message files in order (skipping any that are missing), advance the
// shift cursor regardless, then rewrite the index truncated by shift
// bytes.
func (q *StoredQueue) PollMessages(receiverPK, channel string, limit *uint64) ([]*message.Info, uint64, error) {
	dir := q.dir(receiverPK, channel)
	lock := q.lockFor(dir)
	lock.Lock()
	defer lock.Unlock()

	indexPath := filepath.Join(dir, indexFileName)
	index, err := os.ReadFile(indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, nil
		}
		return nil, 0, herrors.New(herrors.ErrIO, "read index: %v", err)
	}
	if len(index)%8 != 0 {
		return nil, 0, herrors.New(herrors.ErrIO, "index file length %d is not a multiple of 8", len(index))
	}

	remaining := uint64(^uint64(0))
	if limit != nil {
		remaining = *limit
	}

	var messages []*message.Info
	shift := 0
	for shift < len(index) {
		if remaining == 0 {
			break
		}
		id := binary.BigEndian.Uint64(index[shift : shift+8])
		shift += 8

		msgPath := filepath.Join(dir, strconv.FormatUint(id, 10))
		buf, err := os.ReadFile(msgPath)
		if err != nil {
			// orphan index entry (message file missing): skip, still advance.
			continue
		}
		var info message.Info
		if err := json.Unmarshal(buf, &info); err != nil {
			return nil, 0, herrors.New(herrors.ErrSerialize, "unmarshal message info: %v", err)
		}
		messages = append(messages, &info)
		remaining--

		if err := os.Remove(msgPath); err != nil && !os.IsNotExist(err) {
			return nil, 0, herrors.New(herrors.ErrIO, "remove message file: %v", err)
		}
	}

	rest := index[shift:]
	if err := os.WriteFile(indexPath, rest, 0600); err != nil {
		return nil, 0, herrors.New(herrors.ErrIO, "rewrite index: %v", err)
	}
	return messages, uint64(len(rest) / 8), nil
}
