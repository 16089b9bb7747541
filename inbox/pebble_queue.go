package inbox

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// Alternate embedded-KV inbox backend, exercising cockroachdb/pebble the
// way ethereum-go-ethereum and SAGE-X-project-sage use it as an embedded
// LSM store. Same Inbox interface and drain semantics as StoredQueue;
// insertion order is kept by a monotonically increasing sequence number
// instead of a flat index file.
//----------------------------------------------------------------------

import (
	"encoding/binary"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/pebble"

	herrors "github.com/bfix/hyperborea/errors"
	"github.com/bfix/hyperborea/message"
	"github.com/bfix/hyperborea/node"
)

// PebbleQueue is a pebble-backed Inbox. Keys are
// "<receiverPK>\x00<channel>\x00<seq big-endian>"; values are JSON-encoded
// message.Info records.
type PebbleQueue struct {
	db    *pebble.DB
	seq   atomic.Uint64
	locks sync.Map // key prefix -> *sync.Mutex
}

// OpenPebbleQueue opens (creating if needed) a pebble database at path.
func OpenPebbleQueue(path string) (*PebbleQueue, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, herrors.New(herrors.ErrIO, "open pebble inbox: %v", err)
	}
	return &PebbleQueue{db: db}, nil
}

// Close releases the underlying database.
func (q *PebbleQueue) Close() error {
	if err := q.db.Close(); err != nil {
		return herrors.New(herrors.ErrIO, "close pebble inbox: %v", err)
	}
	return nil
}

func prefixFor(receiverPK, channel string) []byte {
	return []byte(receiverPK + "\x00" + channel + "\x00")
}

func receivedAtNow() uint64 {
	return uint64(time.Now().Unix())
}

func (q *PebbleQueue) lockFor(prefix string) *sync.Mutex {
	v, _ := q.locks.LoadOrStore(prefix, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// AddMessage appends a message to the (receiver, channel) queue, ordered by
// a process-local monotonically increasing sequence number.
func (q *PebbleQueue) AddMessage(sender *node.Sender, receiverPK, channel string, msg *message.Message) error {
	prefix := prefixFor(receiverPK, channel)
	lock := q.lockFor(string(prefix))
	lock.Lock()
	defer lock.Unlock()

	seq := q.seq.Add(1)
	key := append(prefix, seqBytes(seq)...)

	info := message.NewInfo(sender, channel, msg, receivedAtNow())
	buf, err := json.Marshal(info)
	if err != nil {
		return herrors.New(herrors.ErrSerialize, "marshal message info: %v", err)
	}
	if err := q.db.Set(key, buf, pebble.Sync); err != nil {
		return herrors.New(herrors.ErrIO, "pebble set: %v", err)
	}
	return nil
}

// PollMessages drains up to limit messages (unbounded if nil) from the
// (receiver, channel) queue in insertion order.
func (q *PebbleQueue) PollMessages(receiverPK, channel string, limit *uint64) ([]*message.Info, uint64, error) {
	prefix := prefixFor(receiverPK, channel)
	lock := q.lockFor(string(prefix))
	lock.Lock()
	defer lock.Unlock()

	upper := append(append([]byte{}, prefix...), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
	iter, err := q.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: upper})
	if err != nil {
		return nil, 0, herrors.New(herrors.ErrIO, "pebble iterator: %v", err)
	}
	defer iter.Close()

	remaining := uint64(^uint64(0))
	if limit != nil {
		remaining = *limit
	}

	var messages []*message.Info
	var consumedKeys [][]byte
	var totalRemaining uint64

	for ok := iter.First(); ok; ok = iter.Next() {
		if remaining > 0 {
			var info message.Info
			if err := json.Unmarshal(iter.Value(), &info); err != nil {
				return nil, 0, herrors.New(herrors.ErrSerialize, "unmarshal message info: %v", err)
			}
			messages = append(messages, &info)
			consumedKeys = append(consumedKeys, append([]byte{}, iter.Key()...))
			remaining--
		} else {
			totalRemaining++
		}
	}
	if err := iter.Error(); err != nil {
		return nil, 0, herrors.New(herrors.ErrIO, "pebble iteration: %v", err)
	}

	batch := q.db.NewBatch()
	for _, k := range consumedKeys {
		if err := batch.Delete(k, nil); err != nil {
			return nil, 0, herrors.New(herrors.ErrIO, "pebble batch delete: %v", err)
		}
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return nil, 0, herrors.New(herrors.ErrIO, "pebble batch commit: %v", err)
	}

	return messages, totalRemaining, nil
}

func seqBytes(seq uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, seq)
	return buf
}
