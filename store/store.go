// Package store implements the in-memory keystore (spec.md's C6): a
// concurrency-safe mapping from byte-string keys to byte-string values
// with optional lazy expiry. It implements command.Store, so the server
// package depends only on that interface and never on this package
// directly.
package store

import (
	"sync"
	"time"

	"github.com/hcnet/respd/command"
	"github.com/hcnet/respd/resp"
)

// record is one stored value. A zero hasExpiry means the key never
// expires on its own.
type record struct {
	value     []byte
	expiresAt time.Time
	hasExpiry bool
}

func (r record) expired(now time.Time) bool {
	return r.hasExpiry && !r.expiresAt.After(now)
}

// KV is a mutex-guarded in-memory key/value store. The zero value is not
// usable; construct one with New.
//
// Every apply is serialized behind a single mutex, matching spec.md §5's
// requirement that each Apply is observed atomically relative to every
// other Apply and that readers never see a torn value. A single map
// under one mutex is the simplest structure that satisfies this for the
// traffic this server expects; the sharded alternative the spec mentions
// is not needed until lock contention is actually observed.
type KV struct {
	mu   sync.Mutex
	data map[string]record
}

// New creates an empty store.
func New() *KV {
	return &KV{data: make(map[string]record)}
}

// Apply executes cmd against the store, returning the reply frame for the
// client. Apply implements command.Store.
func (kv *KV) Apply(cmd command.Command) resp.Frame {
	switch cmd.Kind {
	case command.Ping:
		return command.Pong()
	case command.Echo:
		return command.EchoReply(cmd.Message)
	case command.Get:
		return kv.get(cmd.Key)
	case command.Set:
		return kv.set(cmd)
	default:
		return resp.Error([]byte("ERR unsupported command"))
	}
}

func (kv *KV) get(key []byte) resp.Frame {
	kv.mu.Lock()
	r, ok := kv.data[string(key)]
	if ok && r.expired(time.Now()) {
		delete(kv.data, string(key))
		ok = false
	}
	kv.mu.Unlock()

	if !ok {
		return command.NullBulk()
	}
	return command.GetReply(r.value)
}

func (kv *KV) set(cmd command.Command) resp.Frame {
	r := record{value: cmd.Value, hasExpiry: cmd.HasExpiry, expiresAt: cmd.ExpiresAt}

	kv.mu.Lock()
	kv.data[string(cmd.Key)] = r
	kv.mu.Unlock()

	return command.OK()
}

var _ command.Store = (*KV)(nil)
