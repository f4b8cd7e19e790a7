package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hcnet/respd/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bytesOf(f interface{ Bytes() ([]byte, bool) }) []byte {
	b, _ := f.Bytes()
	return b
}

func TestPingEcho(t *testing.T) {
	kv := New()

	reply := kv.Apply(command.Command{Kind: command.Ping})
	assert.Equal(t, "PONG", string(bytesOf(reply)))

	reply = kv.Apply(command.Command{Kind: command.Echo, Message: []byte("hello")})
	assert.Equal(t, "hello", string(bytesOf(reply)))
}

func TestSetThenGet(t *testing.T) {
	kv := New()

	reply := kv.Apply(command.Command{Kind: command.Set, Key: []byte("k"), Value: []byte("v")})
	assert.Equal(t, "OK", string(bytesOf(reply)))

	reply = kv.Apply(command.Command{Kind: command.Get, Key: []byte("k")})
	assert.Equal(t, "v", string(bytesOf(reply)))
}

func TestSetOverwritesPreviousValue(t *testing.T) {
	kv := New()

	kv.Apply(command.Command{Kind: command.Set, Key: []byte("k"), Value: []byte("v")})
	kv.Apply(command.Command{Kind: command.Set, Key: []byte("k"), Value: []byte("w")})

	reply := kv.Apply(command.Command{Kind: command.Get, Key: []byte("k")})
	assert.Equal(t, "w", string(bytesOf(reply)))
}

func TestGetAbsentReturnsNullBulk(t *testing.T) {
	kv := New()
	reply := kv.Apply(command.Command{Kind: command.Get, Key: []byte("nope")})
	assert.True(t, reply.IsNull())
}

func TestExpiry(t *testing.T) {
	kv := New()

	kv.Apply(command.Command{
		Kind: command.Set, Key: []byte("k"), Value: []byte("v"),
		HasExpiry: true, ExpiresAt: time.Now().Add(10 * time.Millisecond),
	})

	reply := kv.Apply(command.Command{Kind: command.Get, Key: []byte("k")})
	require.False(t, reply.IsNull(), "key should still be live immediately after SET")

	time.Sleep(20 * time.Millisecond)

	reply = kv.Apply(command.Command{Kind: command.Get, Key: []byte("k")})
	assert.True(t, reply.IsNull(), "key should have expired")
}

func TestConcurrentSetGetNoCrossTalk(t *testing.T) {
	kv := New()
	const n = 200

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			key := []byte(fmt.Sprintf("key-%d", i))
			value := []byte(fmt.Sprintf("value-%d", i))
			kv.Apply(command.Command{Kind: command.Set, Key: key, Value: value})
			reply := kv.Apply(command.Command{Kind: command.Get, Key: key})
			assert.Equal(t, string(value), string(bytesOf(reply)))
		}(i)
	}
	wg.Wait()
}

func TestUnsupportedCommandKindRepliesWithError(t *testing.T) {
	kv := New()
	reply := kv.Apply(command.Command{Kind: command.Kind(99)})
	_, isErr := reply.ErrorText()
	assert.True(t, isErr)
}
