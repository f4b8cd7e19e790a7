// Package command parses a top-level RESP Array frame into a typed
// command and renders command results back into RESP frames. It knows
// nothing about sockets or storage; it is the pure translation layer
// between the wire (resp.Frame) and whatever backs GET/SET (command.Store).
package command

import (
	"time"

	"github.com/hcnet/respd/resp"
)

// Kind identifies which of the supported commands a Command carries.
type Kind int

// The commands this server understands. Per spec, anything else is an
// UnknownCommand parse error, not a Kind value.
const (
	Ping Kind = iota
	Echo
	Get
	Set
)

func (k Kind) String() string {
	switch k {
	case Ping:
		return "PING"
	case Echo:
		return "ECHO"
	case Get:
		return "GET"
	case Set:
		return "SET"
	default:
		return "UNKNOWN"
	}
}

// Command is a parsed client request. Only the fields relevant to Kind
// are meaningful; Parse never populates fields outside that set.
type Command struct {
	Kind Kind

	// Echo
	Message []byte

	// Get, Set
	Key []byte

	// Set
	Value     []byte
	ExpiresAt time.Time
	HasExpiry bool
}

// IsWrite reports whether applying cmd mutates store state. Only SET
// does; PING, ECHO and GET are read-only.
func (c Command) IsWrite() bool { return c.Kind == Set }

// Store is the keystore collaborator a Command is applied against. It is
// declared here, on the consumer side, the way netconf/ops declares the
// Session interface it drives rather than the way the concrete transport
// declares it.
type Store interface {
	// Apply executes cmd against the store and returns the reply frame
	// to send back to the client.
	Apply(cmd Command) resp.Frame
}

// Reply helpers for Store implementations, so every caller renders
// PONG/OK/null the same way. Parse itself returns errors, not replies.

// Pong is the reply to a PING command.
func Pong() resp.Frame { return resp.Bulk([]byte("PONG")) }

// EchoReply is the reply to an ECHO command.
func EchoReply(message []byte) resp.Frame { return resp.Bulk(message) }

// OK is the reply to a successful SET command.
func OK() resp.Frame { return resp.Bulk([]byte("OK")) }

// NullBulk is the reply to a GET of an absent or expired key.
func NullBulk() resp.Frame { return resp.NullBulk() }

// GetReply is the reply to a GET that found a live value.
func GetReply(value []byte) resp.Frame { return resp.Bulk(value) }

// equalFold reports whether a and b are equal ASCII strings, ignoring
// case. Command names are always ASCII, so a locale-free fold is both
// correct and cheaper than strings.EqualFold.
func equalFold(a []byte, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		c := a[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != b[i] {
			return false
		}
	}
	return true
}
