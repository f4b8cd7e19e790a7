package server

import (
	"context"
	"log"
	"net"

	"github.com/google/uuid"
	"github.com/imdario/mergo"
)

// unique type to prevent external packages from colliding on the context
// key, the same guard netconf/server/ssh uses for its own Trace.
type traceContextKey struct{}

// Trace defines the hooks invoked as a server accepts and serves
// connections. Every field is optional; ContextTrace fills any unset
// field from NoOpLoggingHooks before returning, so callers never need a
// nil check.
type Trace struct {
	// Listened is called once the listening socket is bound.
	Listened func(address string, err error)

	// StartAccepting is called before the accept loop begins.
	StartAccepting func()

	// Accepted is called for every Accept() call, successful or not. id
	// is a fresh identifier assigned to the connection for correlating
	// subsequent log lines; it is the zero UUID on failure.
	Accepted func(id uuid.UUID, conn net.Conn, err error)

	// Closed is called when a connection's serve loop returns, for any
	// reason including a clean client-driven EOF.
	Closed func(id uuid.UUID, err error)

	// ParseError is called when a frame was read successfully but could
	// not be parsed as a Command. The connection keeps reading after
	// this; it is not fatal.
	ParseError func(id uuid.UUID, err error)

	// ReadError is called when ReadFrame failed for a reason other than
	// a clean EOF. The connection is closed after this.
	ReadError func(id uuid.UUID, err error)

	// WriteError is called when WriteFrame failed. The connection is
	// closed after this.
	WriteError func(id uuid.UUID, err error)
}

// DefaultLoggingHooks logs failures, plus one line when the accept loop
// starts, to the standard logger, in the same terse style as
// netconf/server/ssh.DefaultLoggingHooks.
var DefaultLoggingHooks = &Trace{
	Listened: func(address string, err error) {
		if err != nil {
			log.Printf("respd: listen address:%s status:%v", address, err)
		}
	},
	StartAccepting: func() {
		log.Printf("respd: accepting connections")
	},
	Accepted: func(id uuid.UUID, conn net.Conn, err error) {
		if err != nil {
			log.Printf("respd: accept status:%v", err)
		}
	},
	Closed: func(id uuid.UUID, err error) {
		if err != nil {
			log.Printf("respd: conn:%s closed status:%v", id, err)
		}
	},
	ParseError: func(id uuid.UUID, err error) {
		log.Printf("respd: conn:%s parse error:%v", id, err)
	},
	ReadError: func(id uuid.UUID, err error) {
		log.Printf("respd: conn:%s read error:%v", id, err)
	},
	WriteError: func(id uuid.UUID, err error) {
		log.Printf("respd: conn:%s write error:%v", id, err)
	},
}

// NoOpLoggingHooks does nothing; it is the base every Trace is merged
// against so unset fields never crash a connection goroutine.
var NoOpLoggingHooks = &Trace{
	Listened:        func(address string, err error) {},
	StartAccepting:  func() {},
	Accepted:        func(id uuid.UUID, conn net.Conn, err error) {},
	Closed:          func(id uuid.UUID, err error) {},
	ParseError:      func(id uuid.UUID, err error) {},
	ReadError:       func(id uuid.UUID, err error) {},
	WriteError:      func(id uuid.UUID, err error) {},
}

// WithTrace returns a context carrying trace, for passing through New.
func WithTrace(ctx context.Context, trace *Trace) context.Context {
	return context.WithValue(ctx, traceContextKey{}, trace)
}

// ContextTrace returns the Trace associated with ctx, with any unset
// field filled in from NoOpLoggingHooks.
func ContextTrace(ctx context.Context) *Trace {
	trace, _ := ctx.Value(traceContextKey{}).(*Trace)
	if trace == nil {
		trace = &Trace{}
		*trace = *NoOpLoggingHooks
		return trace
	}
	merged := *trace
	_ = mergo.Merge(&merged, NoOpLoggingHooks) // nolint: errcheck
	return &merged
}
