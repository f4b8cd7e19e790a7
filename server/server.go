// Package server owns the TCP acceptor and per-connection serve loop
// that sit outside spec.md's core (the codec lives in package resp; the
// command model in package command). It is deliberately thin: one
// goroutine accepts, one goroutine per accepted connection serves it,
// and every connection talks to the shared command.Store through the
// interface alone.
package server

import (
	"context"
	"net"

	"github.com/google/uuid"

	"github.com/hcnet/respd/command"
)

// DefaultAddress is the default bind address, matching spec.md §6.
const DefaultAddress = "127.0.0.1:6379"

// Server accepts TCP connections and serves RESP commands against a
// shared command.Store.
type Server struct {
	listener net.Listener
	store    command.Store
	cfg      Config
	trace    *Trace

	done chan struct{}
}

// New starts listening on address and begins accepting connections in a
// background goroutine, the way netconf/server/ssh.NewServer does. It
// returns once the listener is bound, not once it stops accepting.
func New(ctx context.Context, address string, store command.Store, opts ...Option) (*Server, error) {
	trace := ContextTrace(ctx)

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	listener, err := net.Listen("tcp", address)
	trace.Listened(address, err)
	if err != nil {
		return nil, err
	}

	s := &Server{
		listener: listener,
		store:    store,
		cfg:      cfg,
		trace:    trace,
		done:     make(chan struct{}),
	}

	go s.acceptConnections()

	return s, nil
}

// Addr returns the server's bound address. Useful when New was called
// with an ephemeral port ("127.0.0.1:0"), as tests do.
func (s *Server) Addr() net.Addr { return s.listener.Addr() }

// Close stops accepting new connections. In-flight connections are left
// to terminate on their next I/O error, per spec.md §5.
func (s *Server) Close() error {
	err := s.listener.Close()
	<-s.done
	return err
}

func (s *Server) acceptConnections() {
	defer close(s.done)

	s.trace.StartAccepting()
	for {
		conn, err := s.listener.Accept()
		id := uuid.Nil
		if err == nil {
			id = uuid.New()
		}
		s.trace.Accepted(id, conn, err)
		if err != nil {
			return
		}
		go s.serveConnection(id, conn)
	}
}

func (s *Server) serveConnection(id uuid.UUID, nc net.Conn) {
	defer nc.Close()

	err := s.serveLoop(id, nc)
	s.trace.Closed(id, err)
}

// serveLoop drives one connection: read a frame, parse it, apply it, and
// write back the reply, strictly in that order and one frame at a time
// (pipelining is not implemented, per spec.md §5). It returns nil on a
// clean end of stream and the first fatal error otherwise.
func (s *Server) serveLoop(id uuid.UUID, nc net.Conn) error {
	h := newConnHandler(id, nc, s.cfg, s.trace)
	for {
		err := h.serveOne(s.store)
		if err == nil {
			continue
		}
		if err == errCleanEOF {
			return nil
		}
		return err
	}
}
