package server

import (
	"errors"
	"io"
	"net"

	"github.com/google/uuid"

	"github.com/hcnet/respd/command"
	"github.com/hcnet/respd/resp"
)

// errCleanEOF is a private sentinel distinguishing "the client closed the
// connection at a frame boundary" from every other, fatal error. It never
// escapes this package.
var errCleanEOF = errors.New("server: clean eof")

// connHandler adapts one net.Conn to the read-parse-apply-write cycle
// spec.md §2 describes, using resp.Conn for the wire codec (C2-C4) and
// command.Parse for the command model (C5).
type connHandler struct {
	id    uuid.UUID
	rc    *resp.Conn
	trace *Trace
}

func newConnHandler(id uuid.UUID, nc net.Conn, cfg Config, trace *Trace) *connHandler {
	return &connHandler{
		id:    id,
		rc:    resp.NewConn(nc, cfg.respOptions()...),
		trace: trace,
	}
}

// serveOne reads exactly one frame and, if it parses as a command,
// applies it and writes the reply. It returns errCleanEOF when the
// client closed the connection at a frame boundary, nil after a command
// parse error has been reported and replied to (the connection stays
// open), and any other error when the connection must close.
func (h *connHandler) serveOne(store command.Store) error {
	frame, err := h.rc.ReadFrame()
	if err != nil {
		if err == io.EOF {
			return errCleanEOF
		}
		h.trace.ReadError(h.id, err)
		return err
	}

	cmd, err := command.Parse(frame)
	if err != nil {
		h.trace.ParseError(h.id, err)
		// The stream is still synchronized: only the command's meaning
		// was rejected, not its framing. Reply with an Error frame and
		// keep reading, per SPEC_FULL.md's resolution of spec.md §9's
		// open question.
		if werr := h.rc.WriteFrame(resp.Error([]byte("ERR " + err.Error()))); werr != nil {
			h.trace.WriteError(h.id, werr)
			return werr
		}
		return nil
	}

	reply := store.Apply(cmd)
	if err := h.rc.WriteFrame(reply); err != nil {
		h.trace.WriteError(h.id, err)
		return err
	}
	return nil
}
