package resp

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

const defaultBufferSize = 4096

// Option configures a Conn at construction time.
type Option func(*Conn)

// WithInitialBufferSize sets the starting capacity of the read and write
// buffers. Both grow on demand past this size; it only affects how many
// reallocations a connection pays for under load. The default is 4096
// bytes, matching the default reader buffer size conventions used
// elsewhere in this stack (see netconf/rfc6242's defaultReaderBufferSize).
func WithInitialBufferSize(n int) Option {
	return func(c *Conn) {
		if n > 0 {
			c.initialCap = n
		}
	}
}

// WithReadLimit bounds the payload length a Bulk header or the element
// count of an Array header may declare. A header exceeding the limit
// fails fast with ErrTooLarge instead of growing the read buffer without
// bound. Zero (the default) means no limit.
func WithReadLimit(n int64) Option {
	return func(c *Conn) {
		c.readLimit = n
	}
}

// Conn is a buffered RESP connection over a byte stream. It owns growable
// read and write buffers and exposes ReadFrame/WriteFrame as its only
// public surface; callers never see the buffering underneath.
//
// A Conn is not safe for concurrent use: per spec, only one frame is ever
// in flight on a connection at a time (no pipelining), so the connection
// goroutine is the only caller.
type Conn struct {
	r io.Reader
	w io.Writer

	rbuf []byte
	rpos int // index of first unread byte
	rend int // index one past last valid byte

	wbuf []byte

	initialCap int
	readLimit  int64
}

// NewConn wraps rw as a buffered RESP connection.
func NewConn(rw io.ReadWriter, opts ...Option) *Conn {
	return NewConnReaderWriter(rw, rw, opts...)
}

// NewConnReaderWriter wraps a separate reader and writer as a buffered
// RESP connection; useful for pipes and tests that drive each direction
// independently.
func NewConnReaderWriter(r io.Reader, w io.Writer, opts ...Option) *Conn {
	c := &Conn{r: r, w: w, initialCap: defaultBufferSize}
	for _, opt := range opts {
		opt(c)
	}
	c.rbuf = make([]byte, c.initialCap)
	c.wbuf = make([]byte, 0, c.initialCap)
	return c
}

// fill reads more bytes from the underlying reader into rbuf, compacting
// or growing the buffer first if it is full. It returns once at least one
// more byte is available, or an error (possibly io.EOF) otherwise.
func (c *Conn) fill() error {
	for {
		if c.rpos > 0 && c.rend == len(c.rbuf) {
			n := copy(c.rbuf, c.rbuf[c.rpos:c.rend])
			c.rend = n
			c.rpos = 0
		}
		if c.rend == len(c.rbuf) {
			c.growReadBuffer()
		}
		n, err := c.r.Read(c.rbuf[c.rend:])
		c.rend += n
		if n > 0 {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (c *Conn) growReadBuffer() {
	newCap := len(c.rbuf) * 2
	if newCap == 0 {
		newCap = defaultBufferSize
	}
	nb := make([]byte, newCap)
	copy(nb, c.rbuf[:c.rend])
	c.rbuf = nb
}

// readByte returns the next byte of the stream. When topLevel is true and
// the stream is cleanly at EOF (no bytes at all have been consumed for
// the frame in progress), it returns io.EOF unwrapped so ReadFrame can
// report a clean end of stream; any other EOF is ErrUnexpectedEOF.
func (c *Conn) readByte(topLevel bool) (byte, error) {
	if c.rpos == c.rend {
		if err := c.fill(); err != nil {
			if err == io.EOF {
				if topLevel {
					return 0, io.EOF
				}
				return 0, ErrUnexpectedEOF
			}
			return 0, errors.Wrap(err, "resp: read byte")
		}
	}
	b := c.rbuf[c.rpos]
	c.rpos++
	return b, nil
}

// readLine returns the bytes up to (but excluding) the next CRLF,
// consuming the CRLF from the stream. Any EOF encountered here is
// mid-frame and reported as ErrUnexpectedEOF.
func (c *Conn) readLine() ([]byte, error) {
	// scanned counts bytes after rpos already searched for LF. It is kept
	// relative to rpos because fill may compact the buffer and move rpos.
	scanned := 0
	for {
		if idx := bytes.IndexByte(c.rbuf[c.rpos+scanned:c.rend], '\n'); idx >= 0 {
			lf := c.rpos + scanned + idx
			if lf == c.rpos || c.rbuf[lf-1] != '\r' {
				return nil, ErrMissingTerminator
			}
			line := append([]byte(nil), c.rbuf[c.rpos:lf-1]...)
			c.rpos = lf + 1
			return line, nil
		}
		scanned = c.rend - c.rpos
		if err := c.fill(); err != nil {
			if err == io.EOF {
				return nil, ErrUnexpectedEOF
			}
			return nil, errors.Wrap(err, "resp: read line")
		}
	}
}

// readExact returns exactly n raw bytes, which may contain any byte
// value including CR and LF.
func (c *Conn) readExact(n int) ([]byte, error) {
	for c.rend-c.rpos < n {
		if err := c.fill(); err != nil {
			if err == io.EOF {
				return nil, ErrUnexpectedEOF
			}
			return nil, errors.Wrap(err, "resp: read exact")
		}
	}
	out := append([]byte(nil), c.rbuf[c.rpos:c.rpos+n]...)
	c.rpos += n
	return out, nil
}

// expectCRLF consumes exactly two bytes and requires them to be CR LF.
func (c *Conn) expectCRLF() error {
	term, err := c.readExact(2)
	if err != nil {
		return err
	}
	if term[0] != '\r' || term[1] != '\n' {
		return ErrMissingTerminator
	}
	return nil
}
