package resp

import (
	"strconv"

	"github.com/pkg/errors"
)

// pendingArray tracks one Array frame that is still accumulating
// children. ReadFrame keeps an explicit stack of these instead of
// recursing, so that adversarial nesting depth is bounded by heap, not by
// the goroutine's call stack.
type pendingArray struct {
	items []Frame
	want  int
}

func (p *pendingArray) complete() bool { return len(p.items) == p.want }

// ReadFrame reads and returns one complete top-level Frame.
//
//   - A nil error means f is a fully decoded frame.
//   - io.EOF means the stream ended cleanly at a frame boundary: no bytes
//     of a new frame had been consumed yet. This is not an error; the
//     caller should stop reading.
//   - Any other error means the stream is desynchronized (a malformed
//     header, a missing terminator, or EOF in the middle of a frame) and
//     the connection must be closed; it cannot be resumed.
func (c *Conn) ReadFrame() (Frame, error) {
	var stack []*pendingArray

	for {
		// Fold any arrays that are now complete, innermost first, before
		// reading anything else.
		for len(stack) > 0 && stack[len(stack)-1].complete() {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			arr := Array(top.items)
			if len(stack) == 0 {
				return arr, nil
			}
			parent := stack[len(stack)-1]
			parent.items = append(parent.items, arr)
		}

		topLevel := len(stack) == 0

		b, err := c.readByte(topLevel)
		if err != nil {
			return Frame{}, err
		}
		kind, err := ParseKind(b)
		if err != nil {
			return Frame{}, err
		}

		f, pushed, err := c.readFrameBody(kind, &stack)
		if err != nil {
			return Frame{}, err
		}
		if pushed {
			continue
		}
		if len(stack) == 0 {
			return f, nil
		}
		top := stack[len(stack)-1]
		top.items = append(top.items, f)
	}
}

// readFrameBody reads the header and (for non-array kinds) payload that
// follows a prefix byte already consumed from the stream. For a non-null,
// non-empty Array it pushes a new pendingArray onto stack and reports
// pushed == true; the caller must not treat the zero Frame it returns as
// meaningful in that case.
func (c *Conn) readFrameBody(kind Kind, stack *[]*pendingArray) (f Frame, pushed bool, err error) {
	switch kind {
	case KindArray:
		n, err := c.readLength()
		if err != nil {
			return Frame{}, false, err
		}
		switch {
		case n == -1:
			return NullArray(), false, nil
		case n == 0:
			return Array(nil), false, nil
		default:
			*stack = append(*stack, &pendingArray{items: make([]Frame, 0, n), want: int(n)})
			return Frame{}, true, nil
		}

	case KindBulk:
		n, err := c.readLength()
		if err != nil {
			return Frame{}, false, err
		}
		if n == -1 {
			return NullBulk(), false, nil
		}
		payload, err := c.readExact(int(n))
		if err != nil {
			return Frame{}, false, err
		}
		if err := c.expectCRLF(); err != nil {
			return Frame{}, false, err
		}
		return Bulk(payload), false, nil

	case KindInteger:
		line, err := c.readLine()
		if err != nil {
			return Frame{}, false, err
		}
		v, err := parseSignedInt(line)
		if err != nil {
			return Frame{}, false, err
		}
		return Integer(v), false, nil

	case KindString:
		line, err := c.readLine()
		if err != nil {
			return Frame{}, false, err
		}
		return String(line), false, nil

	case KindError:
		line, err := c.readLine()
		if err != nil {
			return Frame{}, false, err
		}
		return Error(line), false, nil

	case KindNull:
		line, err := c.readLine()
		if err != nil {
			return Frame{}, false, err
		}
		if len(line) != 0 {
			return Frame{}, false, errors.Wrap(ErrMissingTerminator, "resp: non-empty null header")
		}
		return Null(), false, nil

	case KindBoolean:
		line, err := c.readLine()
		if err != nil {
			return Frame{}, false, err
		}
		if len(line) != 1 {
			return Frame{}, false, ErrInvalidBool
		}
		switch line[0] {
		case 't':
			return Boolean(true), false, nil
		case 'f':
			return Boolean(false), false, nil
		default:
			return Frame{}, false, ErrInvalidBool
		}

	default:
		// ParseKind already rejects anything else before we get here.
		return Frame{}, false, errors.Wrapf(ErrInvalidPrefix, "byte %q", byte(kind))
	}
}

// readLength reads a $/* header line and parses it as either -1 (null)
// or a non-negative length, enforcing ReadLimit if one was configured.
func (c *Conn) readLength() (int64, error) {
	line, err := c.readLine()
	if err != nil {
		return 0, err
	}
	n, err := parseSignedInt(line)
	if err != nil {
		return 0, err
	}
	if n < -1 {
		return 0, errors.Wrapf(ErrParseInt, "negative length %d", n)
	}
	if c.readLimit > 0 && n > c.readLimit {
		return 0, errors.Wrapf(ErrTooLarge, "length %d exceeds limit %d", n, c.readLimit)
	}
	return n, nil
}

// parseSignedInt parses a decimal integer header. A leading '+' is
// rejected (RESP headers never emit one); a leading '-' is accepted so
// that both Integer frames and the -1 null-length sentinel parse
// correctly.
func parseSignedInt(line []byte) (int64, error) {
	if len(line) == 0 {
		return 0, errors.Wrap(ErrParseInt, "empty integer header")
	}
	if line[0] == '+' {
		return 0, errors.Wrap(ErrParseInt, "leading '+' not allowed")
	}
	v, err := strconv.ParseInt(string(line), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrParseInt, "%q: %v", line, err)
	}
	return v, nil
}
