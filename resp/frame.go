// Package resp implements the subset of the REdis Serialization Protocol
// wire format needed by respd: Simple Strings, Errors, Integers, Bulk
// Strings, Arrays, Null and Boolean frames, plus the stream codec and
// buffered connection that read and write them.
//
// Wire format summary (CRLF is always 0x0D 0x0A):
//
//	+OK\r\n              Simple String
//	-ERR message\r\n      Error
//	:1000\r\n             Integer
//	$5\r\nhello\r\n       Bulk String
//	$-1\r\n               Null Bulk String
//	*2\r\n...\r\n         Array
//	*-1\r\n               Null Array
//	_\r\n                 Null
//	#t\r\n / #f\r\n       Boolean
package resp

import "github.com/pkg/errors"

// Kind identifies a Frame variant. Its value is the one-byte wire prefix
// for that variant, so the mapping between variant and prefix can never
// drift out of sync: encoding and decoding both dispatch on the same
// constant.
type Kind byte

// The complete set of frame kinds this package understands.
const (
	KindString  Kind = '+'
	KindError   Kind = '-'
	KindInteger Kind = ':'
	KindBulk    Kind = '$'
	KindArray   Kind = '*'
	KindNull    Kind = '_'
	KindBoolean Kind = '#'
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindError:
		return "error"
	case KindInteger:
		return "integer"
	case KindBulk:
		return "bulk"
	case KindArray:
		return "array"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	default:
		return "invalid"
	}
}

// ParseKind looks up the Kind associated with a wire prefix byte. It
// returns ErrInvalidPrefix if b is not one of the recognised prefixes.
func ParseKind(b byte) (Kind, error) {
	switch Kind(b) {
	case KindString, KindError, KindInteger, KindBulk, KindArray, KindNull, KindBoolean:
		return Kind(b), nil
	default:
		return 0, errors.Wrapf(ErrInvalidPrefix, "byte %q", b)
	}
}

// Frame is a single RESP value: one top-level message, or one element of
// an Array. Frame has value semantics; two Frames are equal when Equal
// reports true, independent of their construction history.
//
// Bulk and Array each carry a Null bit distinguishing the empty value
// (zero-length bulk, zero-element array) from the null value ($-1, *-1).
// These are different frames on the wire and must never be collapsed.
type Frame struct {
	kind    Kind
	null    bool // meaningful only for KindBulk and KindArray
	bytes   []byte
	integer int64
	boolean bool
	items   []Frame
}

// String constructs a Simple String frame. payload must not contain CR or
// LF; callers that cannot guarantee this should use Bulk instead.
func String(payload []byte) Frame { return Frame{kind: KindString, bytes: payload} }

// Error constructs an Error frame. Same payload constraints as String.
func Error(payload []byte) Frame { return Frame{kind: KindError, bytes: payload} }

// Integer constructs an Integer frame.
func Integer(v int64) Frame { return Frame{kind: KindInteger, integer: v} }

// Bulk constructs a non-null Bulk String frame. payload may contain
// arbitrary bytes, including CR, LF and NUL.
func Bulk(payload []byte) Frame { return Frame{kind: KindBulk, bytes: payload} }

// NullBulk constructs the null Bulk String frame ($-1\r\n).
func NullBulk() Frame { return Frame{kind: KindBulk, null: true} }

// Array constructs a non-null Array frame from items. A nil or empty
// items slice produces the empty array (*0\r\n), distinct from NullArray.
func Array(items []Frame) Frame { return Frame{kind: KindArray, items: items} }

// NullArray constructs the null Array frame (*-1\r\n).
func NullArray() Frame { return Frame{kind: KindArray, null: true} }

// Null constructs the no-payload Null frame (_\r\n).
func Null() Frame { return Frame{kind: KindNull} }

// Boolean constructs a Boolean frame.
func Boolean(v bool) Frame { return Frame{kind: KindBoolean, boolean: v} }

// Kind reports the frame's variant.
func (f Frame) Kind() Kind { return f.kind }

// IsNull reports whether f is the null Bulk or null Array value. It is
// false for every other kind, including Null itself (use Kind() ==
// KindNull to test for that).
func (f Frame) IsNull() bool {
	return (f.kind == KindBulk || f.kind == KindArray) && f.null
}

// Bytes returns the payload of a String or non-null Bulk frame. Any other
// kind (including Error, and the null Bulk) returns ok == false, matching
// the command parser's need to distinguish "usable as a byte string" from
// "everything else".
func (f Frame) Bytes() ([]byte, bool) {
	switch {
	case f.kind == KindString:
		return f.bytes, true
	case f.kind == KindBulk && !f.null:
		return f.bytes, true
	default:
		return nil, false
	}
}

// ErrorText returns the payload of an Error frame.
func (f Frame) ErrorText() (string, bool) {
	if f.kind != KindError {
		return "", false
	}
	return string(f.bytes), true
}

// Int returns the value of an Integer frame.
func (f Frame) Int() (int64, bool) {
	if f.kind != KindInteger {
		return 0, false
	}
	return f.integer, true
}

// Bool returns the value of a Boolean frame.
func (f Frame) Bool() (bool, bool) {
	if f.kind != KindBoolean {
		return false, false
	}
	return f.boolean, true
}

// Items returns the elements of a non-null Array frame.
func (f Frame) Items() ([]Frame, bool) {
	if f.kind != KindArray || f.null {
		return nil, false
	}
	return f.items, true
}

// Equal reports whether f and other represent the same RESP value,
// recursively for Array frames. It never considers construction history
// or capacity of backing slices, only the logical value.
func (f Frame) Equal(other Frame) bool {
	if f.kind != other.kind {
		return false
	}
	switch f.kind {
	case KindString, KindError:
		return string(f.bytes) == string(other.bytes)
	case KindInteger:
		return f.integer == other.integer
	case KindBoolean:
		return f.boolean == other.boolean
	case KindNull:
		return true
	case KindBulk:
		if f.null != other.null {
			return false
		}
		return f.null || string(f.bytes) == string(other.bytes)
	case KindArray:
		if f.null != other.null {
			return false
		}
		if f.null {
			return true
		}
		if len(f.items) != len(other.items) {
			return false
		}
		for i := range f.items {
			if !f.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
