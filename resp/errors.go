package resp

import "errors"

// Decode failure sentinels. Callers compare against these with errors.Is:
// ReadFrame returns some of them bare and wraps others with
// github.com/pkg/errors to attach the offending byte, length or header
// text, the way netconf/rfc6242 wraps its own scan errors.
var (
	// ErrUnexpectedEOF means the underlying stream ended while a frame was
	// partway through being read. The connection is desynchronized and
	// must be closed; there is no way to resume.
	ErrUnexpectedEOF = errors.New("resp: unexpected EOF mid-frame")

	// ErrInvalidPrefix means a byte was read where a frame prefix was
	// expected, and it did not match any known Kind.
	ErrInvalidPrefix = errors.New("resp: invalid frame prefix")

	// ErrInvalidBool means a Boolean frame's payload byte was not 't' or
	// 'f'.
	ErrInvalidBool = errors.New("resp: invalid boolean payload")

	// ErrMissingTerminator means a header or payload line was not
	// terminated by CRLF.
	ErrMissingTerminator = errors.New("resp: missing CRLF terminator")

	// ErrParseInt means a length or integer header could not be parsed as
	// a valid decimal integer (or, for length headers, as the integer
	// -1 or a non-negative value).
	ErrParseInt = errors.New("resp: invalid integer header")

	// ErrTooLarge means a Bulk or Array length header exceeded the
	// configured ReadLimit.
	ErrTooLarge = errors.New("resp: frame exceeds read limit")
)
