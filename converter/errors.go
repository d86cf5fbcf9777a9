package converter

import "errors"

var (
	// ErrUsage reports a caller or configuration mistake.
	ErrUsage = errors.New("usage error")
	// ErrDecode reports a source that could not be read or decoded.
	ErrDecode = errors.New("decode error")
	// ErrEncode reports a destination that could not be encoded or written.
	ErrEncode = errors.New("encode error")
)
