package demo

import (
	"errors"
	"fmt"
)

var (
	ErrBadMagic            = errors.New("demo: bad magic")
	ErrUnsupportedProtocol = errors.New("demo: unsupported demo protocol")
	ErrTruncated           = errors.New("demo: truncated data")
	ErrInvalidString       = errors.New("demo: invalid utf-8 string")
	ErrUnknownCommand      = errors.New("demo: unknown command")
	ErrUnexpectedEOF       = errors.New("demo: stream ended without stop")
	ErrInvalidLength       = errors.New("demo: invalid length")
	ErrPayloadTooLarge     = errors.New("demo: payload too large")
	ErrStringTooLong       = errors.New("demo: string too long")
)

// StreamError locates a framing failure inside the message stream.
type StreamError struct {
	Offset int
	Tag    byte
	Err    error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("%v (offset=%d tag=%d)", e.Err, e.Offset, e.Tag)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}
