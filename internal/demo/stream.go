package demo

import (
	"encoding/binary"
	"fmt"
)

const (
	tagLen   = 1
	tickLen  = 4
	frameLen = 12
	sizeLen  = 4
)

// Frame is the envelope in front of SignOn and Packet payloads.
type Frame struct {
	Server        int32
	Client        int32
	SubPacketSize int32
}

// Record is one framed message. Payload aliases the source buffer.
type Record struct {
	Offset  int
	Tick    int32
	Command Command
	Frame   *Frame
	Payload []byte
}

// Len returns the encoded size of the record in bytes.
func (r Record) Len() int {
	n := tagLen + tickLen
	switch {
	case r.Command.HasFrame():
		n += frameLen
	case r.Command.LengthPrefixed():
		n += sizeLen
	}
	return n + len(r.Payload)
}

// Limits constrains what a single record may declare.
type Limits struct {
	MaxPayloadBytes int
}

func DefaultLimits() Limits {
	return Limits{
		MaxPayloadBytes: 64 * 1024 * 1024,
	}
}

type Option func(*Iterator)

func WithLimits(l Limits) Option {
	return func(it *Iterator) {
		it.limits = l
	}
}

// Iterator walks a message stream one record at a time.
//
//	it := demo.NewIterator(stream)
//	for it.Next() {
//		rec := it.Record()
//	}
//	if err := it.Err(); err != nil { ... }
//
// An Iterator is not safe for concurrent use.
type Iterator struct {
	buf    []byte
	pos    int
	limits Limits

	rec     Record
	frame   Frame
	err     error
	stopped bool
	eof     bool
}

func NewIterator(stream []byte, opts ...Option) *Iterator {
	it := &Iterator{
		buf:    stream,
		limits: DefaultLimits(),
	}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

// Next advances to the next record. It returns false once Stop has been
// yielded, the buffer is exhausted, or framing failed.
func (it *Iterator) Next() bool {
	if it.err != nil || it.stopped || it.eof {
		return false
	}
	if it.pos == len(it.buf) {
		it.eof = true
		return false
	}
	rec, next, err := it.read(it.pos)
	if err != nil {
		it.err = err
		return false
	}
	it.pos = next
	it.rec = rec
	if rec.Command == Stop {
		it.stopped = true
	}
	return true
}

// Record returns the current record. The Frame pointer and Payload are only
// valid until the following call to Next.
func (it *Iterator) Record() Record {
	return it.rec
}

func (it *Iterator) Err() error {
	return it.err
}

// Stopped reports whether a Stop record has been yielded.
func (it *Iterator) Stopped() bool {
	return it.stopped
}

// UnexpectedEOF reports whether the buffer ran out on a record boundary
// before any Stop record.
func (it *Iterator) UnexpectedEOF() bool {
	return it.eof && !it.stopped
}

// Offset returns the cursor position relative to the stream start.
func (it *Iterator) Offset() int {
	return it.pos
}

// Result folds the terminal state into one error: the framing error if any,
// ErrUnexpectedEOF when the stream ended without Stop, nil otherwise.
func (it *Iterator) Result() error {
	if it.err != nil {
		return it.err
	}
	if it.UnexpectedEOF() {
		return &StreamError{Offset: it.pos, Err: ErrUnexpectedEOF}
	}
	return nil
}

func (it *Iterator) read(start int) (Record, int, error) {
	cur := start
	if len(it.buf)-cur < tagLen {
		return Record{}, 0, &StreamError{Offset: start, Err: ErrTruncated}
	}
	tag := it.buf[cur]
	cmd := Command(tag)
	fail := func(err error) (Record, int, error) {
		return Record{}, 0, &StreamError{Offset: start, Tag: tag, Err: err}
	}
	if !cmd.Valid() {
		return fail(ErrUnknownCommand)
	}
	cur += tagLen
	if len(it.buf)-cur < tickLen {
		return fail(ErrTruncated)
	}
	rec := Record{
		Offset:  start,
		Tick:    int32(binary.LittleEndian.Uint32(it.buf[cur : cur+tickLen])),
		Command: cmd,
	}
	cur += tickLen

	var size int32
	switch {
	case cmd.HasFrame():
		if len(it.buf)-cur < frameLen {
			return fail(ErrTruncated)
		}
		it.frame = Frame{
			Server:        int32(binary.LittleEndian.Uint32(it.buf[cur : cur+4])),
			Client:        int32(binary.LittleEndian.Uint32(it.buf[cur+4 : cur+8])),
			SubPacketSize: int32(binary.LittleEndian.Uint32(it.buf[cur+8 : cur+12])),
		}
		rec.Frame = &it.frame
		size = it.frame.SubPacketSize
		cur += frameLen
	case cmd.LengthPrefixed():
		if len(it.buf)-cur < sizeLen {
			return fail(ErrTruncated)
		}
		size = int32(binary.LittleEndian.Uint32(it.buf[cur : cur+sizeLen]))
		cur += sizeLen
	default:
		// SyncTick and Stop carry only the tick.
		return rec, cur, nil
	}

	if size < 0 {
		return fail(fmt.Errorf("%w: %d", ErrInvalidLength, size))
	}
	if it.limits.MaxPayloadBytes > 0 && int(size) > it.limits.MaxPayloadBytes {
		return fail(fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, size, it.limits.MaxPayloadBytes))
	}
	if int(size) > len(it.buf)-cur {
		return fail(fmt.Errorf("%w: payload needs %d bytes, have %d", ErrTruncated, size, len(it.buf)-cur))
	}
	end := cur + int(size)
	rec.Payload = it.buf[cur:end:end]
	return rec, end, nil
}
