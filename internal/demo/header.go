package demo

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"
	"unicode/utf8"
)

const (
	Magic     = "HL2DEMO\x00"
	Protocol  = int32(3)
	MaxOSPath = 260

	// HeaderLen is magic + 2 protocol ints + 4 path strings + time/ticks/frames/signon.
	HeaderLen = len(Magic) + 2*4 + 4*MaxOSPath + 4*4
)

// Header is the fixed file header.
type Header struct {
	DemoProtocol int32
	NetProtocol  int32
	ServerName   string
	ClientName   string
	MapName      string
	GameDir      string

	// Time is the playback length in seconds.
	Time   float32
	Ticks  int32
	Frames int32

	// SignOnLength is the byte length of the sign-on data following the header.
	SignOnLength int32
}

// Duration converts Time to a time.Duration.
func (h Header) Duration() time.Duration {
	return time.Duration(float64(h.Time) * float64(time.Second))
}

// TickRate returns ticks per second, or 0 for a zero-length demo.
func (h Header) TickRate() float64 {
	if h.Time <= 0 {
		return 0
	}
	return float64(h.Ticks) / float64(h.Time)
}

// headerReader walks a fixed header buffer. Bounds are checked once up front
// by DecodeHeader, so reads index directly.
type headerReader struct {
	buf []byte
	cur int
}

func (r *headerReader) next(n int) []byte {
	b := r.buf[r.cur : r.cur+n]
	r.cur += n
	return b
}

func (r *headerReader) int32() int32 {
	return int32(binary.LittleEndian.Uint32(r.next(4)))
}

func (r *headerReader) float32() float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(r.next(4)))
}

func (r *headerReader) path(field string) (string, error) {
	b := r.next(MaxOSPath)
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: %s", ErrInvalidString, field)
	}
	return string(b), nil
}

// DecodeHeader validates and decodes the fixed header at the start of buf.
// Bytes past HeaderLen are ignored.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderLen {
		return Header{}, fmt.Errorf("%w: header needs %d bytes, have %d", ErrTruncated, HeaderLen, len(buf))
	}
	r := &headerReader{buf: buf}

	if !bytes.Equal(r.next(len(Magic)), []byte(Magic)) {
		return Header{}, ErrBadMagic
	}

	var h Header
	h.DemoProtocol = r.int32()
	if h.DemoProtocol != Protocol {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedProtocol, h.DemoProtocol)
	}
	h.NetProtocol = r.int32()

	var err error
	if h.ServerName, err = r.path("server_name"); err != nil {
		return Header{}, err
	}
	if h.ClientName, err = r.path("client_name"); err != nil {
		return Header{}, err
	}
	if h.MapName, err = r.path("map_name"); err != nil {
		return Header{}, err
	}
	if h.GameDir, err = r.path("game_dir"); err != nil {
		return Header{}, err
	}

	h.Time = r.float32()
	h.Ticks = r.int32()
	h.Frames = r.int32()
	h.SignOnLength = r.int32()

	if r.cur != HeaderLen {
		return Header{}, fmt.Errorf("%w: header consumed %d bytes, want %d", ErrInvalidLength, r.cur, HeaderLen)
	}
	return h, nil
}

// EncodeHeader writes h in the fixed header layout, NUL padding every path.
func EncodeHeader(h Header) ([]byte, error) {
	buf := make([]byte, HeaderLen)
	cur := copy(buf, Magic)

	putInt := func(v uint32) {
		binary.LittleEndian.PutUint32(buf[cur:cur+4], v)
		cur += 4
	}
	putInt(uint32(h.DemoProtocol))
	putInt(uint32(h.NetProtocol))

	fields := []struct {
		name  string
		value string
	}{
		{"server_name", h.ServerName},
		{"client_name", h.ClientName},
		{"map_name", h.MapName},
		{"game_dir", h.GameDir},
	}
	for _, f := range fields {
		// one byte is reserved for the terminator
		if len(f.value) >= MaxOSPath {
			return nil, fmt.Errorf("%w: %s is %d bytes", ErrStringTooLong, f.name, len(f.value))
		}
		copy(buf[cur:cur+MaxOSPath], f.value)
		cur += MaxOSPath
	}

	putInt(math.Float32bits(h.Time))
	putInt(uint32(h.Ticks))
	putInt(uint32(h.Frames))
	putInt(uint32(h.SignOnLength))
	return buf, nil
}

// Open decodes the header of a whole demo file and returns an iterator over
// the message stream that follows it.
func Open(file []byte, opts ...Option) (Header, *Iterator, error) {
	h, err := DecodeHeader(file)
	if err != nil {
		return Header{}, nil, err
	}
	return h, NewIterator(file[HeaderLen:], opts...), nil
}
