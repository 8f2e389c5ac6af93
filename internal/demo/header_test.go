package demo

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"
)

func sampleHeader() Header {
	return Header{
		DemoProtocol: Protocol,
		NetProtocol:  13881,
		ServerName:   "Valve CS:GO EU West Server",
		ClientName:   "GOTV Demo",
		MapName:      "de_dust2",
		GameDir:      "csgo",
		Time:         2257.3906,
		Ticks:        144475,
		Frames:       72059,
		SignOnLength: 567420,
	}
}

func mustEncodeHeader(t *testing.T, h Header) []byte {
	t.Helper()
	buf, err := EncodeHeader(h)
	if err != nil {
		t.Fatalf("encode header: %v", err)
	}
	return buf
}

func TestHeaderLen(t *testing.T) {
	if HeaderLen != 1072 {
		t.Fatalf("unexpected header len: %d", HeaderLen)
	}
}

func TestDecodeHeaderRoundTrip(t *testing.T) {
	in := sampleHeader()
	buf := mustEncodeHeader(t, in)
	if len(buf) != HeaderLen {
		t.Fatalf("encoded len: got=%d want=%d", len(buf), HeaderLen)
	}

	out, err := DecodeHeader(buf)
	if err != nil {
		t.Fatalf("decode header: %v", err)
	}
	if out != in {
		t.Fatalf("header mismatch: got=%+v want=%+v", out, in)
	}

	again := mustEncodeHeader(t, out)
	if !bytes.Equal(buf, again) {
		t.Fatalf("re-encoded header differs")
	}
}

func TestDecodeHeaderFieldOffsets(t *testing.T) {
	buf := mustEncodeHeader(t, sampleHeader())
	if string(buf[0:8]) != Magic {
		t.Fatalf("magic at 0: %q", buf[0:8])
	}
	if buf[8] != 3 || buf[9] != 0 || buf[10] != 0 || buf[11] != 0 {
		t.Fatalf("demo protocol not little-endian at 8: % x", buf[8:12])
	}
	if got := string(buf[536 : 536+8]); got != "de_dust2" {
		t.Fatalf("map name at 536: %q", got)
	}
	if buf[536+8] != 0 {
		t.Fatalf("map name not terminated")
	}
	if got := string(buf[796 : 796+4]); got != "csgo" {
		t.Fatalf("game dir at 796: %q", got)
	}
	// sign_on_length 567420 = 0x0008A87C
	if !bytes.Equal(buf[1068:1072], []byte{0x7c, 0xa8, 0x08, 0x00}) {
		t.Fatalf("sign on length at 1068: % x", buf[1068:1072])
	}
}

func TestDecodeHeaderBadMagicEveryByte(t *testing.T) {
	base := mustEncodeHeader(t, sampleHeader())
	for i := 0; i < len(Magic); i++ {
		buf := append([]byte(nil), base...)
		buf[i] ^= 0xff
		if _, err := DecodeHeader(buf); !errors.Is(err, ErrBadMagic) {
			t.Fatalf("byte %d: expected ErrBadMagic, got %v", i, err)
		}
	}
}

func TestDecodeHeaderBadMagicIgnoresRest(t *testing.T) {
	buf := bytes.Repeat([]byte{0xff}, HeaderLen)
	copy(buf, "HL2DEMO!")
	if _, err := DecodeHeader(buf); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestDecodeHeaderUnsupportedProtocol(t *testing.T) {
	for _, proto := range []int32{0, 2, 4, -1, math.MaxInt32} {
		h := sampleHeader()
		h.DemoProtocol = proto
		_, err := DecodeHeader(mustEncodeHeader(t, h))
		if !errors.Is(err, ErrUnsupportedProtocol) {
			t.Fatalf("protocol %d: expected ErrUnsupportedProtocol, got %v", proto, err)
		}
	}
}

func TestDecodeHeaderTruncated(t *testing.T) {
	full := mustEncodeHeader(t, sampleHeader())
	for _, n := range []int{0, 1, 7, 8, 12, 500, HeaderLen - 1} {
		_, err := DecodeHeader(full[:n])
		if !errors.Is(err, ErrTruncated) {
			t.Fatalf("len %d: expected ErrTruncated, got %v", n, err)
		}
	}
}

func TestDecodeHeaderStringTruncation(t *testing.T) {
	buf := mustEncodeHeader(t, sampleHeader())
	field := buf[536 : 536+MaxOSPath]
	for i := range field {
		field[i] = 0xff
	}
	copy(field, "de_dust2\x00")

	h, err := DecodeHeader(buf)
	if err != nil {
		t.Fatalf("decode header: %v", err)
	}
	if h.MapName != "de_dust2" {
		t.Fatalf("unexpected map name: %q", h.MapName)
	}
}

func TestDecodeHeaderUnterminatedString(t *testing.T) {
	buf := mustEncodeHeader(t, sampleHeader())
	field := buf[16 : 16+MaxOSPath]
	for i := range field {
		field[i] = 'a'
	}
	h, err := DecodeHeader(buf)
	if err != nil {
		t.Fatalf("decode header: %v", err)
	}
	if len(h.ServerName) != MaxOSPath {
		t.Fatalf("unexpected server name len: %d", len(h.ServerName))
	}
}

func TestDecodeHeaderInvalidString(t *testing.T) {
	offsets := map[string]int{
		"server_name": 16,
		"client_name": 276,
		"map_name":    536,
		"game_dir":    796,
	}
	for name, off := range offsets {
		buf := mustEncodeHeader(t, sampleHeader())
		copy(buf[off:], []byte{'x', 0xc3, 0x28, 0})
		_, err := DecodeHeader(buf)
		if !errors.Is(err, ErrInvalidString) {
			t.Fatalf("%s: expected ErrInvalidString, got %v", name, err)
		}
	}
}

func TestDecodeHeaderIgnoresTrailingBytes(t *testing.T) {
	buf := append(mustEncodeHeader(t, sampleHeader()), 0xde, 0xad)
	if _, err := DecodeHeader(buf); err != nil {
		t.Fatalf("decode header: %v", err)
	}
}

func TestEncodeHeaderStringTooLong(t *testing.T) {
	h := sampleHeader()
	h.GameDir = string(bytes.Repeat([]byte{'g'}, MaxOSPath))
	if _, err := EncodeHeader(h); !errors.Is(err, ErrStringTooLong) {
		t.Fatalf("expected ErrStringTooLong, got %v", err)
	}
}

func TestHeaderDurationAndTickRate(t *testing.T) {
	h := Header{Time: 2, Ticks: 128}
	if h.Duration() != 2*time.Second {
		t.Fatalf("unexpected duration: %v", h.Duration())
	}
	if h.TickRate() != 64 {
		t.Fatalf("unexpected tick rate: %v", h.TickRate())
	}
	if (Header{Ticks: 10}).TickRate() != 0 {
		t.Fatalf("expected zero tick rate for zero time")
	}
}

func TestOpenMinimalFile(t *testing.T) {
	file := mustEncodeHeader(t, Header{DemoProtocol: Protocol})
	file = AppendRecord(file, Record{Command: Stop, Tick: 0})

	h, it, err := Open(file)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if h.ServerName != "" || h.ClientName != "" || h.MapName != "" || h.GameDir != "" {
		t.Fatalf("expected empty strings: %+v", h)
	}

	var got []Record
	for it.Next() {
		got = append(got, it.Record())
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iterate: %v", err)
	}
	if len(got) != 1 || got[0].Command != Stop {
		t.Fatalf("unexpected records: %+v", got)
	}
	if !it.Stopped() || it.UnexpectedEOF() {
		t.Fatalf("expected clean stop")
	}
}

func TestOpenPropagatesHeaderError(t *testing.T) {
	_, it, err := Open([]byte("HL2DEMO\x00"))
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if it != nil {
		t.Fatalf("expected nil iterator on failure")
	}
}
