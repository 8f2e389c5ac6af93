package demo

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
)

func (r Record) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "@%d tick=%d cmd=%s len=%d", r.Offset, r.Tick, r.Command, len(r.Payload))
	if r.Frame != nil {
		fmt.Fprintf(&b, " server=%d client=%d", r.Frame.Server, r.Frame.Client)
	}
	return b.String()
}

// ConsoleText returns the command line carried by a ConsoleCmd record.
func (r Record) ConsoleText() (string, bool) {
	if r.Command != ConsoleCmd {
		return "", false
	}
	p := r.Payload
	if i := bytes.IndexByte(p, 0); i >= 0 {
		p = p[:i]
	}
	return string(p), true
}

// Disassemble writes one summary line for r, the console text for
// ConsoleCmd, and a hex preview of at most hexBytes payload bytes.
func Disassemble(w io.Writer, r Record, hexBytes int) error {
	if _, err := fmt.Fprintln(w, r.String()); err != nil {
		return err
	}
	if text, ok := r.ConsoleText(); ok {
		if _, err := fmt.Fprintf(w, "    cmd %s\n", strconv.Quote(text)); err != nil {
			return err
		}
	}
	if hexBytes <= 0 || len(r.Payload) == 0 {
		return nil
	}
	p := r.Payload
	more := ""
	if len(p) > hexBytes {
		more = fmt.Sprintf(" ... (+%d bytes)", len(p)-hexBytes)
		p = p[:hexBytes]
	}
	_, err := fmt.Fprintf(w, "    %s%s\n", hex.EncodeToString(p), more)
	return err
}
