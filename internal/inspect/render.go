package inspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/viktor-ku/forcefield/internal/demo"
)

func WriteText(w io.Writer, r *Report, hexBytes int) error {
	h := r.Header
	var b strings.Builder
	fmt.Fprintf(&b, "file:           %s (%d bytes, %s)\n", r.Path, r.Size, r.Kind)
	fmt.Fprintf(&b, "demo protocol:  %d\n", h.DemoProtocol)
	fmt.Fprintf(&b, "net protocol:   %d\n", h.NetProtocol)
	fmt.Fprintf(&b, "server name:    %s\n", h.ServerName)
	fmt.Fprintf(&b, "client name:    %s\n", h.ClientName)
	fmt.Fprintf(&b, "map name:       %s\n", h.MapName)
	fmt.Fprintf(&b, "game dir:       %s\n", h.GameDir)
	fmt.Fprintf(&b, "time:           %.3fs (%s)\n", h.Time, h.Duration())
	fmt.Fprintf(&b, "ticks:          %d (%.2f/s)\n", h.Ticks, h.TickRate())
	fmt.Fprintf(&b, "frames:         %d\n", h.Frames)
	fmt.Fprintf(&b, "signon length:  %d\n", h.SignOnLength)

	s := r.Summary
	fmt.Fprintf(&b, "records:        %d (%d payload bytes, ticks %d..%d)\n", s.Records, s.PayloadBytes, s.FirstTick, s.LastTick)
	for _, c := range demo.Commands() {
		if n := s.ByCommand[c]; n > 0 {
			fmt.Fprintf(&b, "  %-13s %d\n", c.String()+":", n)
		}
	}
	switch {
	case r.StreamErr != nil:
		fmt.Fprintf(&b, "stream:         error: %v\n", r.StreamErr)
	case s.Stopped:
		fmt.Fprintf(&b, "stream:         stopped\n")
	case s.UnexpectedEOF:
		fmt.Fprintf(&b, "stream:         ended without stop\n")
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	if len(r.Records) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "preview (%d records):\n", len(r.Records)); err != nil {
		return err
	}
	for _, rec := range r.Records {
		if err := demo.Disassemble(w, rec, hexBytes); err != nil {
			return err
		}
	}
	return nil
}

type jsonFrame struct {
	Server        int32 `json:"server"`
	Client        int32 `json:"client"`
	SubPacketSize int32 `json:"sub_packet_size"`
}

type jsonRecord struct {
	Offset  int        `json:"offset"`
	Tick    int32      `json:"tick"`
	Command string     `json:"command"`
	Length  int        `json:"length"`
	Frame   *jsonFrame `json:"frame,omitempty"`
	Console string     `json:"console,omitempty"`
}

type jsonHeader struct {
	DemoProtocol int32   `json:"demo_protocol"`
	NetProtocol  int32   `json:"net_protocol"`
	ServerName   string  `json:"server_name"`
	ClientName   string  `json:"client_name"`
	MapName      string  `json:"map_name"`
	GameDir      string  `json:"game_dir"`
	Time         float32 `json:"time"`
	Ticks        int32   `json:"ticks"`
	Frames       int32   `json:"frames"`
	SignOnLength int32   `json:"sign_on_length"`
}

type jsonSummary struct {
	Records       int            `json:"records"`
	PayloadBytes  int            `json:"payload_bytes"`
	ByCommand     map[string]int `json:"by_command"`
	FirstTick     int32          `json:"first_tick"`
	LastTick      int32          `json:"last_tick"`
	Stopped       bool           `json:"stopped"`
	UnexpectedEOF bool           `json:"unexpected_eof"`
}

type jsonReport struct {
	Path    string       `json:"path"`
	Kind    string       `json:"kind"`
	Size    int          `json:"size"`
	Header  jsonHeader   `json:"header"`
	Summary jsonSummary  `json:"summary"`
	Records []jsonRecord `json:"records"`
	Error   string       `json:"error,omitempty"`
}

func toJSON(r *Report) jsonReport {
	h := r.Header
	out := jsonReport{
		Path: r.Path,
		Kind: r.Kind,
		Size: r.Size,
		Header: jsonHeader{
			DemoProtocol: h.DemoProtocol,
			NetProtocol:  h.NetProtocol,
			ServerName:   h.ServerName,
			ClientName:   h.ClientName,
			MapName:      h.MapName,
			GameDir:      h.GameDir,
			Time:         h.Time,
			Ticks:        h.Ticks,
			Frames:       h.Frames,
			SignOnLength: h.SignOnLength,
		},
		Summary: jsonSummary{
			Records:       r.Summary.Records,
			PayloadBytes:  r.Summary.PayloadBytes,
			ByCommand:     make(map[string]int, len(r.Summary.ByCommand)),
			FirstTick:     r.Summary.FirstTick,
			LastTick:      r.Summary.LastTick,
			Stopped:       r.Summary.Stopped,
			UnexpectedEOF: r.Summary.UnexpectedEOF,
		},
		Records: make([]jsonRecord, 0, len(r.Records)),
	}
	for c, n := range r.Summary.ByCommand {
		out.Summary.ByCommand[c.String()] = n
	}
	for _, rec := range r.Records {
		jr := jsonRecord{
			Offset:  rec.Offset,
			Tick:    rec.Tick,
			Command: rec.Command.String(),
			Length:  len(rec.Payload),
		}
		if rec.Frame != nil {
			jr.Frame = &jsonFrame{Server: rec.Frame.Server, Client: rec.Frame.Client, SubPacketSize: rec.Frame.SubPacketSize}
		}
		if text, ok := rec.ConsoleText(); ok {
			jr.Console = text
		}
		out.Records = append(out.Records, jr)
	}
	if r.StreamErr != nil {
		out.Error = r.StreamErr.Error()
	}
	return out
}

func WriteJSON(w io.Writer, r *Report) error {
	b, err := sonic.ConfigStd.MarshalIndent(toJSON(r), "", "  ")
	if err != nil {
		return fmt.Errorf("inspect: marshal report: %w", err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
