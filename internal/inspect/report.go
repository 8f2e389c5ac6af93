// Package inspect turns a loaded demo file into a printable report.
package inspect

import (
	"errors"
	"fmt"

	"github.com/viktor-ku/forcefield/internal/demo"
)

type Options struct {
	// Preview is the number of leading records kept for display.
	Preview  int
	HexBytes int
	// Strict turns a stream without Stop into a failure.
	Strict bool
	Limits demo.Limits
	// Only restricts the preview to these commands; empty keeps all.
	Only []demo.Command
}

func (o Options) previewed(c demo.Command) bool {
	if len(o.Only) == 0 {
		return true
	}
	for _, want := range o.Only {
		if c == want {
			return true
		}
	}
	return false
}

func DefaultOptions() Options {
	return Options{
		Preview:  16,
		HexBytes: 16,
		Limits:   demo.DefaultLimits(),
	}
}

// Report is the result of inspecting one file. Records hold copies so the
// report outlives the source buffer.
type Report struct {
	Path      string
	Kind      string
	Size      int
	Header    demo.Header
	Summary   demo.Summary
	Records   []demo.Record
	StreamErr error
}

// Err returns the stream failure, if any.
func (r *Report) Err() error {
	return r.StreamErr
}

// Build decodes buf. A header failure is returned directly and no report is
// produced; stream failures are kept on the report with the valid prefix.
func Build(path, kind string, buf []byte, opts Options) (*Report, error) {
	h, it, err := demo.Open(buf, demo.WithLimits(opts.Limits))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	rep := &Report{
		Path:   path,
		Kind:   kind,
		Size:   len(buf),
		Header: h,
	}
	keep := func(rec demo.Record) error {
		if len(rep.Records) < opts.Preview && opts.previewed(rec.Command) {
			rep.Records = append(rep.Records, snapshot(rec))
		}
		return nil
	}
	rep.Summary, _ = demo.Drain(it, keep)
	if err := it.Result(); err != nil && (opts.Strict || !IsStreamAnomaly(err)) {
		rep.StreamErr = err
	}
	return rep, nil
}

func snapshot(rec demo.Record) demo.Record {
	if rec.Frame != nil {
		f := *rec.Frame
		rec.Frame = &f
	}
	rec.Payload = append([]byte(nil), rec.Payload...)
	return rec
}

// IsStreamAnomaly reports whether err only flags a missing Stop.
func IsStreamAnomaly(err error) bool {
	return errors.Is(err, demo.ErrUnexpectedEOF)
}
