// Package demofile loads demo files into read-only byte buffers.
package demofile

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tysontate/gommap"
)

var ErrNotRegular = errors.New("demofile: not a regular file")

type Options struct {
	// Mmap maps the file instead of reading it into the heap.
	Mmap bool
}

func DefaultOptions() Options {
	return Options{Mmap: true}
}

// File is a loaded demo file. Bytes must not be modified.
type File struct {
	Path string
	data []byte
	mm   gommap.MMap
}

func Open(path string, opts Options) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat demo file")
	}
	if !info.Mode().IsRegular() {
		return nil, errors.Wrapf(ErrNotRegular, "%s (%s)", path, info.Mode().Type())
	}

	f := &File{Path: path}
	if info.Size() == 0 {
		return f, nil
	}

	if !opts.Mmap {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read demo file")
		}
		f.data = data
		log.Debug().Str("path", path).Int("bytes", len(data)).Msg("demo file read")
		return f, nil
	}

	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open demo file")
	}
	// the mapping stays valid after the descriptor is closed
	defer fd.Close()

	mm, err := gommap.Map(fd.Fd(), gommap.PROT_READ, gommap.MAP_PRIVATE)
	if err != nil {
		return nil, errors.Wrap(err, "failed to mmap demo file")
	}
	f.mm = mm
	f.data = []byte(mm)
	log.Debug().Str("path", path).Int("bytes", len(f.data)).Msg("demo file mapped")
	return f, nil
}

func (f *File) Bytes() []byte {
	return f.data
}

func (f *File) Len() int {
	return len(f.data)
}

// Close releases the mapping. Bytes must not be used afterwards.
func (f *File) Close() error {
	f.data = nil
	if f.mm == nil {
		return nil
	}
	mm := f.mm
	f.mm = nil
	if err := mm.UnsafeUnmap(); err != nil {
		return errors.Wrap(err, "failed to unmap demo file")
	}
	return nil
}
