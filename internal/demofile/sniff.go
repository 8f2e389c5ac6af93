package demofile

import (
	"bytes"

	"github.com/h2non/filetype"
	"github.com/viktor-ku/forcefield/internal/demo"
)

const KindDemo = "dem"

var demoType = filetype.NewType(KindDemo, "application/x-hl2-demo")

func init() {
	filetype.AddMatcher(demoType, isDemo)
}

func isDemo(buf []byte) bool {
	return len(buf) >= len(demo.Magic) && bytes.Equal(buf[:len(demo.Magic)], []byte(demo.Magic))
}

// Sniff returns the file type extension detected in buf, "dem" for HL2
// demos, or "unknown".
func Sniff(buf []byte) string {
	kind, err := filetype.Match(buf)
	if err != nil || kind == filetype.Unknown {
		return "unknown"
	}
	return kind.Extension
}
