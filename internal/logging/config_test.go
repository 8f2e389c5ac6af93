package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		" DEBUG ": zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"off":     zerolog.Disabled,
	}
	for raw, want := range cases {
		got, ok := ParseLevel(raw)
		if !ok || got != want {
			t.Fatalf("%q: got=%v ok=%v want=%v", raw, got, ok, want)
		}
	}
	if _, ok := ParseLevel("loud"); ok {
		t.Fatalf("expected unknown level to be rejected")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogTimestamp, "false")
	t.Setenv(EnvLogNoColor, "true")

	cfg := DefaultConfig(ProfileRuntime)
	ApplyEnvOverrides(&cfg)
	if cfg.Level != zerolog.ErrorLevel || cfg.Timestamp || !cfg.NoColor {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestApplyEnvOverridesIgnoresGarbage(t *testing.T) {
	t.Setenv(EnvLogLevel, "nope")
	t.Setenv(EnvLogTimestamp, "maybe")

	cfg := DefaultConfig(ProfileTest)
	ApplyEnvOverrides(&cfg)
	if cfg.Level != zerolog.DebugLevel || cfg.Timestamp {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestNewWritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Config{Level: zerolog.DebugLevel, NoColor: true})
	logger.Info().Str("map", "de_dust2").Msg("decoded")
	out := buf.String()
	if !strings.Contains(out, "decoded") || !strings.Contains(out, "map=de_dust2") {
		t.Fatalf("unexpected log line: %q", out)
	}
}

func TestNewHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Config{Level: zerolog.ErrorLevel, NoColor: true})
	logger.Info().Msg("quiet")
	if buf.Len() != 0 {
		t.Fatalf("info line written at error level: %q", buf.String())
	}
	logger.Error().Msg("loud")
	if !strings.Contains(buf.String(), "loud") {
		t.Fatalf("error line missing: %q", buf.String())
	}
}

func TestParseLevelPassesThroughZerologNames(t *testing.T) {
	for _, raw := range []string{"fatal", "panic", "error", "info"} {
		want, _ := zerolog.ParseLevel(raw)
		got, ok := ParseLevel(raw)
		if !ok || got != want {
			t.Fatalf("%q: got=%v ok=%v want=%v", raw, got, ok, want)
		}
	}
}
