package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/viktor-ku/forcefield/internal/demo"
	"github.com/viktor-ku/forcefield/internal/demofile"
	"github.com/viktor-ku/forcefield/internal/inspect"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type config struct {
	Inspect  inspect.Options
	Load     demofile.Options
	Format   string
	LogLevel string
}

func defaultConfig() config {
	return config{
		Inspect: inspect.DefaultOptions(),
		Load:    demofile.DefaultOptions(),
		Format:  formatText,
	}
}

type fileConfig struct {
	Preview         int      `toml:"preview"`
	HexBytes        int      `toml:"hex_bytes"`
	Strict          bool     `toml:"strict"`
	Format          string   `toml:"format"`
	MaxPayloadBytes int      `toml:"max_payload_bytes"`
	Mmap            bool     `toml:"mmap"`
	LogLevel        string   `toml:"log_level"`
	Only            []string `toml:"only"`
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load forcefield config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}

	if meta.IsDefined("preview") {
		if raw.Preview < 0 {
			return config{}, fmt.Errorf("preview must not be negative: %d", raw.Preview)
		}
		cfg.Inspect.Preview = raw.Preview
	}
	if meta.IsDefined("hex_bytes") {
		if raw.HexBytes < 0 {
			return config{}, fmt.Errorf("hex_bytes must not be negative: %d", raw.HexBytes)
		}
		cfg.Inspect.HexBytes = raw.HexBytes
	}
	if meta.IsDefined("strict") {
		cfg.Inspect.Strict = raw.Strict
	}
	if meta.IsDefined("max_payload_bytes") {
		cfg.Inspect.Limits.MaxPayloadBytes = raw.MaxPayloadBytes
	}
	if meta.IsDefined("mmap") {
		cfg.Load.Mmap = raw.Mmap
	}
	if meta.IsDefined("format") {
		format, err := parseFormat(raw.Format)
		if err != nil {
			return config{}, err
		}
		cfg.Format = format
	}
	if meta.IsDefined("only") {
		only, err := parseCommands(raw.Only)
		if err != nil {
			return config{}, err
		}
		cfg.Inspect.Only = only
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	return cfg, nil
}

func parseFormat(raw string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(raw)); v {
	case formatText, formatJSON:
		return v, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want text or json)", raw)
	}
}

func parseCommands(raw []string) ([]demo.Command, error) {
	out := make([]demo.Command, 0, len(raw))
	for _, name := range raw {
		for _, part := range strings.Split(name, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			c, err := demo.ParseCommand(part)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
	}
	return out, nil
}
