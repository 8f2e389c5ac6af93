package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"github.com/viktor-ku/forcefield/internal/demofile"
	"github.com/viktor-ku/forcefield/internal/inspect"
	"github.com/viktor-ku/forcefield/internal/logging"
	"golang.org/x/sync/errgroup"
)

var errNoInput = errors.New("missing demo file argument")

func run(c *cli.Context) error {
	if c.NArg() == 0 {
		return errNoInput
	}
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	if cfg.LogLevel != "" && !logging.SetLevel(cfg.LogLevel) {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("ignoring unknown log level")
	}

	failed := inspectAll(c.App.Writer, c.App.ErrWriter, c.Args().Slice(), cfg)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, c.NArg())
	}
	return nil
}

func resolveConfig(c *cli.Context) (config, error) {
	cfg := defaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := loadConfig(path)
		if err != nil {
			return config{}, err
		}
		cfg = loaded
	}
	if c.IsSet("preview") {
		if c.Int("preview") < 0 {
			return config{}, fmt.Errorf("--preview must not be negative")
		}
		cfg.Inspect.Preview = c.Int("preview")
	}
	if c.IsSet("hex") {
		if c.Int("hex") < 0 {
			return config{}, fmt.Errorf("--hex must not be negative")
		}
		cfg.Inspect.HexBytes = c.Int("hex")
	}
	if c.IsSet("only") {
		only, err := parseCommands(c.StringSlice("only"))
		if err != nil {
			return config{}, err
		}
		cfg.Inspect.Only = only
	}
	if c.IsSet("strict") {
		cfg.Inspect.Strict = c.Bool("strict")
	}
	if c.IsSet("json") && c.Bool("json") {
		cfg.Format = formatJSON
	}
	if c.IsSet("no-mmap") && c.Bool("no-mmap") {
		cfg.Load.Mmap = false
	}
	return cfg, nil
}

type outcome struct {
	report *inspect.Report
	err    error
}

// inspectAll decodes every path in parallel and prints results in argument
// order. It returns the number of failed files.
func inspectAll(stdout, stderr io.Writer, paths []string, cfg config) int {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	results := make([]outcome, len(paths))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			rep, err := inspectFile(path, cfg)
			results[i] = outcome{report: rep, err: err}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for i, res := range results {
		if res.report != nil {
			if err := writeReport(stdout, res.report, cfg); err != nil {
				res.err = err
			} else if res.err == nil {
				res.err = res.report.Err()
			}
		}
		switch {
		case res.err == nil:
		case inspect.IsStreamAnomaly(res.err):
			failed++
			fmt.Fprintf(stderr, "%s: %v (strict)\n", paths[i], res.err)
		default:
			failed++
			fmt.Fprintf(stderr, "%s: %v\n", paths[i], res.err)
		}
	}
	return failed
}

func inspectFile(path string, cfg config) (*inspect.Report, error) {
	f, err := demofile.Open(path, cfg.Load)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	kind := demofile.Sniff(f.Bytes())
	if kind != demofile.KindDemo {
		log.Warn().Str("path", path).Str("kind", kind).Msg("file does not look like an HL2 demo")
	}
	rep, err := inspect.Build(path, kind, f.Bytes(), cfg.Inspect)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("path", path).
		Str("map", rep.Header.MapName).
		Int("records", rep.Summary.Records).
		Bool("stopped", rep.Summary.Stopped).
		Msg("demo inspected")
	return rep, nil
}

func writeReport(w io.Writer, rep *inspect.Report, cfg config) error {
	if cfg.Format == formatJSON {
		return inspect.WriteJSON(w, rep)
	}
	if err := inspect.WriteText(w, rep, cfg.Inspect.HexBytes); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}
