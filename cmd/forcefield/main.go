package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"github.com/viktor-ku/forcefield/internal/logging"
)

func main() {
	logging.ConfigureRuntime()
	if err := newApp().Run(os.Args); err != nil {
		log.Debug().Err(err).Msg("exit")
		fmt.Fprintf(os.Stderr, "forcefield: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "forcefield",
		Usage:     "inspect HL2 demo files",
		ArgsUsage: "<file.dem> [file.dem ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "TOML config file"},
			&cli.IntFlag{Name: "preview", Aliases: []string{"n"}, Usage: "number of records to disassemble"},
			&cli.IntFlag{Name: "hex", Usage: "payload bytes shown per record"},
			&cli.StringSliceFlag{Name: "only", Usage: "preview only these commands (e.g. packet,consolecmd)"},
			&cli.BoolFlag{Name: "strict", Usage: "fail when the stream has no stop record"},
			&cli.BoolFlag{Name: "json", Usage: "print reports as JSON"},
			&cli.BoolFlag{Name: "no-mmap", Usage: "read files into memory instead of mapping them"},
		},
		Action: run,
	}
}
