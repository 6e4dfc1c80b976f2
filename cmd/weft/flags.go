package main

import (
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/weft/internal/logger"
)

var (
	presetName  string
	vocabPath   string
	mergesPath  string
	variantName string
	logLevel    string
	logFormat   string
	debug       bool
)

func tokenizerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "preset",
			Aliases:     []string{"p"},
			Usage:       "pretrained preset name (see 'weft presets')",
			Destination: &presetName,
		},
		&cli.StringFlag{
			Name:        "vocab",
			Usage:       "path to a local vocab.json (BPE) or vocab.txt (WordPiece)",
			Destination: &vocabPath,
		},
		&cli.StringFlag{
			Name:        "merges",
			Usage:       "path to a local merges.txt (BPE vocabularies only)",
			Destination: &mergesPath,
		},
		&cli.StringFlag{
			Name:        "variant",
			Usage:       "special-token policy for local files (gpt2, gpt_neo_x, roberta, distil_bert)",
			Value:       "gpt2",
			Destination: &variantName,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

// newLogger builds the logger selected by the logging flags. Call it
// after config file defaults have been applied.
func newLogger() logger.Logger {
	level := logLevel
	if debug {
		level = "debug"
	}
	return logger.Build(logFormat, level, os.Stderr)
}
