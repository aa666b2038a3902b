// Package logging wires go-ethereum's structured logger to a terminal or a
// rotated file, the same split go-ethereum's node package makes between an
// interactive console and a long-running daemon.
package logging

import (
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures Setup.
type Options struct {
	// File, when non-empty, sends logs to a rotated file instead of stderr.
	File string
	// JSON emits ndjson records instead of the human-readable format.
	JSON bool
	// Verbosity is a log.LvlXxx value.
	Verbosity log.Lvl
}

// Setup installs the process-wide root handler used throughout the indexer.
func Setup(opts Options) error {
	var writer io.Writer = os.Stderr
	useColor := !opts.JSON && isatty.IsTerminal(os.Stderr.Fd())

	if opts.File != "" {
		writer = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100, // megabytes
			MaxBackups: 10,
			MaxAge:     30, // days
			Compress:   true,
		}
		useColor = false
	} else if useColor {
		writer = colorable.NewColorableStderr()
	}

	format := log.TerminalFormat(useColor)
	if opts.JSON {
		format = log.JSONFormat()
	}

	glogger := log.NewGlogHandler(log.StreamHandler(writer, format))
	glogger.Verbosity(opts.Verbosity)
	log.Root().SetHandler(glogger)
	return nil
}
