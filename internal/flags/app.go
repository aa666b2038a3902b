package flags

import (
	"github.com/urfave/cli/v2"

	"github.com/ergowatch/ergo-indexer/params"
)

// NewApp creates an app with sane defaults, the same shape go-ethereum's own
// internal/flags.NewApp gives cmd/mive.
func NewApp(usage string) *cli.App {
	app := cli.NewApp()
	app.EnableBashCompletion = true
	app.Version = params.Version
	app.Usage = usage
	app.Copyright = "Copyright 2024-2026 The ergo-indexer Authors"
	return app
}
