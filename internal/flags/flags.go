package flags

import (
	"time"

	"github.com/urfave/cli/v2"
)

var (
	NetworkFlag = &cli.StringFlag{
		Name:     "network",
		Usage:    "Ergo network to index (mainnet, testnet)",
		Value:    "mainnet",
		Category: NetworkCategory,
	}
	NodeURLFlag = &cli.StringFlag{
		Name:     "node.url",
		Usage:    "Base URL of the Ergo node REST API",
		Category: NodeCategory,
	}
	NodeTimeoutFlag = &cli.DurationFlag{
		Name:     "node.timeout",
		Usage:    "Timeout for a single request to the node",
		Value:    10 * time.Second,
		Category: NodeCategory,
	}
	DatabaseURLFlag = &cli.StringFlag{
		Name:     "database.url",
		Usage:    "Postgres connection string",
		Category: DatabaseCategory,
	}
	PollIntervalFlag = &cli.DurationFlag{
		Name:     "poll-interval",
		Usage:    "How long to wait between get_height calls once caught up",
		Value:    5 * time.Second,
		Category: SyncCategory,
	}
	NoBootstrapFlag = &cli.BoolFlag{
		Name:     "no-bootstrap",
		Usage:    "Skip the bootstrap engine and start the sync engine directly",
		Category: SyncCategory,
	}
	ExitWhenSyncedFlag = &cli.BoolFlag{
		Name:     "exit-when-synced",
		Usage:    "Exit once the sync engine first reaches the node's reported height",
		Category: SyncCategory,
	}
	DataDirFlag = &cli.StringFlag{
		Name:     "datadir",
		Usage:    "Directory holding the process lock file",
		Value:    "./ergoidx-data",
		Category: DatabaseCategory,
	}
	LogFileFlag = &cli.StringFlag{
		Name:     "log.file",
		Usage:    "Write logs to this rotated file instead of stderr",
		Category: LoggingCategory,
	}
	LogJSONFlag = &cli.BoolFlag{
		Name:     "log.json",
		Usage:    "Format logs as ndjson",
		Category: LoggingCategory,
	}
	ConfigFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: LoggingCategory,
	}
	VerbosityFlag = &cli.IntFlag{
		Name:     "verbosity",
		Usage:    "Logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value:    3,
		Category: LoggingCategory,
	}
)
