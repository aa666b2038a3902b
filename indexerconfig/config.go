// Package indexerconfig is the process-wide Config struct, loaded from an
// optional TOML file and then overridden by CLI flags exactly the way
// cmd/mive/config.go layers miveConfig — just one flat struct instead of
// node.Config, since this indexer has no p2p/RPC stack of its own.
package indexerconfig

import "time"

// Config holds every setting the Sync and Bootstrap Engines need.
type Config struct {
	// Network selects the genesis parameters (params.MainnetConfig or
	// params.TestnetConfig) the Bootstrap Engine seeds at height zero.
	Network string

	// NodeURL is the base URL of the Ergo node's REST API.
	NodeURL string `toml:",omitempty"`

	// NodeTimeout bounds every single request to the node.
	NodeTimeout time.Duration `toml:",omitempty"`

	// DatabaseURL is the Postgres connection string the Database Gateway dials.
	DatabaseURL string

	// PollInterval is how long the Sync Engine sleeps between get_height calls
	// once it has caught up to the node's reported height.
	PollInterval time.Duration `toml:",omitempty"`

	// NoBootstrap skips the Bootstrap Engine entirely and starts the Sync
	// Engine directly from whatever height core.headers already holds.
	NoBootstrap bool `toml:",omitempty"`

	// ExitWhenSynced stops the process once the Sync Engine first reaches the
	// node's reported height, instead of continuing to track new blocks.
	ExitWhenSynced bool `toml:",omitempty"`

	// DataDir is locked with a gofrs/flock lock file for the process's lifetime,
	// the way go-ethereum's node package guards its own datadir.
	DataDir string

	LogFile   string `toml:",omitempty"`
	LogJSON   bool   `toml:",omitempty"`
	Verbosity int    `toml:",omitempty"`
}

// Default returns the baseline Config a freshly generated TOML file and the
// CLI flags both layer on top of.
func Default() Config {
	return Config{
		Network:      "mainnet",
		NodeTimeout:  10 * time.Second,
		PollInterval: 5 * time.Second,
		DataDir:      "./ergoidx-data",
		Verbosity:    3,
	}
}
