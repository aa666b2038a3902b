// Command ergoidx runs the Ergo chain indexer: bootstrap a fresh database up
// to the node's height, then hand off to the fork-aware sync loop, the same
// two-stage startup cmd/mive's node.Node goes through before handing control
// to the Mive backend's Start/Stop lifecycle.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gofrs/flock"
	"github.com/urfave/cli/v2"

	"github.com/ergowatch/ergo-indexer/chain/bootstrap"
	"github.com/ergowatch/ergo-indexer/chain/cache"
	"github.com/ergowatch/ergo-indexer/chain/db"
	"github.com/ergowatch/ergo-indexer/chain/node"
	"github.com/ergowatch/ergo-indexer/chain/sync"
	"github.com/ergowatch/ergo-indexer/indexerconfig"
	"github.com/ergowatch/ergo-indexer/internal/flags"
	"github.com/ergowatch/ergo-indexer/internal/logging"
	"github.com/ergowatch/ergo-indexer/params"
)

var app = flags.NewApp("the Ergo chain indexer")

func init() {
	app.Flags = []cli.Flag{
		flags.ConfigFileFlag,
		flags.NetworkFlag,
		flags.NodeURLFlag,
		flags.NodeTimeoutFlag,
		flags.DatabaseURLFlag,
		flags.PollIntervalFlag,
		flags.NoBootstrapFlag,
		flags.ExitWhenSyncedFlag,
		flags.DataDirFlag,
		flags.LogFileFlag,
		flags.LogJSONFlag,
		flags.VerbosityFlag,
	}
	app.Action = run
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run wires up the Node Client, Database Gateway, Bootstrap Engine and Sync
// Engine from the resolved Config and drives the process to completion. It
// returns a non-zero exit via app.Run's error path on any unrecoverable
// failure.
func run(cliCtx *cli.Context) error {
	cfg, err := loadConfig(cliCtx)
	if err != nil {
		return err
	}

	if err := logging.Setup(logging.Options{
		File:      cfg.LogFile,
		JSON:      cfg.LogJSON,
		Verbosity: log.Lvl(cfg.Verbosity),
	}); err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}

	network, err := params.NetworkByName(cfg.Network)
	if err != nil {
		return err
	}
	log.Info("starting ergoidx", "version", params.Version, "network", network.Name)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create datadir: %w", err)
	}
	lock := flock.New(cfg.DataDir + "/LOCK")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock datadir: %w", err)
	}
	if !locked {
		return fmt.Errorf("datadir %s is already locked by another ergoidx process", cfg.DataDir)
	}
	defer lock.Unlock()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	nodeClient := node.NewHTTPClient(cfg.NodeURL, cfg.NodeTimeout)

	gateway, err := db.NewPostgresGateway(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer gateway.Close()

	var loadedCache *cache.Cache
	if cfg.NoBootstrap {
		log.Info("skipping bootstrap engine, database assumed already populated")
		loadedCache, err = gateway.LoadCache(ctx)
		if err != nil {
			return fmt.Errorf("load cache: %w", err)
		}
	} else {
		bootstrapEngine := &bootstrap.Engine{Node: nodeClient, Gateway: gateway, Network: network}
		loadedCache, err = bootstrapEngine.Run(ctx)
		if err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
	}

	engine := &sync.Engine{
		Node:    nodeClient,
		Gateway: gateway,
		Cache:   loadedCache,

		PollInterval: cfg.PollInterval,
		// Both the bootstrap and no-bootstrap startup paths leave the
		// database with tier-1 constraints already applied, so the sync
		// loop may always roll back a reorg once it starts.
		AllowRollbacks: true,
	}
	return runSync(ctx, engine, cfg)
}

func runSync(ctx context.Context, engine *sync.Engine, cfg indexerconfig.Config) error {
	if cfg.ExitWhenSynced {
		height, err := engine.Node.GetHeight(ctx)
		if err != nil {
			return fmt.Errorf("get node height: %w", err)
		}
		if err := engine.SyncToHeight(ctx, height); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("sync to height %d: %w", height, err)
		}
		return nil
	}

	if err := engine.SyncAndTrack(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("sync and track: %w", err)
	}
	return nil
}
