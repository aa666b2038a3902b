// Package bootstrap is the two-phase cold-start engine: apply
// the bare schema, catch the core tier up to the node's height with no
// constraints enforced, apply tier-1, rebuild the derived tier per height from
// the core tables, then apply tier-2. It runs once, idempotently, before the
// Sync Engine ever starts — the same role core/genesis.go's SetupGenesisBlock
// plays for a trie-backed chain, generalized to a forward multi-block catch-up.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/google/uuid"

	"github.com/ergowatch/ergo-indexer/chain/cache"
	"github.com/ergowatch/ergo-indexer/chain/db"
	"github.com/ergowatch/ergo-indexer/chain/node"
	"github.com/ergowatch/ergo-indexer/chain/pipeline"
	"github.com/ergowatch/ergo-indexer/params"
)

var phase2ProgressGauge = metrics.NewRegisteredGauge("ergoidx/bootstrap/phase2/height", nil)

// Engine runs the two-phase bootstrap against a freshly provisioned, or
// partially caught-up, database.
type Engine struct {
	Node    node.Client
	Gateway db.Gateway
	Network *params.NetworkConfig
}

// Run applies the schema if needed, seeds genesis if the core tier is empty,
// runs Phase 1 up to the node's current height, applies tier-1, runs Phase 2
// over every height from 1 up to that same point, and applies tier-2. It
// returns the cache Phase 2 built, ready for the Sync Engine to keep mutating.
func (e *Engine) Run(ctx context.Context) (*cache.Cache, error) {
	runID := uuid.NewString()
	log.Info("starting bootstrap", "run_id", runID)

	if err := e.Gateway.ApplySchema(ctx); err != nil {
		return nil, fmt.Errorf("bootstrap: apply schema: %w", err)
	}

	tier, err := e.Gateway.Tier(ctx)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: read tier: %w", err)
	}

	_, _, haveHead, err := e.Gateway.Head(ctx)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: read head: %w", err)
	}
	if !haveHead {
		if err := e.seedGenesis(ctx); err != nil {
			return nil, fmt.Errorf("bootstrap: seed genesis: %w", err)
		}
	}

	targetHeight, err := e.Node.GetHeight(ctx)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: get node height: %w", err)
	}

	if tier == db.TierNone {
		if err := e.phase1(ctx, targetHeight); err != nil {
			return nil, fmt.Errorf("bootstrap: phase 1: %w", err)
		}
		if err := e.Gateway.ApplyTier1(ctx); err != nil {
			return nil, fmt.Errorf("bootstrap: apply tier1: %w", err)
		}
		tier = db.Tier1
	}

	if tier == db.Tier1 {
		c, err := e.phase2(ctx, targetHeight, runID)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: phase 2: %w", err)
		}
		if err := e.Gateway.ApplyTier2(ctx); err != nil {
			return nil, fmt.Errorf("bootstrap: apply tier2: %w", err)
		}
		log.Info("bootstrap complete", "run_id", runID, "height", targetHeight)
		return c, nil
	}

	log.Info("tiers already applied, loading cache", "run_id", runID)
	return e.Gateway.LoadCache(ctx)
}

func (e *Engine) seedGenesis(ctx context.Context) error {
	boxes, err := e.Node.GetGenesisBoxes(ctx)
	if err != nil {
		return fmt.Errorf("get genesis boxes: %w", err)
	}

	c := cache.New()
	stmts := pipeline.PrepGenesis(e.Network.GenesisHeaderID, e.Network.GenesisTimestamp, boxes, c)
	if err := e.Gateway.Execute(ctx, stmts); err != nil {
		return fmt.Errorf("apply genesis statements: %w", err)
	}
	log.Info("seeded genesis", "header", e.Network.GenesisHeaderID, "boxes", len(boxes))
	return nil
}

// phase1 walks forward from whatever height core.headers currently records,
// applying prep_core_include for each height up to target. It never touches
// the derived tier or a balance cache.
func (e *Engine) phase1(ctx context.Context, target uint32) error {
	height, _, ok, err := e.Gateway.Head(ctx)
	if err != nil {
		return fmt.Errorf("read head: %w", err)
	}
	if !ok {
		return fmt.Errorf("phase 1: no genesis recorded")
	}

	for h := height + 1; h <= target; h++ {
		header, err := e.Node.GetHeaderAtHeight(ctx, h)
		if err != nil {
			return fmt.Errorf("get header at %d: %w", h, err)
		}
		block, err := e.Node.GetBlock(ctx, header.ID)
		if err != nil {
			return fmt.Errorf("get block %s at %d: %w", header.ID, h, err)
		}

		stmts := pipeline.PrepCoreInclude(block)
		if err := e.Gateway.Execute(ctx, stmts); err != nil {
			return fmt.Errorf("apply height %d: %w", h, err)
		}

		if h%1000 == 0 {
			log.Info("phase 1 progress", "height", h, "target", target)
		}
	}
	return nil
}

// phase2 rebuilds derived.unspent_boxes, derived.balances and
// derived.token_balances up to target, one height — one transaction — at a
// time, using the set-based prep_bootstrap_at_height statements rather than
// the node or a parsed Block. Each batch records its height in
// derived.bootstrap_progress inside the same transaction, so an interrupted
// run resumes at the first height that never committed; a run that has never
// committed starts at 1, genesis having been seeded directly into both tiers.
// The cache is loaded once, after the rebuild has reached target, rather than
// threaded through the loop.
func (e *Engine) phase2(ctx context.Context, target uint32, runID string) (*cache.Cache, error) {
	start := uint32(1)
	done, ok, err := e.Gateway.BootstrapHeight(ctx)
	if err != nil {
		return nil, fmt.Errorf("read bootstrap height: %w", err)
	}
	if ok {
		start = done + 1
		log.Info("resuming phase 2", "run_id", runID, "height", start, "target", target)
	}

	for h := start; h <= target; h++ {
		stmts := pipeline.PrepBootstrapAtHeight(h)
		if err := e.Gateway.Execute(ctx, stmts); err != nil {
			return nil, fmt.Errorf("rebuild height %d: %w", h, err)
		}
		phase2ProgressGauge.Update(int64(h))
		if h%1000 == 0 {
			log.Info("phase 2 progress", "run_id", runID, "height", h, "target", target)
		}
	}

	c, err := e.Gateway.LoadCache(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cache after phase 2: %w", err)
	}
	return c, nil
}
