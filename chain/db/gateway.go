// Package db is the Database Gateway: the only part of the indexer that knows
// it is talking to Postgres. It executes statement batches from chain/pipeline
// inside a single transaction, tracks which constraint tier is applied, and
// loads the cache the balance builder needs at startup.
package db

import (
	"context"
	"errors"

	"github.com/ergowatch/ergo-indexer/chain/cache"
	"github.com/ergowatch/ergo-indexer/chain/statements"
)

// ConstraintTier is the constraint state machine: none, then tier1 (core
// foreign keys and cascades), then tier1+tier2 (derived-table checks).
// Rollback is only safe once tier1 is applied, since it relies on cascades.
type ConstraintTier int

const (
	TierNone ConstraintTier = iota
	Tier1
	Tier1Tier2
)

func (t ConstraintTier) String() string {
	switch t {
	case TierNone:
		return "none"
	case Tier1:
		return "tier1"
	case Tier1Tier2:
		return "tier1+tier2"
	default:
		return "unknown"
	}
}

// ErrTier1Required is returned by the Sync Engine when it detects a reorg
// while tier-1 constraints are not yet applied: cascades are what makes the core-tier half of a rollback a single
// header delete, and without them a rollback would silently leave orphaned
// rows behind.
var ErrTier1Required = errors.New("db: rollback requires tier-1 constraints to be applied")

// Gateway is the Database Gateway described in the external interfaces.
type Gateway interface {
	// Execute runs stmts inside a single transaction, committing only if every
	// statement succeeds.
	Execute(ctx context.Context, stmts []statements.Statement) error

	// Head returns the highest header currently recorded, or ok=false if the
	// core tier is empty (no genesis applied yet).
	Head(ctx context.Context) (height uint32, headerID string, ok bool, err error)

	// HeaderIDAtHeight returns the header id core.headers records at height.
	HeaderIDAtHeight(ctx context.Context, height uint32) (headerID string, ok bool, err error)

	// BootstrapHeight returns the highest height phase 2 of the Bootstrap
	// Engine has rebuilt the derived tables for, or ok=false if no rebuild
	// transaction has ever committed.
	BootstrapHeight(ctx context.Context) (height uint32, ok bool, err error)

	// LoadCache rebuilds the in-memory balance cache from derived.balances,
	// derived.token_balances and the box ownership recorded in core.outputs
	// and core.box_assets. Its result is the cache the Sync Engine starts with.
	LoadCache(ctx context.Context) (*cache.Cache, error)

	// Tier returns the currently applied constraint tier.
	Tier(ctx context.Context) (ConstraintTier, error)

	// ApplySchema, ApplyTier1 and ApplyTier2 each run their corresponding
	// migration group. All three are idempotent.
	ApplySchema(ctx context.Context) error
	ApplyTier1(ctx context.Context) error
	ApplyTier2(ctx context.Context) error

	// ApplyConstraintsAll applies tier-1 and tier-2 together. It is a shortcut
	// valid only when the database is empty: there is no existing core or
	// derived data that a freshly added foreign key or check constraint could
	// already violate.
	ApplyConstraintsAll(ctx context.Context) error

	Close()
}
