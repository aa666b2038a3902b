// Package sync is the Sync Engine: a fork-aware loop that keeps core and
// derived tables advancing behind the node's reported best chain, rolling
// back and re-extending across reorgs the way core/headerchain.go's Reorg
// walks backwards to the fork point before re-applying the new branch.
package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"

	"github.com/ergowatch/ergo-indexer/chain/cache"
	"github.com/ergowatch/ergo-indexer/chain/db"
	"github.com/ergowatch/ergo-indexer/chain/node"
	"github.com/ergowatch/ergo-indexer/chain/pipeline"
)

var (
	headHeightGauge  = metrics.NewRegisteredGauge("ergoidx/sync/head/height", nil)
	reorgDepthMeter  = metrics.NewRegisteredMeter("ergoidx/sync/reorg/depth", nil)
	reorgEventsMeter = metrics.NewRegisteredMeter("ergoidx/sync/reorg/events", nil)
)

// Head is the (height, header id) pair the Sync Engine tracks as the tip of
// whatever it has committed to the database so far.
type Head struct {
	Height   uint32
	HeaderID string
}

// ChainEvent is sent on Engine.Feed after every committed include or rollback.
type ChainEvent struct {
	Head       Head
	RolledBack bool
}

// Engine runs the main sync loop: poll the node, extend the local head when
// possible, and roll back to the common ancestor when the node's chain has
// forked away from what is already committed.
type Engine struct {
	Node    node.Client
	Gateway db.Gateway
	Cache   *cache.Cache
	Feed    event.Feed

	PollInterval time.Duration

	// AllowRollbacks gates whether step may roll back the current head at
	// all: when false, a detected reorg fails with ErrReorgOnUnconstrainedDb.
	// The steady-state sync loop started after bootstrap sets it true.
	AllowRollbacks bool
}

// ErrNoCommonAncestor is returned when rollback walks back past height zero
// without finding a header the node still reports — this should never happen
// against a well-behaved node and indicates the local chain and the node's
// chain share no history at all.
var ErrNoCommonAncestor = errors.New("sync: no common ancestor with node")

// ErrReorgOnUnconstrainedDb is the ConstraintMissing/ReorgOnUnconstrainedDb
// fatal condition: a reorg was detected but AllowRollbacks is false. A reorg
// on a database without tier-1 constraints (and the ON DELETE CASCADE they
// carry) is refused separately, with db.ErrTier1Required.
var ErrReorgOnUnconstrainedDb = errors.New("sync: reorg detected while rollbacks are disabled")

// SyncToHeight drives the loop until the local head reaches target, then
// returns. It is used by tests and by --exit-when-synced.
func (e *Engine) SyncToHeight(ctx context.Context, target uint32) error {
	for {
		head, advanced, err := e.step(ctx)
		if err != nil {
			return err
		}
		if head.Height >= target {
			return nil
		}
		if !advanced {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(e.PollInterval):
			}
		}
	}
}

// SyncAndTrack runs the loop forever (until ctx is cancelled), continuing to
// poll at PollInterval once it has caught up to the node.
func (e *Engine) SyncAndTrack(ctx context.Context) error {
	for {
		_, advanced, err := e.step(ctx)
		if err != nil {
			return err
		}
		if !advanced {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(e.PollInterval):
			}
		}
	}
}

// step performs exactly one unit of progress: either rolling back one block
// because of a fork, or including exactly one new block. It reports whether it
// made progress, so the caller knows whether to sleep before trying again.
func (e *Engine) step(ctx context.Context) (Head, bool, error) {
	head, ok, err := e.currentHead(ctx)
	if err != nil {
		return Head{}, false, err
	}
	if !ok {
		return Head{}, false, errors.New("sync: no head recorded; run the bootstrap engine or prep_genesis first")
	}

	nodeHeight, err := e.Node.GetHeight(ctx)
	if err != nil {
		log.Warn("failed to fetch node height", "error", err)
		return head, false, nil
	}
	headHeightGauge.Update(int64(head.Height))

	if head.Height >= nodeHeight {
		matches, err := e.headerMatchesNode(ctx, head)
		if err != nil {
			return head, false, err
		}
		if matches {
			log.Debug("in sync with node", "height", head.Height, "id", head.HeaderID)
			return head, false, nil
		}
		return e.rollbackOne(ctx, head)
	}

	nextHeader, err := e.Node.GetHeaderAtHeight(ctx, head.Height+1)
	if err != nil {
		log.Warn("failed to fetch next header", "height", head.Height+1, "error", err)
		return head, false, nil
	}
	if nextHeader.ParentID != head.HeaderID {
		return e.rollbackOne(ctx, head)
	}

	block, err := e.Node.GetBlock(ctx, nextHeader.ID)
	if err != nil {
		log.Warn("failed to fetch block", "header", nextHeader.ID, "error", err)
		return head, false, nil
	}

	stmts := pipeline.PrepInclude(block, e.Cache)
	if err := e.Gateway.Execute(ctx, stmts); err != nil {
		return head, false, fmt.Errorf("sync: include block %s at %d: %w", block.Header.ID, block.Header.Height, err)
	}

	newHead := Head{Height: block.Header.Height, HeaderID: block.Header.ID}
	log.Info("included block", "height", newHead.Height, "id", newHead.HeaderID)
	e.Feed.Send(ChainEvent{Head: newHead})
	return newHead, true, nil
}

// rollbackOne undoes exactly the block at the current head and returns the new,
// strictly lower head. Each call makes height strictly decrease, which is what
// guarantees the loop terminates even across a reorg many blocks deep.
func (e *Engine) rollbackOne(ctx context.Context, head Head) (Head, bool, error) {
	if head.Height == 0 {
		return head, false, ErrNoCommonAncestor
	}
	if !e.AllowRollbacks {
		return head, false, ErrReorgOnUnconstrainedDb
	}

	tier, err := e.Gateway.Tier(ctx)
	if err != nil {
		return head, false, fmt.Errorf("sync: rollback: read tier: %w", err)
	}
	if tier == db.TierNone {
		return head, false, db.ErrTier1Required
	}

	block, err := e.Node.GetBlock(ctx, head.HeaderID)
	if err != nil {
		// The node itself may no longer know this header past the reorg
		// point. The rollback batch is built from the node's copy of the
		// block and is not reconstructed from the core tables, so the
		// rollback fails here.
		log.Warn("node no longer reports rolled-back header, replaying from database not supported", "header", head.HeaderID, "error", err)
		return head, false, fmt.Errorf("sync: rollback block %s: %w", head.HeaderID, err)
	}

	stmts := pipeline.PrepRollback(block, e.Cache)
	if err := e.Gateway.Execute(ctx, stmts); err != nil {
		return head, false, fmt.Errorf("sync: rollback block %s at %d: %w", head.HeaderID, head.Height, err)
	}

	parentHeight := head.Height - 1
	parentID, ok, err := e.Gateway.HeaderIDAtHeight(ctx, parentHeight)
	if err != nil {
		return head, false, fmt.Errorf("sync: rollback lookup parent at %d: %w", parentHeight, err)
	}
	if !ok {
		return head, false, fmt.Errorf("sync: rollback: no header recorded at %d after deleting %s", parentHeight, head.HeaderID)
	}

	newHead := Head{Height: parentHeight, HeaderID: parentID}
	reorgDepthMeter.Mark(1)
	reorgEventsMeter.Mark(1)
	log.Warn("rolled back block", "height", head.Height, "id", head.HeaderID, "new_head", newHead.Height)
	e.Feed.Send(ChainEvent{Head: newHead, RolledBack: true})
	return newHead, true, nil
}

func (e *Engine) currentHead(ctx context.Context) (Head, bool, error) {
	height, id, ok, err := e.Gateway.Head(ctx)
	if err != nil {
		return Head{}, false, fmt.Errorf("sync: read head: %w", err)
	}
	if !ok {
		return Head{}, false, nil
	}
	return Head{Height: height, HeaderID: id}, true, nil
}

// headerMatchesNode reports whether the node still agrees that head.HeaderID
// is the header at head.Height — false means the node has forked away from it
// and a rollback is required even though the node's height has not shrunk.
func (e *Engine) headerMatchesNode(ctx context.Context, head Head) (bool, error) {
	if head.Height == 0 {
		return true, nil // genesis never forks
	}
	nodeHeader, err := e.Node.GetHeaderAtHeight(ctx, head.Height)
	if err != nil {
		if errors.Is(err, node.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return nodeHeader.ID == head.HeaderID, nil
}
