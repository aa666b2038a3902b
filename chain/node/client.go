// Package node is the indexer's view of the Ergo node's REST API: fetch the
// current height, a header by height, a block by header id, and the fixed
// genesis box set. Nothing here decides what to do with the data; that is the
// Sync and Bootstrap Engines' job.
package node

import (
	"context"

	mtypes "github.com/ergowatch/ergo-indexer/chain/types"
)

// Client is the Node Client described in the external interfaces: a thin,
// read-only view of a single Ergo full node.
type Client interface {
	// GetHeight returns the node's current best height.
	GetHeight(ctx context.Context) (uint32, error)

	// GetHeaderAtHeight returns the header at height on the node's current best
	// chain. ErrNotFound is returned if the node has no block at that height yet.
	GetHeaderAtHeight(ctx context.Context, height uint32) (mtypes.Header, error)

	// GetBlock returns the full block (header plus transactions) for headerID.
	// ErrNotFound is returned if the node does not know headerID.
	GetBlock(ctx context.Context, headerID string) (mtypes.Block, error)

	// GetGenesisBoxes returns the protocol's fixed genesis box set. The result is
	// identical on every call and every node, so callers may fetch it once.
	GetGenesisBoxes(ctx context.Context) ([]mtypes.GenesisBox, error)
}
