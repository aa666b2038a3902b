package sync

import (
	"context"

	"github.com/ergowatch/ergo-indexer/chain/cache"
	"github.com/ergowatch/ergo-indexer/chain/db"
	"github.com/ergowatch/ergo-indexer/chain/node"
	"github.com/ergowatch/ergo-indexer/chain/statements"
	mtypes "github.com/ergowatch/ergo-indexer/chain/types"
)

// fakeNode is a minimal, in-memory node.Client used to drive the Sync Engine
// in tests without a real Ergo node. canonical maps a height to whichever
// block is currently the node's best-chain block at that height; byID keeps
// every block ever produced (including ones later orphaned by a reorg) since
// rollback needs to fetch the block being undone by its header id.
type fakeNode struct {
	canonical map[uint32]mtypes.Block
	byID      map[string]mtypes.Block
}

func newFakeNode() *fakeNode {
	return &fakeNode{canonical: map[uint32]mtypes.Block{}, byID: map[string]mtypes.Block{}}
}

func (n *fakeNode) addBlock(b mtypes.Block) {
	n.canonical[b.Header.Height] = b
	n.byID[b.Header.ID] = b
}

func (n *fakeNode) GetHeight(ctx context.Context) (uint32, error) {
	var max uint32
	for h := range n.canonical {
		if h > max {
			max = h
		}
	}
	return max, nil
}

func (n *fakeNode) GetHeaderAtHeight(ctx context.Context, height uint32) (mtypes.Header, error) {
	b, ok := n.canonical[height]
	if !ok {
		return mtypes.Header{}, node.ErrNotFound
	}
	return b.Header, nil
}

func (n *fakeNode) GetBlock(ctx context.Context, headerID string) (mtypes.Block, error) {
	b, ok := n.byID[headerID]
	if !ok {
		return mtypes.Block{}, node.ErrNotFound
	}
	return b, nil
}

func (n *fakeNode) GetGenesisBoxes(ctx context.Context) ([]mtypes.GenesisBox, error) {
	return nil, nil
}

// fakeGateway is an in-memory db.Gateway that only understands enough of the
// statement vocabulary (header inserts/deletes) to track the head the way a
// real Postgres-backed Gateway would, which is all the Sync Engine's control
// flow depends on.
type fakeGateway struct {
	headers map[uint32]string
	tier    db.ConstraintTier
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{headers: map[uint32]string{}, tier: db.Tier1Tier2}
}

func (g *fakeGateway) Execute(ctx context.Context, stmts []statements.Statement) error {
	for _, s := range stmts {
		switch s.SQL {
		case statements.InsertHeaderSQL:
			height := s.Args[0].Value.(int32)
			id := s.Args[1].Value.(string)
			g.headers[uint32(height)] = id
		case statements.DeleteHeaderSQL:
			id := s.Args[0].Value.(string)
			for h, existing := range g.headers {
				if existing == id {
					delete(g.headers, h)
				}
			}
		}
	}
	return nil
}

func (g *fakeGateway) Head(ctx context.Context) (uint32, string, bool, error) {
	if len(g.headers) == 0 {
		return 0, "", false, nil
	}
	var max uint32
	found := false
	for h := range g.headers {
		if !found || h > max {
			max = h
			found = true
		}
	}
	return max, g.headers[max], true, nil
}

func (g *fakeGateway) HeaderIDAtHeight(ctx context.Context, height uint32) (string, bool, error) {
	id, ok := g.headers[height]
	return id, ok, nil
}

func (g *fakeGateway) BootstrapHeight(ctx context.Context) (uint32, bool, error) {
	return 0, false, nil
}

func (g *fakeGateway) LoadCache(ctx context.Context) (*cache.Cache, error) {
	return cache.New(), nil
}

func (g *fakeGateway) Tier(ctx context.Context) (db.ConstraintTier, error) {
	return g.tier, nil
}

func (g *fakeGateway) ApplySchema(ctx context.Context) error         { return nil }
func (g *fakeGateway) ApplyTier1(ctx context.Context) error          { return nil }
func (g *fakeGateway) ApplyTier2(ctx context.Context) error          { return nil }
func (g *fakeGateway) ApplyConstraintsAll(ctx context.Context) error { return nil }

func (g *fakeGateway) Close() {}

var (
	_ node.Client = (*fakeNode)(nil)
	_ db.Gateway  = (*fakeGateway)(nil)
)
