package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ergowatch/ergo-indexer/chain/cache"
	"github.com/ergowatch/ergo-indexer/chain/db"
	"github.com/ergowatch/ergo-indexer/chain/node"
	"github.com/ergowatch/ergo-indexer/chain/statements"
	mtypes "github.com/ergowatch/ergo-indexer/chain/types"
	"github.com/ergowatch/ergo-indexer/params"
)

type fakeNode struct {
	height  uint32
	byID    map[string]mtypes.Block
	byH     map[uint32]mtypes.Header
	genesis []mtypes.GenesisBox
}

func (n *fakeNode) GetHeight(ctx context.Context) (uint32, error) { return n.height, nil }

func (n *fakeNode) GetHeaderAtHeight(ctx context.Context, height uint32) (mtypes.Header, error) {
	h, ok := n.byH[height]
	if !ok {
		return mtypes.Header{}, node.ErrNotFound
	}
	return h, nil
}

func (n *fakeNode) GetBlock(ctx context.Context, headerID string) (mtypes.Block, error) {
	b, ok := n.byID[headerID]
	if !ok {
		return mtypes.Block{}, node.ErrNotFound
	}
	return b, nil
}

func (n *fakeNode) GetGenesisBoxes(ctx context.Context) ([]mtypes.GenesisBox, error) {
	return n.genesis, nil
}

type fakeGateway struct {
	tier            db.ConstraintTier
	schemaApplied   bool
	headers         map[uint32]string
	rebuiltHeights  []uint32
	bootstrapHeight uint32
	haveBootstrap   bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{headers: map[uint32]string{}}
}

func (g *fakeGateway) Execute(ctx context.Context, stmts []statements.Statement) error {
	for _, s := range stmts {
		switch s.SQL {
		case statements.InsertHeaderSQL:
			height := s.Args[0].Value.(int32)
			id := s.Args[1].Value.(string)
			g.headers[uint32(height)] = id
		case statements.InsertNewBoxesAtHeightSQL:
			height := s.Args[0].Value.(int32)
			g.rebuiltHeights = append(g.rebuiltHeights, uint32(height))
		case statements.UpsertBootstrapHeightSQL:
			g.bootstrapHeight = uint32(s.Args[0].Value.(int32))
			g.haveBootstrap = true
		}
	}
	return nil
}

func (g *fakeGateway) BootstrapHeight(ctx context.Context) (uint32, bool, error) {
	return g.bootstrapHeight, g.haveBootstrap, nil
}

func (g *fakeGateway) Head(ctx context.Context) (uint32, string, bool, error) {
	if len(g.headers) == 0 {
		return 0, "", false, nil
	}
	var max uint32
	found := false
	for h := range g.headers {
		if !found || h > max {
			max, found = h, true
		}
	}
	return max, g.headers[max], true, nil
}

func (g *fakeGateway) HeaderIDAtHeight(ctx context.Context, height uint32) (string, bool, error) {
	id, ok := g.headers[height]
	return id, ok, nil
}

func (g *fakeGateway) LoadCache(ctx context.Context) (*cache.Cache, error) { return cache.New(), nil }

func (g *fakeGateway) Tier(ctx context.Context) (db.ConstraintTier, error) { return g.tier, nil }

func (g *fakeGateway) ApplySchema(ctx context.Context) error {
	g.schemaApplied = true
	return nil
}

func (g *fakeGateway) ApplyTier1(ctx context.Context) error {
	g.tier = db.Tier1
	return nil
}

func (g *fakeGateway) ApplyTier2(ctx context.Context) error {
	g.tier = db.Tier1Tier2
	return nil
}

func (g *fakeGateway) ApplyConstraintsAll(ctx context.Context) error {
	g.tier = db.Tier1Tier2
	return nil
}

func (g *fakeGateway) Close() {}

var (
	_ node.Client = (*fakeNode)(nil)
	_ db.Gateway  = (*fakeGateway)(nil)
)

func TestEngineRun_FreshDatabaseRunsBothPhases(t *testing.T) {
	n := &fakeNode{
		height:  3,
		byID:    map[string]mtypes.Block{},
		byH:     map[uint32]mtypes.Header{},
		genesis: []mtypes.GenesisBox{{BoxID: "g1", Address: "addr1", Value: 100}},
	}
	for h := uint32(1); h <= 3; h++ {
		header := mtypes.Header{ID: "h" + string(rune('0'+h)), Height: h}
		n.byH[h] = header
		n.byID[header.ID] = mtypes.Block{Header: header}
	}

	gw := newFakeGateway()
	engine := &Engine{Node: n, Gateway: gw, Network: params.MainnetConfig}

	c, err := engine.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.True(t, gw.schemaApplied)
	assert.Equal(t, db.Tier1Tier2, gw.tier)
	assert.Equal(t, []uint32{1, 2, 3}, gw.rebuiltHeights)

	// genesis plus three blocks recorded in the fake gateway's header map.
	assert.Len(t, gw.headers, 4)
	assert.Equal(t, params.MainnetConfig.GenesisHeaderID, gw.headers[0])
}

// TestEngineRun_Phase2ResumesAtFirstUnfinishedHeight models a restart after an
// interrupt between tier-1 application and tier-2 application: heights 1 and 2
// were already rebuilt and recorded in bootstrap_progress, so a fresh Run must
// pick up at 3, not redo (and double-count) the committed heights.
func TestEngineRun_Phase2ResumesAtFirstUnfinishedHeight(t *testing.T) {
	n := &fakeNode{
		height: 4,
		byID:   map[string]mtypes.Block{},
		byH:    map[uint32]mtypes.Header{},
	}
	for h := uint32(1); h <= 4; h++ {
		header := mtypes.Header{ID: "h" + string(rune('0'+h)), Height: h}
		n.byH[h] = header
		n.byID[header.ID] = mtypes.Block{Header: header}
	}

	gw := newFakeGateway()
	gw.tier = db.Tier1
	gw.headers[0] = params.MainnetConfig.GenesisHeaderID
	for h := uint32(1); h <= 4; h++ {
		gw.headers[h] = "h" + string(rune('0'+h))
	}
	gw.bootstrapHeight = 2
	gw.haveBootstrap = true

	engine := &Engine{Node: n, Gateway: gw, Network: params.MainnetConfig}
	_, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []uint32{3, 4}, gw.rebuiltHeights)
	assert.Equal(t, db.Tier1Tier2, gw.tier)
}

func TestEngineRun_AlreadyBootstrappedLoadsCacheOnly(t *testing.T) {
	n := &fakeNode{height: 0, byID: map[string]mtypes.Block{}, byH: map[uint32]mtypes.Header{}}
	gw := newFakeGateway()
	gw.tier = db.Tier1Tier2
	gw.headers[0] = params.MainnetConfig.GenesisHeaderID

	engine := &Engine{Node: n, Gateway: gw, Network: params.MainnetConfig}
	c, err := engine.Run(context.Background())

	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Empty(t, gw.rebuiltHeights)
}
