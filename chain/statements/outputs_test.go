package statements

import (
	"testing"

	"github.com/stretchr/testify/assert"

	mtypes "github.com/ergowatch/ergo-indexer/chain/types"
)

func TestBuildOutputInserts_PreservesOrder(t *testing.T) {
	header := mtypes.Header{ID: "h1"}
	txs := []mtypes.Transaction{
		{
			ID: "tx1",
			Outputs: []mtypes.Output{
				{BoxID: "box1", Address: "addr1", Value: 100, CreationHeight: 10},
				{BoxID: "box2", Address: "addr2", Value: 200, CreationHeight: 10},
			},
		},
		{
			ID: "tx2",
			Outputs: []mtypes.Output{
				{BoxID: "box3", Address: "addr1", Value: 300, CreationHeight: 10},
			},
		},
	}

	stmts := BuildOutputInserts(header, txs)

	if assert.Len(t, stmts, 3) {
		assert.Equal(t, []Param{Text("box1"), Text("tx1"), Text("h1"), Integer(10), Text("addr1"), Integer(0), BigInt(100)}, stmts[0].Args)
		assert.Equal(t, []Param{Text("box2"), Text("tx1"), Text("h1"), Integer(10), Text("addr2"), Integer(1), BigInt(200)}, stmts[1].Args)
		assert.Equal(t, []Param{Text("box3"), Text("tx2"), Text("h1"), Integer(10), Text("addr1"), Integer(0), BigInt(300)}, stmts[2].Args)
	}
	for _, s := range stmts {
		assert.Equal(t, InsertOutputSQL, s.SQL)
	}
}

func TestBuildOutputDeletes(t *testing.T) {
	txs := []mtypes.Transaction{
		{Outputs: []mtypes.Output{{BoxID: "box1"}, {BoxID: "box2"}}},
	}
	stmts := BuildOutputDeletes(txs)
	if assert.Len(t, stmts, 2) {
		assert.Equal(t, []Param{Text("box1")}, stmts[0].Args)
		assert.Equal(t, []Param{Text("box2")}, stmts[1].Args)
	}
}
