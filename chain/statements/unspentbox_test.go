package statements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mtypes "github.com/ergowatch/ergo-indexer/chain/types"
)

// TestBuildUnspentBoxForward_600kBlock mirrors a mainnet-shaped block: 6
// outputs and 4 inputs across a block's transactions must produce exactly 10
// statements, the first 6 inserts and the last 4 deletes, in that order.
func TestBuildUnspentBoxForward_600kBlock(t *testing.T) {
	txs := []mtypes.Transaction{
		{
			InputBoxIDs: []string{"in1", "in2"},
			Outputs: []mtypes.Output{
				{BoxID: "out1"}, {BoxID: "out2"}, {BoxID: "out3"},
			},
		},
		{
			InputBoxIDs: []string{"in3", "in4"},
			Outputs: []mtypes.Output{
				{BoxID: "out4"}, {BoxID: "out5"}, {BoxID: "out6"},
			},
		},
	}

	stmts := BuildUnspentBoxForward(txs)

	require.Len(t, stmts, 10)
	for i := 0; i < 6; i++ {
		assert.Equal(t, InsertUnspentBoxSQL, stmts[i].SQL, "statement %d should be an insert", i)
	}
	for i := 6; i < 10; i++ {
		assert.Equal(t, DeleteUnspentBoxSQL, stmts[i].SQL, "statement %d should be a delete", i)
	}

	wantBoxIDs := []string{"out1", "out2", "out3", "out4", "out5", "out6", "in1", "in2", "in3", "in4"}
	for i, want := range wantBoxIDs {
		assert.Equal(t, []Param{Text(want)}, stmts[i].Args)
	}
}

func TestBuildUnspentBoxForward_SpendWithinSameBlockInsertsThenDeletes(t *testing.T) {
	txs := []mtypes.Transaction{
		{Outputs: []mtypes.Output{{BoxID: "ephemeral"}}},
		{InputBoxIDs: []string{"ephemeral"}},
	}

	stmts := BuildUnspentBoxForward(txs)

	require.Len(t, stmts, 2)
	assert.Equal(t, InsertUnspentBoxSQL, stmts[0].SQL)
	assert.Equal(t, DeleteUnspentBoxSQL, stmts[1].SQL)
}

func TestBuildUnspentBoxRollback_IsExactInverse(t *testing.T) {
	txs := []mtypes.Transaction{
		{
			InputBoxIDs: []string{"in1"},
			Outputs:     []mtypes.Output{{BoxID: "out1"}},
		},
	}

	forward := BuildUnspentBoxForward(txs)
	rollback := BuildUnspentBoxRollback(txs)

	require.Len(t, forward, 2)
	require.Len(t, rollback, 2)

	// forward: insert out1, delete in1. rollback: insert in1, delete out1.
	assert.Equal(t, InsertUnspentBoxSQL, rollback[0].SQL)
	assert.Equal(t, []Param{Text("in1")}, rollback[0].Args)
	assert.Equal(t, DeleteUnspentBoxSQL, rollback[1].SQL)
	assert.Equal(t, []Param{Text("out1")}, rollback[1].Args)
}
