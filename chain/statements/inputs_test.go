package statements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mtypes "github.com/ergowatch/ergo-indexer/chain/types"
)

func TestBuildInputInserts_RecordsSpendsInBlockOrder(t *testing.T) {
	header := mtypes.Header{ID: "h1"}
	txs := []mtypes.Transaction{
		{ID: "tx1", InputBoxIDs: []string{"boxA", "boxB"}},
		{ID: "tx2", InputBoxIDs: []string{"boxC"}},
	}

	stmts := BuildInputInserts(header, txs)

	require.Len(t, stmts, 3)
	assert.Equal(t, []Param{Text("boxA"), Text("tx1"), Text("h1"), Integer(0)}, stmts[0].Args)
	assert.Equal(t, []Param{Text("boxB"), Text("tx1"), Text("h1"), Integer(1)}, stmts[1].Args)
	assert.Equal(t, []Param{Text("boxC"), Text("tx2"), Text("h1"), Integer(0)}, stmts[2].Args)
	for _, s := range stmts {
		assert.Equal(t, InsertInputSQL, s.SQL)
	}
}

// TestBuildInputDeletes_MirrorsInserts checks the insert/delete pair stays
// symmetric: one delete per recorded spend, keyed by the same box_id.
func TestBuildInputDeletes_MirrorsInserts(t *testing.T) {
	txs := []mtypes.Transaction{
		{ID: "tx1", InputBoxIDs: []string{"boxA", "boxB"}},
	}

	inserts := BuildInputInserts(mtypes.Header{ID: "h1"}, txs)
	deletes := BuildInputDeletes(txs)

	require.Len(t, deletes, len(inserts))
	for i, d := range deletes {
		assert.Equal(t, DeleteInputSQL, d.SQL)
		assert.Equal(t, inserts[i].Args[0], d.Args[0])
	}
}
