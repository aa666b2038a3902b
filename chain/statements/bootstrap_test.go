package statements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildBootstrapRebuildAtHeight_IsPureAndHeightOnly checks that the
// bootstrap rebuild batch is parameterised by height alone — every statement
// carries exactly one Integer(height) argument, the "pair of set-based
// statements parameterised by height" contract phase 2 relies on.
func TestBuildBootstrapRebuildAtHeight_IsPureAndHeightOnly(t *testing.T) {
	stmts := BuildBootstrapRebuildAtHeight(600000)

	require.Len(t, stmts, 7)
	wantSQL := []string{
		InsertNewBoxesAtHeightSQL,
		DeleteSpentBoxesAtHeightSQL,
		AddErgBalancesAtHeightSQL,
		SubtractErgBalancesAtHeightSQL,
		AddTokenBalancesAtHeightSQL,
		SubtractTokenBalancesAtHeightSQL,
		UpsertBootstrapHeightSQL,
	}
	for i, s := range stmts {
		assert.Equal(t, wantSQL[i], s.SQL)
		require.Len(t, s.Args, 1)
		assert.Equal(t, Integer(600000), s.Args[0])
	}
}

func TestBuildBootstrapRebuildAtHeight_InsertsBeforeDeletes(t *testing.T) {
	stmts := BuildBootstrapRebuildAtHeight(1)
	assert.Equal(t, InsertNewBoxesAtHeightSQL, stmts[0].SQL)
	assert.Equal(t, DeleteSpentBoxesAtHeightSQL, stmts[1].SQL)
}
