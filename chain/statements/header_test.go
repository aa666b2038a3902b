package statements

import (
	"testing"

	"github.com/stretchr/testify/assert"

	mtypes "github.com/ergowatch/ergo-indexer/chain/types"
)

func testHeader() mtypes.Header {
	return mtypes.Header{
		Height:    600000,
		ID:        "5cacca81f1e4a2e872b1a32bba17ba1e0c6a5b94113daf5927f1a08e18f90a4",
		ParentID:  "eac9b8c5d4e3f2019a8b7c6d5e4f3029a8b7c6d5e4f3029a8b7c6d5e4f339d1",
		Timestamp: 1634511451404,
	}
}

func TestBuildHeaderInsert(t *testing.T) {
	h := testHeader()
	stmt := BuildHeaderInsert(h)

	assert.Equal(t, InsertHeaderSQL, stmt.SQL)
	assert.Equal(t, []Param{
		Integer(600000),
		Text(h.ID),
		Text(h.ParentID),
		BigInt(1634511451404),
	}, stmt.Args)
}

func TestBuildHeaderDelete(t *testing.T) {
	h := testHeader()
	stmt := BuildHeaderDelete(h)

	assert.Equal(t, DeleteHeaderSQL, stmt.SQL)
	assert.Equal(t, []Param{Text(h.ID)}, stmt.Args)
}
