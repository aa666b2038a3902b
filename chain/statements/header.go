package statements

import mtypes "github.com/ergowatch/ergo-indexer/chain/types"

const InsertHeaderSQL = `INSERT INTO core.headers (height, id, parent_id, timestamp) VALUES ($1, $2, $3, $4)`

const DeleteHeaderSQL = `DELETE FROM core.headers WHERE id = $1`

// BuildHeaderInsert returns the single insert that records a block's header.
func BuildHeaderInsert(h mtypes.Header) Statement {
	return New(InsertHeaderSQL,
		Integer(int32(h.Height)),
		Text(h.ID),
		Text(h.ParentID),
		BigInt(h.Timestamp),
	)
}

// BuildHeaderDelete is the rollback counterpart of BuildHeaderInsert: delete by
// primary key. With tier-1 constraints applied, ON DELETE CASCADE on box-assets
// and outputs means this single delete propagates through the rest of the core
// tier for the block.
func BuildHeaderDelete(h mtypes.Header) Statement {
	return New(DeleteHeaderSQL, Text(h.ID))
}
