package statements

import mtypes "github.com/ergowatch/ergo-indexer/chain/types"

const InsertOutputSQL = `INSERT INTO core.outputs (box_id, tx_id, header_id, creation_height, address, index, value) VALUES ($1, $2, $3, $4, $5, $6, $7)`

const DeleteOutputSQL = `DELETE FROM core.outputs WHERE box_id = $1`

// BuildOutputInserts returns one insert per output across all transactions of the
// block, in block order. core.box_assets declares ON DELETE CASCADE on box_id
// against this table, so rolling back a block's outputs also removes its asset
// rows without a separate statement.
func BuildOutputInserts(header mtypes.Header, txs []mtypes.Transaction) []Statement {
	var out []Statement
	for _, tx := range txs {
		for idx, o := range tx.Outputs {
			out = append(out, New(InsertOutputSQL,
				Text(o.BoxID),
				Text(tx.ID),
				Text(header.ID),
				Integer(int32(o.CreationHeight)),
				Text(o.Address),
				Integer(int32(idx)),
				BigInt(int64(o.Value)),
			))
		}
	}
	return out
}

// BuildOutputDeletes is the symmetric, delete-by-primary-key rollback of
// BuildOutputInserts. The Block Pipeline relies on ON DELETE CASCADE rather than
// calling this for box-assets/token rows (see chain/pipeline), but the builder
// itself remains independently testable.
func BuildOutputDeletes(txs []mtypes.Transaction) []Statement {
	var out []Statement
	for _, tx := range txs {
		for _, o := range tx.Outputs {
			out = append(out, New(DeleteOutputSQL, Text(o.BoxID)))
		}
	}
	return out
}
