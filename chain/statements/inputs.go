package statements

import mtypes "github.com/ergowatch/ergo-indexer/chain/types"

const InsertInputSQL = `INSERT INTO core.inputs (box_id, tx_id, header_id, index) VALUES ($1, $2, $3, $4)`

const DeleteInputSQL = `DELETE FROM core.inputs WHERE box_id = $1`

// BuildInputInserts records, for every box a block's transactions consume, which
// transaction spent it. This is the only place a spend is durable in the core
// tier — core.outputs never changes once written — and it is what lets the
// Bootstrap Engine's second phase recompute derived.unspent_boxes and
// derived.balances from the core tables alone, without the node.
func BuildInputInserts(header mtypes.Header, txs []mtypes.Transaction) []Statement {
	var out []Statement
	for _, tx := range txs {
		for idx, boxID := range tx.InputBoxIDs {
			out = append(out, New(InsertInputSQL, Text(boxID), Text(tx.ID), Text(header.ID), Integer(int32(idx))))
		}
	}
	return out
}

// BuildInputDeletes is the symmetric, delete-by-primary-key rollback.
// core.inputs.header_id carries ON DELETE CASCADE against core.headers(id), so
// the Block Pipeline relies on that rather than calling this directly; kept for
// builder-level symmetry tests.
func BuildInputDeletes(txs []mtypes.Transaction) []Statement {
	var out []Statement
	for _, tx := range txs {
		for _, boxID := range tx.InputBoxIDs {
			out = append(out, New(DeleteInputSQL, Text(boxID)))
		}
	}
	return out
}
