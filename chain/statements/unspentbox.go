package statements

import mtypes "github.com/ergowatch/ergo-indexer/chain/types"

const InsertUnspentBoxSQL = `INSERT INTO derived.unspent_boxes (box_id) VALUES ($1)`

const DeleteUnspentBoxSQL = `DELETE FROM derived.unspent_boxes WHERE box_id = $1`

// BuildUnspentBoxForward emits, in block order, one insert per output followed by
// one delete per input. A box created and spent within the same block is therefore
// inserted then deleted, and correctly absent from the final set.
func BuildUnspentBoxForward(txs []mtypes.Transaction) []Statement {
	var out []Statement
	for _, tx := range txs {
		for _, o := range tx.Outputs {
			out = append(out, New(InsertUnspentBoxSQL, Text(o.BoxID)))
		}
	}
	for _, tx := range txs {
		for _, boxID := range tx.InputBoxIDs {
			out = append(out, New(DeleteUnspentBoxSQL, Text(boxID)))
		}
	}
	return out
}

// BuildUnspentBoxRollback is the exact inverse of BuildUnspentBoxForward: insert
// each input (undoing its forward delete), then delete each output (undoing its
// forward insert).
func BuildUnspentBoxRollback(txs []mtypes.Transaction) []Statement {
	var out []Statement
	for _, tx := range txs {
		for _, boxID := range tx.InputBoxIDs {
			out = append(out, New(InsertUnspentBoxSQL, Text(boxID)))
		}
	}
	for _, tx := range txs {
		for _, o := range tx.Outputs {
			out = append(out, New(DeleteUnspentBoxSQL, Text(o.BoxID)))
		}
	}
	return out
}

// BuildGenesisUnspentBoxInserts translates the fixed genesis box set as outputs
// only: no inputs, no transaction wrapper, emitted before any regular block.
func BuildGenesisUnspentBoxInserts(boxes []mtypes.GenesisBox) []Statement {
	var out []Statement
	for _, b := range boxes {
		out = append(out, New(InsertUnspentBoxSQL, Text(b.BoxID)))
	}
	return out
}
