package statements

import mtypes "github.com/ergowatch/ergo-indexer/chain/types"

const InsertBoxAssetSQL = `INSERT INTO core.box_assets (box_id, token_id, amount) VALUES ($1, $2, $3)`

const DeleteBoxAssetSQL = `DELETE FROM core.box_assets WHERE box_id = $1 AND token_id = $2`

// BuildBoxAssetInserts returns one insert per (output, token) pair across all
// transactions of the block, summing repeated token_id entries within the same
// output first. Must be sequenced after BuildOutputInserts by the caller: under
// tier-1 constraints box_assets.box_id is a foreign key into core.outputs.
func BuildBoxAssetInserts(txs []mtypes.Transaction) []Statement {
	var out []Statement
	for _, tx := range txs {
		for _, o := range tx.Outputs {
			sums := sumAssetsByToken(o.Assets)
			for _, tokenID := range sums.order {
				out = append(out, New(InsertBoxAssetSQL,
					Text(o.BoxID),
					Text(tokenID),
					BigInt(int64(sums.totals[tokenID])),
				))
			}
		}
	}
	return out
}

// BuildBoxAssetDeletes is the symmetric, delete-by-primary-key rollback of
// BuildBoxAssetInserts. core.box_assets carries ON DELETE CASCADE against
// core.outputs(box_id), so the Block Pipeline does not call this directly —
// deleting the owning output already removes these rows. It is kept for
// builder-level symmetry tests.
func BuildBoxAssetDeletes(txs []mtypes.Transaction) []Statement {
	var out []Statement
	for _, tx := range txs {
		for _, o := range tx.Outputs {
			sums := sumAssetsByToken(o.Assets)
			for _, tokenID := range sums.order {
				out = append(out, New(DeleteBoxAssetSQL, Text(o.BoxID), Text(tokenID)))
			}
		}
	}
	return out
}

type tokenSums struct {
	order  []string // first-seen token_id order, for deterministic statement order
	totals map[string]uint64
}

func sumAssetsByToken(assets []mtypes.Asset) tokenSums {
	s := tokenSums{totals: make(map[string]uint64, len(assets))}
	for _, a := range assets {
		if _, seen := s.totals[a.TokenID]; !seen {
			s.order = append(s.order, a.TokenID)
		}
		s.totals[a.TokenID] += a.Amount
	}
	return s
}
