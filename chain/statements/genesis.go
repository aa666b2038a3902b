package statements

import mtypes "github.com/ergowatch/ergo-indexer/chain/types"

// BuildGenesisStatements translates the node's fixed genesis box set into the
// header/outputs/box-assets/unspent-box statements, plus the matching erg and
// token balance upserts, applied once at height zero,
// before any regular block. Genesis boxes have no owning transaction, so each
// output's synthetic tx_id is its own box_id — the same convention the rest of
// core.outputs uses to key rows, just without a real transaction behind it.
func BuildGenesisStatements(genesisHeaderID string, genesisTimestamp int64, boxes []mtypes.GenesisBox) []Statement {
	out := []Statement{
		New(InsertHeaderSQL, Integer(0), Text(genesisHeaderID), Text(""), BigInt(genesisTimestamp)),
	}

	for idx, b := range boxes {
		out = append(out, New(InsertOutputSQL,
			Text(b.BoxID),
			Text(b.BoxID), // synthetic tx_id: genesis boxes have no transaction
			Text(genesisHeaderID),
			Integer(int32(b.CreationHeight)),
			Text(b.Address),
			Integer(int32(idx)),
			BigInt(int64(b.Value)),
		))
	}

	for _, b := range boxes {
		sums := sumAssetsByToken(b.Assets)
		for _, tokenID := range sums.order {
			out = append(out, New(InsertBoxAssetSQL, Text(b.BoxID), Text(tokenID), BigInt(int64(sums.totals[tokenID]))))
		}
	}

	out = append(out, BuildGenesisUnspentBoxInserts(boxes)...)
	out = append(out, buildGenesisBalanceUpserts(boxes)...)
	return out
}

// buildGenesisBalanceUpserts emits the same absolute-value upserts
// BuildBalancesForward would for a block whose only transaction's outputs are
// the genesis boxes themselves — without it, an address that receives genesis
// funds and is never touched again would have no row in derived.balances.
func buildGenesisBalanceUpserts(boxes []mtypes.GenesisBox) []Statement {
	d := newBlockDelta()
	for _, b := range boxes {
		d.addErg(b.Address, int64(b.Value))
		for _, a := range b.Assets {
			d.addToken(b.Address, a.TokenID, int64(a.Amount))
		}
	}

	var out []Statement
	for _, address := range d.ergOrder {
		out = append(out, New(UpsertErgBalanceSQL, Text(address), BigInt(d.erg[address])))
	}
	for address, tokenIDs := range d.tokenOrder {
		for _, tokenID := range tokenIDs {
			out = append(out, New(UpsertTokenBalanceSQL, Text(address), Text(tokenID), BigInt(d.token[address][tokenID])))
		}
	}
	return out
}
