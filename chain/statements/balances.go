package statements

import (
	"github.com/ergowatch/ergo-indexer/chain/cache"
	mtypes "github.com/ergowatch/ergo-indexer/chain/types"
)

const UpsertErgBalanceSQL = `INSERT INTO derived.balances (address, nanoerg) VALUES ($1, $2)
	ON CONFLICT (address) DO UPDATE SET nanoerg = EXCLUDED.nanoerg`

const UpsertTokenBalanceSQL = `INSERT INTO derived.token_balances (address, token_id, amount) VALUES ($1, $2, $3)
	ON CONFLICT (address, token_id) DO UPDATE SET amount = EXCLUDED.amount`

// blockDelta is the net per-address change a block causes: outputs add, spent
// inputs subtract using the owner recorded in the cache when that box was
// created. It is computed once and applied with either sign, which is what lets
// BuildBalancesForward and BuildBalancesRollback share it.
type blockDelta struct {
	ergOrder   []string
	erg        map[string]int64
	tokenOrder map[string][]string
	token      map[string]map[string]int64
}

func newBlockDelta() *blockDelta {
	return &blockDelta{
		erg:        make(map[string]int64),
		tokenOrder: make(map[string][]string),
		token:      make(map[string]map[string]int64),
	}
}

func (d *blockDelta) addErg(address string, amount int64) {
	if _, seen := d.erg[address]; !seen {
		d.ergOrder = append(d.ergOrder, address)
	}
	d.erg[address] += amount
}

func (d *blockDelta) addToken(address, tokenID string, amount int64) {
	byToken, ok := d.token[address]
	if !ok {
		byToken = make(map[string]int64)
		d.token[address] = byToken
	}
	if _, seen := byToken[tokenID]; !seen {
		d.tokenOrder[address] = append(d.tokenOrder[address], tokenID)
	}
	byToken[tokenID] += amount
}

// computeBlockDelta walks the block's outputs (adding) then its inputs
// (subtracting, resolved against boxes created earlier in this same block
// first, falling back to the cache for boxes created in a previous block).
func computeBlockDelta(c *cache.Cache, txs []mtypes.Transaction) (*blockDelta, map[string]cache.BoxSummary) {
	d := newBlockDelta()
	local := make(map[string]cache.BoxSummary)

	for _, tx := range txs {
		for _, o := range tx.Outputs {
			sums := sumAssetsByToken(o.Assets)
			assets := make([]mtypes.Asset, 0, len(sums.order))
			for _, tokenID := range sums.order {
				assets = append(assets, mtypes.Asset{TokenID: tokenID, Amount: sums.totals[tokenID]})
			}
			local[o.BoxID] = cache.BoxSummary{Address: o.Address, Value: o.Value, Assets: assets}

			d.addErg(o.Address, int64(o.Value))
			for _, tokenID := range sums.order {
				d.addToken(o.Address, tokenID, int64(sums.totals[tokenID]))
			}
		}
	}

	for _, tx := range txs {
		for _, boxID := range tx.InputBoxIDs {
			summary, ok := local[boxID]
			if !ok {
				summary = c.BoxOwners[boxID]
			}
			d.addErg(summary.Address, -int64(summary.Value))
			for _, a := range summary.Assets {
				d.addToken(summary.Address, a.TokenID, -int64(a.Amount))
			}
		}
	}

	return d, local
}

// BuildBalancesForward mutates the cache in place — registering this block's new
// boxes, then applying the computed delta — and emits one absolute-value upsert
// per address and per (address, token) pair touched, reflecting the new totals.
func BuildBalancesForward(c *cache.Cache, txs []mtypes.Transaction) []Statement {
	d, newOwners := computeBlockDelta(c, txs)
	for boxID, summary := range newOwners {
		c.BoxOwners[boxID] = summary
	}

	for _, address := range d.ergOrder {
		c.ErgBalances[address] += d.erg[address]
	}
	for address, tokenIDs := range d.tokenOrder {
		for _, tokenID := range tokenIDs {
			c.SetToken(address, tokenID, uint64(int64(c.Token(address, tokenID))+d.token[address][tokenID]))
		}
	}

	return emitBalanceStatements(c, d)
}

// BuildBalancesRollback computes the same delta the original forward application
// used, emits upserts for the pre-block values, then applies the delta to the
// cache so a subsequent roll-forward starts from that pre-block state. Boxes
// this block created stay registered in BoxOwners — box ids are never reused,
// so the stale entries are inert.
func BuildBalancesRollback(c *cache.Cache, txs []mtypes.Transaction) []Statement {
	d, _ := computeBlockDelta(c, txs)

	targetErg := make(map[string]int64, len(d.ergOrder))
	for _, address := range d.ergOrder {
		targetErg[address] = c.Erg(address) - d.erg[address]
	}
	targetToken := make(map[string]map[string]uint64, len(d.tokenOrder))
	for address, tokenIDs := range d.tokenOrder {
		byToken := make(map[string]uint64, len(tokenIDs))
		for _, tokenID := range tokenIDs {
			byToken[tokenID] = uint64(int64(c.Token(address, tokenID)) - d.token[address][tokenID])
		}
		targetToken[address] = byToken
	}

	var out []Statement
	for _, address := range d.ergOrder {
		out = append(out, New(UpsertErgBalanceSQL, Text(address), BigInt(targetErg[address])))
	}
	for address, tokenIDs := range d.tokenOrder {
		for _, tokenID := range tokenIDs {
			out = append(out, New(UpsertTokenBalanceSQL, Text(address), Text(tokenID), BigInt(int64(targetToken[address][tokenID]))))
		}
	}

	for address, value := range targetErg {
		c.ErgBalances[address] = value
	}
	for address, byToken := range targetToken {
		for tokenID, value := range byToken {
			c.SetToken(address, tokenID, value)
		}
	}

	return out
}

// emitBalanceStatements reads the cache's current values for every touched key
// in the order they were first touched and builds the matching upsert. It is
// called after the cache has already been brought to its target state, by both
// directions.
func emitBalanceStatements(c *cache.Cache, d *blockDelta) []Statement {
	var out []Statement
	for _, address := range d.ergOrder {
		out = append(out, New(UpsertErgBalanceSQL, Text(address), BigInt(c.Erg(address))))
	}
	// Every address with a token delta also has an erg delta (computeBlockDelta
	// touches the erg balance first), so ergOrder covers every token address.
	for _, address := range d.ergOrder {
		for _, tokenID := range d.tokenOrder[address] {
			out = append(out, New(UpsertTokenBalanceSQL, Text(address), Text(tokenID), BigInt(int64(c.Token(address, tokenID)))))
		}
	}
	return out
}
