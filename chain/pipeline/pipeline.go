// Package pipeline composes the pure statement builders in chain/statements
// into the statement batches the Sync and Bootstrap Engines submit to the
// Database Gateway, in the order required by the schema's foreign keys — the
// same role core/blockchain.go's insertChain plays for a trie-backed chain.
package pipeline

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/ergowatch/ergo-indexer/chain/cache"
	"github.com/ergowatch/ergo-indexer/chain/statements"
	mtypes "github.com/ergowatch/ergo-indexer/chain/types"
)

// PrepInclude returns the ordered statement batch that advances both the core
// and derived tiers by one block: header and core rows first (satisfying their
// foreign keys), then the derived unspent-box and balance rows, which read and
// mutate c. Any token mint whose R6 register failed to parse as an integer is
// logged here — the builder itself stays pure and only reports it as data.
func PrepInclude(block mtypes.Block, c *cache.Cache) []statements.Statement {
	var out []statements.Statement

	out = append(out, statements.BuildHeaderInsert(block.Header))
	out = append(out, statements.BuildOutputInserts(block.Header, block.Transactions)...)
	out = append(out, statements.BuildBoxAssetInserts(block.Transactions)...)
	out = append(out, statements.BuildInputInserts(block.Header, block.Transactions)...)

	tokenStmts, warnings := statements.BuildTokenMintInserts(block.Transactions)
	out = append(out, tokenStmts...)
	for _, w := range warnings {
		log.Warn("token mint register parse failed", "token", w.TokenID, "box", w.BoxID, "reason", w.Reason)
	}

	out = append(out, statements.BuildUnspentBoxForward(block.Transactions)...)
	out = append(out, statements.BuildBalancesForward(c, block.Transactions)...)

	return out
}

// PrepRollback returns the ordered statement batch that undoes block: derived
// rows first (balances, unspent-box), then the block's output deletes, then the
// core header delete. Deleting outputs cascades to box_assets, token_mints and
// the input records that spent them, and deleting the header cascades to its
// remaining input records, so prep_rollback never deletes those explicitly —
// see the schema's ON DELETE CASCADE on the FKs to core.headers(id) and
// core.outputs(box_id).
func PrepRollback(block mtypes.Block, c *cache.Cache) []statements.Statement {
	var out []statements.Statement

	out = append(out, statements.BuildBalancesRollback(c, block.Transactions)...)
	out = append(out, statements.BuildUnspentBoxRollback(block.Transactions)...)
	out = append(out, statements.BuildOutputDeletes(block.Transactions)...)
	out = append(out, statements.BuildHeaderDelete(block.Header))

	return out
}

// PrepCoreInclude returns the core-tier-only batch Phase 1 of the Bootstrap
// Engine applies: header, outputs, box assets, inputs and token mints. It
// never touches the derived tier or the balance cache — unspent-box and balance
// rows are rebuilt wholesale from the core tables in Phase 2 by
// PrepBootstrapAtHeight, not accumulated incrementally during Phase 1's
// forward-only catch-up.
func PrepCoreInclude(block mtypes.Block) []statements.Statement {
	var out []statements.Statement

	out = append(out, statements.BuildHeaderInsert(block.Header))
	out = append(out, statements.BuildOutputInserts(block.Header, block.Transactions)...)
	out = append(out, statements.BuildBoxAssetInserts(block.Transactions)...)
	out = append(out, statements.BuildInputInserts(block.Header, block.Transactions)...)

	tokenStmts, warnings := statements.BuildTokenMintInserts(block.Transactions)
	out = append(out, tokenStmts...)
	for _, w := range warnings {
		log.Warn("token mint register parse failed", "token", w.TokenID, "box", w.BoxID, "reason", w.Reason)
	}

	return out
}

// PrepBootstrapAtHeight returns the set-based, derived-tables-only batch
// Phase 2 of the Bootstrap Engine executes once per height: it rebuilds
// unspent-box and balance rows for height directly from the core tables
// Phase 1 already populated. It takes no Block and touches no cache — the
// statements themselves read core.outputs/core.box_assets/core.inputs and
// fold their result into the derived tables with ON CONFLICT DO UPDATE.
func PrepBootstrapAtHeight(height uint32) []statements.Statement {
	return statements.BuildBootstrapRebuildAtHeight(height)
}

// PrepGenesis returns the statement batch that seeds both tiers with the
// protocol's fixed genesis box set at height zero, and seeds c to match.
func PrepGenesis(genesisHeaderID string, genesisTimestamp int64, boxes []mtypes.GenesisBox, c *cache.Cache) []statements.Statement {
	out := statements.BuildGenesisStatements(genesisHeaderID, genesisTimestamp, boxes)

	for _, b := range boxes {
		c.BoxOwners[b.BoxID] = cache.BoxSummary{Address: b.Address, Value: b.Value, Assets: b.Assets}
		c.ErgBalances[b.Address] += int64(b.Value)
		for _, a := range b.Assets {
			c.TokenBalances[b.Address] = addToken(c.TokenBalances[b.Address], a.TokenID, a.Amount)
		}
	}

	return out
}

func addToken(m map[string]uint64, tokenID string, amount uint64) map[string]uint64 {
	if m == nil {
		m = make(map[string]uint64)
	}
	m[tokenID] += amount
	return m
}
