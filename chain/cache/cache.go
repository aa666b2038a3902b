// Package cache holds the in-memory aggregate the balance statement builder
// mutates against instead of reading the database. It is seeded once from the
// Database Gateway's LoadCache at startup and kept consistent with every
// committed transaction by the Sync and Bootstrap Engines — there is exactly one
// writer, the goroutine running the sync loop, so no locking is required.
package cache

import mtypes "github.com/ergowatch/ergo-indexer/chain/types"

// BoxSummary is the owner/value/assets of one output, kept around after the box
// is spent so that a later rollback of the spending block can recompute the
// exact balance delta to undo without reading the database. Entries are never
// removed; a box_id is never reused, so stale entries are harmless.
type BoxSummary struct {
	Address string
	Value   uint64
	Assets  []mtypes.Asset
}

// Cache is the process-wide mutable aggregate: balances plus the box-ownership
// lookup that makes balance deltas computable in memory alone.
type Cache struct {
	ErgBalances   map[string]int64
	TokenBalances map[string]map[string]uint64
	BoxOwners     map[string]BoxSummary
}

func New() *Cache {
	return &Cache{
		ErgBalances:   make(map[string]int64),
		TokenBalances: make(map[string]map[string]uint64),
		BoxOwners:     make(map[string]BoxSummary),
	}
}

func (c *Cache) Erg(address string) int64 {
	return c.ErgBalances[address]
}

func (c *Cache) Token(address, tokenID string) uint64 {
	byToken, ok := c.TokenBalances[address]
	if !ok {
		return 0
	}
	return byToken[tokenID]
}

// SetToken records the absolute token balance for (address, tokenID),
// creating the nested map lazily.
func (c *Cache) SetToken(address, tokenID string, amount uint64) {
	byToken, ok := c.TokenBalances[address]
	if !ok {
		byToken = make(map[string]uint64)
		c.TokenBalances[address] = byToken
	}
	byToken[tokenID] = amount
}
