package db

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ergowatch/ergo-indexer/chain/cache"
	"github.com/ergowatch/ergo-indexer/chain/statements"
	mtypes "github.com/ergowatch/ergo-indexer/chain/types"
	"github.com/ergowatch/ergo-indexer/params"
)

// PostgresGateway is the pgx-backed Database Gateway, grounded on the same
// Begin/Exec/Commit/Rollback shape the pack's other Postgres adapters use.
type PostgresGateway struct {
	pool *pgxpool.Pool
}

func NewPostgresGateway(ctx context.Context, dsn string) (*PostgresGateway, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("db: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}
	return &PostgresGateway{pool: pool}, nil
}

func (g *PostgresGateway) Close() {
	g.pool.Close()
}

func (g *PostgresGateway) Execute(ctx context.Context, stmts []statements.Statement) error {
	if len(stmts) == 0 {
		return nil
	}

	tx, err := g.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("db: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, s := range stmts {
		if _, err := tx.Exec(ctx, s.SQL, s.ArgValues()...); err != nil {
			return fmt.Errorf("db: exec %q: %w", s.SQL, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("db: commit: %w", err)
	}
	log.Debug("applied statement batch", "count", len(stmts))
	return nil
}

func (g *PostgresGateway) Head(ctx context.Context) (uint32, string, bool, error) {
	var height uint32
	var id string
	err := g.pool.QueryRow(ctx, `SELECT height, id FROM core.headers ORDER BY height DESC LIMIT 1`).Scan(&height, &id)
	if err == pgx.ErrNoRows {
		return 0, "", false, nil
	}
	if err != nil {
		return 0, "", false, fmt.Errorf("db: head: %w", err)
	}
	return height, id, true, nil
}

func (g *PostgresGateway) HeaderIDAtHeight(ctx context.Context, height uint32) (string, bool, error) {
	var id string
	err := g.pool.QueryRow(ctx, `SELECT id FROM core.headers WHERE height = $1`, height).Scan(&id)
	if err == pgx.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("db: header at height %d: %w", height, err)
	}
	return id, true, nil
}

func (g *PostgresGateway) BootstrapHeight(ctx context.Context) (uint32, bool, error) {
	var height uint32
	err := g.pool.QueryRow(ctx, `SELECT height FROM derived.bootstrap_progress`).Scan(&height)
	if err == pgx.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("db: bootstrap height: %w", err)
	}
	return height, true, nil
}

func (g *PostgresGateway) Tier(ctx context.Context) (ConstraintTier, error) {
	var tier1, tier2 bool
	err := g.pool.QueryRow(ctx, `
		SELECT
			EXISTS (SELECT 1 FROM information_schema.table_constraints WHERE constraint_name = 'fk_outputs_header'),
			EXISTS (SELECT 1 FROM information_schema.table_constraints WHERE constraint_name = 'fk_unspent_box_output')
	`).Scan(&tier1, &tier2)
	if err != nil {
		return TierNone, fmt.Errorf("db: tier: %w", err)
	}
	switch {
	case tier1 && tier2:
		return Tier1Tier2, nil
	case tier1:
		return Tier1, nil
	default:
		return TierNone, nil
	}
}

func (g *PostgresGateway) ApplyTier1(ctx context.Context) error {
	return runGroup(g.pool, tier1FS, "migrations/tier1", "migrations_"+params.MigrationVersionTier1)
}

func (g *PostgresGateway) ApplyTier2(ctx context.Context) error {
	return runGroup(g.pool, tier2FS, "migrations/tier2", "migrations_"+params.MigrationVersionTier2)
}

// ApplySchema applies the bare, constraint-free table set. Called once before
// Phase 1 of the Bootstrap Engine begins.
func (g *PostgresGateway) ApplySchema(ctx context.Context) error {
	return runGroup(g.pool, schemaFS, "migrations/schema", "migrations_"+params.MigrationVersionSchema)
}

// ApplyConstraintsAll runs tier-1 then tier-2 back to back, the shortcut a
// caller may take in place of ApplyTier1/ApplyTier2 when it already knows the
// database is empty (a fresh test database, for instance) and so cannot hit a
// constraint violation from pre-existing rows.
func (g *PostgresGateway) ApplyConstraintsAll(ctx context.Context) error {
	if err := g.ApplyTier1(ctx); err != nil {
		return err
	}
	return g.ApplyTier2(ctx)
}

func (g *PostgresGateway) LoadCache(ctx context.Context) (*cache.Cache, error) {
	c := cache.New()

	rows, err := g.pool.Query(ctx, `SELECT address, nanoerg FROM derived.balances`)
	if err != nil {
		return nil, fmt.Errorf("db: load balances: %w", err)
	}
	for rows.Next() {
		var address string
		var nanoerg int64
		if err := rows.Scan(&address, &nanoerg); err != nil {
			rows.Close()
			return nil, fmt.Errorf("db: scan balance: %w", err)
		}
		c.ErgBalances[address] = nanoerg
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db: load balances: %w", err)
	}

	tokRows, err := g.pool.Query(ctx, `SELECT address, token_id, amount FROM derived.token_balances`)
	if err != nil {
		return nil, fmt.Errorf("db: load token balances: %w", err)
	}
	for tokRows.Next() {
		var address, tokenID string
		var amount uint64
		if err := tokRows.Scan(&address, &tokenID, &amount); err != nil {
			tokRows.Close()
			return nil, fmt.Errorf("db: scan token balance: %w", err)
		}
		if c.TokenBalances[address] == nil {
			c.TokenBalances[address] = make(map[string]uint64)
		}
		c.TokenBalances[address][tokenID] = amount
	}
	tokRows.Close()
	if err := tokRows.Err(); err != nil {
		return nil, fmt.Errorf("db: load token balances: %w", err)
	}

	// BoxOwners is loaded for every box ever created, not only currently
	// unspent ones: a block near the current tip may have spent a box that is
	// no longer in derived.unspent_boxes, and rolling that block back still
	// needs the spent box's address/value/assets to recompute the balance
	// delta without a second database round trip.
	ownerRows, err := g.pool.Query(ctx, `SELECT box_id, address, value FROM core.outputs`)
	if err != nil {
		return nil, fmt.Errorf("db: load box owners: %w", err)
	}
	for ownerRows.Next() {
		var boxID, address string
		var value uint64
		if err := ownerRows.Scan(&boxID, &address, &value); err != nil {
			ownerRows.Close()
			return nil, fmt.Errorf("db: scan box owner: %w", err)
		}
		c.BoxOwners[boxID] = cache.BoxSummary{Address: address, Value: value}
	}
	ownerRows.Close()
	if err := ownerRows.Err(); err != nil {
		return nil, fmt.Errorf("db: load box owners: %w", err)
	}

	assetRows, err := g.pool.Query(ctx, `SELECT box_id, token_id, amount FROM core.box_assets`)
	if err != nil {
		return nil, fmt.Errorf("db: load box assets: %w", err)
	}
	for assetRows.Next() {
		var boxID, tokenID string
		var amount uint64
		if err := assetRows.Scan(&boxID, &tokenID, &amount); err != nil {
			assetRows.Close()
			return nil, fmt.Errorf("db: scan box asset: %w", err)
		}
		summary := c.BoxOwners[boxID]
		summary.Assets = append(summary.Assets, mtypes.Asset{TokenID: tokenID, Amount: amount})
		c.BoxOwners[boxID] = summary
	}
	assetRows.Close()
	if err := assetRows.Err(); err != nil {
		return nil, fmt.Errorf("db: load box assets: %w", err)
	}

	return c, nil
}

