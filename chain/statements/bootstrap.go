package statements

// InsertNewBoxesAtHeightSQL and DeleteSpentBoxesAtHeightSQL are the pair of
// set-based statements phase 2 of the Bootstrap Engine runs per height, one
// transaction at a time, reading only the core tables phase 1 already
// populated. Unlike BuildUnspentBoxForward, these never see a parsed block —
// height is their only parameter.
const InsertNewBoxesAtHeightSQL = `
	INSERT INTO derived.unspent_boxes (box_id)
	SELECT o.box_id
	FROM core.outputs o
	JOIN core.headers h ON h.id = o.header_id
	WHERE h.height = $1`

const DeleteSpentBoxesAtHeightSQL = `
	DELETE FROM derived.unspent_boxes
	WHERE box_id IN (
		SELECT i.box_id
		FROM core.inputs i
		JOIN core.headers h ON h.id = i.header_id
		WHERE h.height = $1
	)`

// The erg/token balance pairs below are the set-based counterpart of
// BuildBalancesForward for bootstrap: rather than reading an in-memory cache,
// each statement aggregates directly over the core tables for one height and
// folds the result into derived.balances/derived.token_balances with
// ON CONFLICT DO UPDATE. Running the add and subtract statement for a height
// in the same transaction as the unspent-box pair keeps the whole rebuild for
// that height atomic, the same contract prep_include/prep_rollback honour.
const AddErgBalancesAtHeightSQL = `
	INSERT INTO derived.balances (address, nanoerg)
	SELECT o.address, SUM(o.value)
	FROM core.outputs o
	JOIN core.headers h ON h.id = o.header_id
	WHERE h.height = $1
	GROUP BY o.address
	ON CONFLICT (address) DO UPDATE SET nanoerg = derived.balances.nanoerg + EXCLUDED.nanoerg`

const SubtractErgBalancesAtHeightSQL = `
	INSERT INTO derived.balances (address, nanoerg)
	SELECT o.address, -SUM(o.value)
	FROM core.inputs i
	JOIN core.headers h ON h.id = i.header_id
	JOIN core.outputs o ON o.box_id = i.box_id
	WHERE h.height = $1
	GROUP BY o.address
	ON CONFLICT (address) DO UPDATE SET nanoerg = derived.balances.nanoerg + EXCLUDED.nanoerg`

const AddTokenBalancesAtHeightSQL = `
	INSERT INTO derived.token_balances (address, token_id, amount)
	SELECT o.address, ba.token_id, SUM(ba.amount)
	FROM core.box_assets ba
	JOIN core.outputs o ON o.box_id = ba.box_id
	JOIN core.headers h ON h.id = o.header_id
	WHERE h.height = $1
	GROUP BY o.address, ba.token_id
	ON CONFLICT (address, token_id) DO UPDATE SET amount = derived.token_balances.amount + EXCLUDED.amount`

const SubtractTokenBalancesAtHeightSQL = `
	INSERT INTO derived.token_balances (address, token_id, amount)
	SELECT o.address, ba.token_id, -SUM(ba.amount)
	FROM core.inputs i
	JOIN core.headers h ON h.id = i.header_id
	JOIN core.box_assets ba ON ba.box_id = i.box_id
	JOIN core.outputs o ON o.box_id = i.box_id
	WHERE h.height = $1
	GROUP BY o.address, ba.token_id
	ON CONFLICT (address, token_id) DO UPDATE SET amount = derived.token_balances.amount + EXCLUDED.amount`

// UpsertBootstrapHeightSQL records the height this batch rebuilt in
// derived.bootstrap_progress, inside the same transaction as the rebuild
// itself. An interrupted phase 2 reads it back to resume at the first height
// whose transaction never committed.
const UpsertBootstrapHeightSQL = `
	INSERT INTO derived.bootstrap_progress (onerow, height) VALUES (TRUE, $1)
	ON CONFLICT (onerow) DO UPDATE SET height = EXCLUDED.height`

// BuildBootstrapRebuildAtHeight returns the set-based statement batch phase 2
// of the Bootstrap Engine executes once per height, rebuilding
// derived.unspent_boxes, derived.balances and derived.token_balances directly
// from core.outputs/core.box_assets/core.inputs. It never touches the node,
// a parsed Block, or the in-memory cache — Phase 2 reloads the cache once
// from the Gateway after this has run for every height up to the target.
func BuildBootstrapRebuildAtHeight(height uint32) []Statement {
	h := Integer(int32(height))
	return []Statement{
		New(InsertNewBoxesAtHeightSQL, h),
		New(DeleteSpentBoxesAtHeightSQL, h),
		New(AddErgBalancesAtHeightSQL, h),
		New(SubtractErgBalancesAtHeightSQL, h),
		New(AddTokenBalancesAtHeightSQL, h),
		New(SubtractTokenBalancesAtHeightSQL, h),
		New(UpsertBootstrapHeightSQL, h),
	}
}
