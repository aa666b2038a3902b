package statements

import (
	"encoding/hex"
	"strconv"

	mtypes "github.com/ergowatch/ergo-indexer/chain/types"
)

const InsertTokenMintSQL = `INSERT INTO core.token_mints (token_id, box_id, emission_amount) VALUES ($1, $2, $3)`

const InsertTokenMintEIP4SQL = `INSERT INTO core.token_mints (token_id, box_id, emission_amount, name, description, decimals) VALUES ($1, $2, $3, $4, $5, $6)`

const DeleteTokenMintSQL = `DELETE FROM core.token_mints WHERE token_id = $1`

const eip4RegisterType = "Coll[SByte]"

// TokenWarning reports a register parse failure a builder detected. Builders
// stay pure and return data describing what happened; the caller (chain/pipeline)
// is responsible for logging it.
type TokenWarning struct {
	TokenID string
	BoxID   string
	Reason  string
}

// BuildTokenMintInserts groups, per transaction, the output assets whose token_id
// equals the transaction's minting input (InputBoxIDs[0]), summing emission across
// every output of that transaction. At most one token row is emitted per
// transaction. When the first output carrying the minted asset declares R4, R5 and
// R6 all as Coll[SByte], and R6 decodes to a valid integer, the EIP-4 variant is
// emitted; otherwise the plain variant is emitted, with a warning attached if R6
// was present but failed to parse.
func BuildTokenMintInserts(txs []mtypes.Transaction) ([]Statement, []TokenWarning) {
	var stmts []Statement
	var warnings []TokenWarning

	for _, tx := range txs {
		if len(tx.InputBoxIDs) == 0 {
			continue
		}
		mintTokenID := tx.InputBoxIDs[0]

		var emission uint64
		var mintingOutput *mtypes.Output
		for i := range tx.Outputs {
			o := &tx.Outputs[i]
			for _, a := range o.Assets {
				if a.TokenID == mintTokenID {
					emission += a.Amount
					if mintingOutput == nil {
						mintingOutput = o
					}
				}
			}
		}
		if mintingOutput == nil {
			continue // no asset in this tx mints its own input id
		}

		stmt, warn := buildOneTokenMint(mintTokenID, *mintingOutput, emission)
		stmts = append(stmts, stmt)
		if warn != nil {
			warnings = append(warnings, *warn)
		}
	}
	return stmts, warnings
}

func buildOneTokenMint(tokenID string, out mtypes.Output, emission uint64) (Statement, *TokenWarning) {
	r4, ok4 := eip4Bytes(out, "R4")
	r5, ok5 := eip4Bytes(out, "R5")
	r6, ok6 := eip4Bytes(out, "R6")

	if !(ok4 && ok5 && ok6) {
		return New(InsertTokenMintSQL, Text(tokenID), Text(out.BoxID), BigInt(int64(emission))), nil
	}

	decimals, err := strconv.Atoi(string(r6))
	if err != nil {
		return New(InsertTokenMintSQL, Text(tokenID), Text(out.BoxID), BigInt(int64(emission))),
			&TokenWarning{TokenID: tokenID, BoxID: out.BoxID, Reason: "R6 is not a valid integer: " + err.Error()}
	}

	return New(InsertTokenMintEIP4SQL,
		Text(tokenID), Text(out.BoxID), BigInt(int64(emission)),
		Text(string(r4)), Text(string(r5)), SmallInt(int16(decimals)),
	), nil
}

// eip4Bytes returns the decoded UTF-8 bytes of register key on out, and whether
// the register was present and declared Coll[SByte].
func eip4Bytes(out mtypes.Output, key string) ([]byte, bool) {
	reg, present := out.Registers[key]
	if !present || reg.Type != eip4RegisterType {
		return nil, false
	}
	decoded, err := hex.DecodeString(reg.Value)
	if err != nil {
		return nil, false
	}
	return decoded, true
}

// BuildTokenMintDeletes is the symmetric, delete-by-primary-key rollback. As with
// box-assets, core.token_mints.box_id carries ON DELETE CASCADE against
// core.outputs(box_id), so the Block Pipeline relies on that rather than calling
// this directly; kept for builder-level symmetry tests.
func BuildTokenMintDeletes(tokenIDs []string) []Statement {
	var out []Statement
	for _, id := range tokenIDs {
		out = append(out, New(DeleteTokenMintSQL, Text(id)))
	}
	return out
}
