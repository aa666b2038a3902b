// Package statements implements the pure, I/O-free mapping from a parsed block
// (or block fragment) to an ordered list of parameterised SQL statements. Builders
// never touch the network or the database; they only construct values for the
// Database Gateway to execute inside one transaction per block.
package statements

import "fmt"

// Kind tags the declared SQL parameter type a Param carries. The builders only
// ever reach for the subset the schema actually needs, but the full set is
// named here so a Gateway implementation can type-switch safely.
type Kind int

const (
	KindInteger Kind = iota
	KindBigInt
	KindText
	KindBool
	KindSmallInt
	KindReal
)

// Param is one positional argument to a Statement. Null marks the optional
// variant of each Kind: when Null is true, Value must be ignored.
type Param struct {
	Kind  Kind
	Value any
	Null  bool
}

func Integer(v int32) Param  { return Param{Kind: KindInteger, Value: v} }
func BigInt(v int64) Param   { return Param{Kind: KindBigInt, Value: v} }
func Text(v string) Param    { return Param{Kind: KindText, Value: v} }
func Bool(v bool) Param      { return Param{Kind: KindBool, Value: v} }
func SmallInt(v int16) Param { return Param{Kind: KindSmallInt, Value: v} }
func Real(v float64) Param   { return Param{Kind: KindReal, Value: v} }

func OptInteger(v *int32) Param {
	if v == nil {
		return Param{Kind: KindInteger, Null: true}
	}
	return Integer(*v)
}

func OptText(v *string) Param {
	if v == nil {
		return Param{Kind: KindText, Null: true}
	}
	return Text(*v)
}

func OptBigInt(v *int64) Param {
	if v == nil {
		return Param{Kind: KindBigInt, Null: true}
	}
	return BigInt(*v)
}

// Arg returns the driver-facing value for this parameter: nil for a null optional,
// otherwise the underlying typed value. pgx accepts either directly as a
// positional query argument.
func (p Param) Arg() any {
	if p.Null {
		return nil
	}
	return p.Value
}

func (p Param) String() string {
	if p.Null {
		return "NULL"
	}
	return fmt.Sprintf("%v", p.Value)
}

// Statement is one parameterised SQL operation. SQL uses positional placeholders
// ($1..$N); Args supplies the typed values verbatim — builders never interpolate
// untrusted values into SQL text.
type Statement struct {
	SQL  string
	Args []Param
}

// ArgValues returns the statement's argument list as driver-ready values, in order.
func (s Statement) ArgValues() []any {
	out := make([]any, len(s.Args))
	for i, a := range s.Args {
		out[i] = a.Arg()
	}
	return out
}

func New(sql string, args ...Param) Statement {
	return Statement{SQL: sql, Args: args}
}
