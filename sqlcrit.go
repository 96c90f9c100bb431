package sqlcrit

/*
Short for "expression". Defines an arbitrary SQL expression. The method appends
arbitrary SQL text. In both the input and output, the arguments must correspond
to the parameters in the SQL text. This package always generates
Postgres-style ordinal parameters such as "$1", renumerating them as
necessary.

This method is allowed to panic. Use `(*Bui).CatchExprs` to catch
expression-encoding panics and convert them to errors.

Columns, conditions, criteria and join criteria in this package all implement
`Expr`. Most of them also implement `Appender` and `fmt.Stringer`.
*/
type Expr interface {
	AppendExpr([]byte, []any) ([]byte, []any)
}

/*
Appends a text repesentation. Sometimes allows better efficiency than
`fmt.Stringer`.
*/
type Appender interface {
	Append([]byte) []byte
}

/*
Any column-like expression: table columns, derived columns, constants,
aggregates and computed columns. `ColName` returns the bare column name used
in contexts that don't allow qualification, such as the column list of an
"insert" statement. Computed expressions return an empty name.
*/
type BasicCol interface {
	Expr
	ColName() string
}

/*
Column-like expression carrying the Go type of its values. Used to match
columns and conditions at compile time: `Is(col, cond)` accepts only a
`BindableCol[T]` together with a `Cond[T]` of the same `T`.
*/
type BindableCol[T any] interface {
	BasicCol
	bindsTo(T)
}

/*
Type-erased condition: the right-hand side of a column test, such as `= $1` or
`is null`. Empty conditions render nothing and cause the enclosing criterion
to be skipped.
*/
type Condition interface {
	AppendCond([]byte, []any) ([]byte, []any)
	IsEmpty() bool
	Op() Op
	Values() []any
}

// Condition that applies to values of type `T`. See `Is`.
type Cond[T any] interface {
	Condition
	condFor(T)
}
