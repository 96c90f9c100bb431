package sqlcrit

import "fmt"

// Comparison operator of a condition or a join condition.
type Op string

const (
	OpNone      Op = ``
	OpEq        Op = `=`
	OpNe        Op = `<>`
	OpLt        Op = `<`
	OpLte       Op = `<=`
	OpGt        Op = `>`
	OpGte       Op = `>=`
	OpLike      Op = `like`
	OpNotLike   Op = `not like`
	OpIsNull    Op = `is null`
	OpIsNotNull Op = `is not null`
	OpIn        Op = `in`
	OpNotIn     Op = `not in`
)

// Implement `fmt.Stringer`.
func (self Op) String() string { return string(self) }

// Shortcut for `Compare[T]{OpEq, val}`.
func IsEqualTo[T any](val T) Compare[T] { return Compare[T]{OpEq, val} }

// Shortcut for `Compare[T]{OpNe, val}`.
func IsNotEqualTo[T any](val T) Compare[T] { return Compare[T]{OpNe, val} }

// Shortcut for `Compare[T]{OpLt, val}`.
func IsLessThan[T any](val T) Compare[T] { return Compare[T]{OpLt, val} }

// Shortcut for `Compare[T]{OpLte, val}`.
func IsLessThanOrEqualTo[T any](val T) Compare[T] { return Compare[T]{OpLte, val} }

// Shortcut for `Compare[T]{OpGt, val}`.
func IsGreaterThan[T any](val T) Compare[T] { return Compare[T]{OpGt, val} }

// Shortcut for `Compare[T]{OpGte, val}`.
func IsGreaterThanOrEqualTo[T any](val T) Compare[T] { return Compare[T]{OpGte, val} }

// Shortcut for `Compare[T]{OpLike, val}`.
func IsLike[T any](val T) Compare[T] { return Compare[T]{OpLike, val} }

// Shortcut for `Compare[T]{OpNotLike, val}`.
func IsNotLike[T any](val T) Compare[T] { return Compare[T]{OpNotLike, val} }

/*
Binary comparison against a single value, such as `= $1`. If the value
implements `Expr`, it's rendered inline instead of becoming an argument.
*/
type Compare[T any] struct {
	Operator Op
	Val      T
}

// Implement `Condition`.
func (self Compare[T]) AppendCond(text []byte, args []any) ([]byte, []any) {
	bui := Bui{text, args}
	bui.Str(self.Operator.String())
	bui.Any(self.Val)
	return bui.Get()
}

// Implement `Condition`. Always false.
func (self Compare[T]) IsEmpty() bool { return false }

// Implement `Condition`.
func (self Compare[T]) Op() Op { return self.Operator }

// Implement `Condition`.
func (self Compare[T]) Values() []any { return []any{self.Val} }

func (Compare[T]) condFor(T) {}

// Shortcut for `NullCheck[T]{}`: `is null`.
func IsNull[T any]() NullCheck[T] { return NullCheck[T]{} }

// Shortcut for `NullCheck[T]{Not: true}`: `is not null`.
func IsNotNull[T any]() NullCheck[T] { return NullCheck[T]{Not: true} }

// Represents `is null` or `is not null`.
type NullCheck[T any] struct{ Not bool }

// Implement `Condition`.
func (self NullCheck[T]) AppendCond(text []byte, args []any) ([]byte, []any) {
	return appendMaybeSpaced(text, self.Op().String()), args
}

// Implement `Condition`. Always false.
func (self NullCheck[T]) IsEmpty() bool { return false }

// Implement `Condition`.
func (self NullCheck[T]) Op() Op {
	if self.Not {
		return OpIsNotNull
	}
	return OpIsNull
}

// Implement `Condition`. Always nil.
func (self NullCheck[T]) Values() []any { return nil }

func (NullCheck[T]) condFor(T) {}

// Shortcut for `InList[T]{Vals: vals}`.
func IsIn[T any](vals ...T) InList[T] { return InList[T]{Vals: vals} }

// Shortcut for `InList[T]{Not: true, Vals: vals}`.
func IsNotIn[T any](vals ...T) InList[T] { return InList[T]{Not: true, Vals: vals} }

/*
Represents `in ($1, $2, ...)` or `not in (...)`. An empty list is invalid and
panics when rendered: SQL has no empty list literal.
*/
type InList[T any] struct {
	Not  bool
	Vals []T
}

// Implement `Condition`.
func (self InList[T]) AppendCond(text []byte, args []any) ([]byte, []any) {
	if len(self.Vals) == 0 {
		panic(ErrInvalidInput.while(`encoding list condition`).because(
			fmt.Errorf(`empty value list for %q`, self.Op()),
		))
	}

	bui := Bui{text, args}
	bui.Str(self.Op().String())
	bui.Str(`(`)
	for ind, val := range self.Vals {
		if ind > 0 {
			bui.Str(`,`)
		}
		bui.Any(val)
	}
	bui.Str(`)`)
	return bui.Get()
}

// Implement `Condition`. Always false.
func (self InList[T]) IsEmpty() bool { return false }

// Implement `Condition`.
func (self InList[T]) Op() Op {
	if self.Not {
		return OpNotIn
	}
	return OpIn
}

// Implement `Condition`.
func (self InList[T]) Values() []any {
	out := make([]any, len(self.Vals))
	for ind, val := range self.Vals {
		out[ind] = val
	}
	return out
}

func (InList[T]) condFor(T) {}

// Equality that applies only when the value is present. See `Present`.
func IsEqualToWhenPresent[T any](val *T) Present[T] { return presentOf(OpEq, val) }

// Inequality that applies only when the value is present. See `Present`.
func IsNotEqualToWhenPresent[T any](val *T) Present[T] { return presentOf(OpNe, val) }

// Pattern match that applies only when the value is present. See `Present`.
func IsLikeWhenPresent[T any](val *T) Present[T] { return presentOf(OpLike, val) }

// Negated pattern match that applies only when the value is present. See
// `Present`.
func IsNotLikeWhenPresent[T any](val *T) Present[T] { return presentOf(OpNotLike, val) }

func presentOf[T any](op Op, val *T) Present[T] {
	if val == nil || isNil(*val) {
		return Present[T]{Operator: op}
	}
	return Present[T]{Operator: op, Val: *val, Ok: true}
}

/*
Binary comparison that renders only when `.Ok` is true. Otherwise the
condition is empty, and the enclosing criterion is skipped. Useful for
optional filters:

	cond := sqlcrit.IsNotLikeWhenPresent(input.Pattern)
*/
type Present[T any] struct {
	Operator Op
	Val      T
	Ok       bool
}

/*
Returns an empty condition if this one is empty or if the predicate rejects the
value. Otherwise returns the condition unchanged.
*/
func (self Present[T]) Filter(fun func(T) bool) Present[T] {
	if !self.Ok || fun == nil || !fun(self.Val) {
		return Present[T]{Operator: self.Operator}
	}
	return self
}

// Implement `Condition`.
func (self Present[T]) AppendCond(text []byte, args []any) ([]byte, []any) {
	if !self.Ok {
		return text, args
	}
	return Compare[T]{self.Operator, self.Val}.AppendCond(text, args)
}

// Implement `Condition`.
func (self Present[T]) IsEmpty() bool { return !self.Ok }

// Implement `Condition`.
func (self Present[T]) Op() Op { return self.Operator }

// Implement `Condition`. Nil when empty.
func (self Present[T]) Values() []any {
	if !self.Ok {
		return nil
	}
	return []any{self.Val}
}

func (Present[T]) condFor(T) {}

/*
Converts the value of a present condition, keeping the operator. An empty
condition stays empty, and the function is not called. A nil result, such as a
nil pointer, makes the condition empty.
*/
func MapPresent[T, R any](src Present[T], fun func(T) R) Present[R] {
	if !src.Ok {
		return Present[R]{Operator: src.Operator}
	}
	out := fun(src.Val)
	if isNil(out) {
		return Present[R]{Operator: src.Operator}
	}
	return Present[R]{Operator: src.Operator, Val: out, Ok: true}
}
