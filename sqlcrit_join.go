package sqlcrit

import "fmt"

// Comparison-operator factory used to complete a `RightColBinder`.
type JoinCondFactory = func(BasicCol) JoinCond

// Shortcut for `JoinCond{OpEq, right}`.
func EqualTo(right BasicCol) JoinCond { return JoinCond{OpEq, right} }

// Shortcut for `JoinCond{OpNe, right}`.
func NotEqualTo(right BasicCol) JoinCond { return JoinCond{OpNe, right} }

// Shortcut for `JoinCond{OpLt, right}`.
func LessThan(right BasicCol) JoinCond { return JoinCond{OpLt, right} }

// Shortcut for `JoinCond{OpLte, right}`.
func LessThanOrEqualTo(right BasicCol) JoinCond { return JoinCond{OpLte, right} }

// Shortcut for `JoinCond{OpGt, right}`.
func GreaterThan(right BasicCol) JoinCond { return JoinCond{OpGt, right} }

// Shortcut for `JoinCond{OpGte, right}`.
func GreaterThanOrEqualTo(right BasicCol) JoinCond { return JoinCond{OpGte, right} }

// Right-hand side of a join criterion: operator and column, such as
// `= "b"."id"`.
type JoinCond struct {
	Operator Op
	Right    BasicCol
}

// Implement the `Expr` interface, making this a sub-expression.
func (self JoinCond) AppendExpr(text []byte, args []any) ([]byte, []any) {
	bui := Bui{text, args}
	bui.Str(self.Operator.String())
	bui.Expr(self.Right)
	return bui.Get()
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self JoinCond) Append(text []byte) []byte { return exprAppend(&self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self JoinCond) String() string { return exprString(&self) }

/*
One join criterion: connector, left column and condition. Renders as
`on "a"."id" = "b"."id"` or `and "a"."x" = "b"."y"`.
*/
type JoinCriterion struct {
	Conn Connector
	Left BasicCol
	Cond JoinCond
}

// Implement the `Expr` interface, making this a sub-expression.
func (self JoinCriterion) AppendExpr(text []byte, args []any) ([]byte, []any) {
	bui := Bui{text, args}
	bui.Str(self.Conn.String())
	bui.Expr(self.Left)
	bui.Set(self.Cond.AppendExpr(bui.Get()))
	return bui.Get()
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self JoinCriterion) Append(text []byte) []byte { return exprAppend(&self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self JoinCriterion) String() string { return exprString(&self) }

/*
Finished join criteria: the primary "on" criterion followed by the secondary
"and" criteria in call order. Produced by `(*JoinCollector).Spec` and `JoinOn`.
*/
type JoinSpec struct {
	On   JoinCriterion
	Ands []JoinCriterion
}

// Implement the `Expr` interface, making this a sub-expression.
func (self JoinSpec) AppendExpr(text []byte, args []any) ([]byte, []any) {
	bui := Bui{text, args}
	bui.Set(self.On.AppendExpr(bui.Get()))
	for _, val := range self.Ands {
		bui.Set(val.AppendExpr(bui.Get()))
	}
	return bui.Get()
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self JoinSpec) Append(text []byte) []byte { return exprAppend(&self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self JoinSpec) String() string { return exprString(&self) }

// Callback receiving a fresh join collector. See `JoinOn`.
type JoinReceiver = func(*JoinCollector)

/*
Makes a fresh `JoinCollector`, invokes the callback with it, and returns the
finished spec. Panics in the callback caused by this package, such as
`ErrDuplicateJoinOn` or `ErrBinderReused`, are returned as errors. Usage:

	spec, err := sqlcrit.JoinOn(func(col *sqlcrit.JoinCollector) {
		col.On(orders.UserId).EqualTo(users.Id)
		col.And(orders.Region).EqualTo(users.Region)
	})
*/
func JoinOn(fun JoinReceiver) (out JoinSpec, err error) {
	defer rec(&err)
	var col JoinCollector
	if fun != nil {
		fun(&col)
	}
	return col.Spec()
}

/*
Accumulates exactly one primary "on" criterion and any number of secondary
"and" criteria. The zero value is ready to use. Not safe for concurrent use.

The primary criterion can be set only once; a second attempt panics with
`ErrDuplicateJoinOn` and leaves the first one in place.
*/
type JoinCollector struct {
	on      *JoinCriterion
	ands    []JoinCriterion
	pending int
}

/*
Starts the primary criterion with the given left column. The criterion is set
when the returned binder is completed:

	col.On(orders.UserId).EqualTo(users.Id)
*/
func (self *JoinCollector) On(left BasicCol) *RightColBinder {
	return self.binder(func(cond JoinCond) {
		self.setOn(JoinCriterion{ConnOn, left, cond})
	})
}

// Starts a secondary criterion with the given left column. The criterion is
// appended when the returned binder is completed.
func (self *JoinCollector) And(left BasicCol) *RightColBinder {
	return self.binder(func(cond JoinCond) {
		self.addAnd(JoinCriterion{ConnAnd, left, cond})
	})
}

/*
Sets the primary criterion immediately.

Deprecated: use `(*JoinCollector).On` followed by a binder method.
*/
func (self *JoinCollector) OnCond(left BasicCol, cond JoinCond) *JoinCollector {
	self.setOn(JoinCriterion{ConnOn, left, cond})
	return self
}

/*
Appends a secondary criterion immediately.

Deprecated: use `(*JoinCollector).And` followed by a binder method.
*/
func (self *JoinCollector) AndCond(left BasicCol, cond JoinCond) *JoinCollector {
	self.addAnd(JoinCriterion{ConnAnd, left, cond})
	return self
}

// Returns the primary criterion, or `ErrJoinNotConfigured` if it's not set.
func (self *JoinCollector) OnCriterion() (JoinCriterion, error) {
	if self == nil || self.on == nil {
		return JoinCriterion{}, ErrJoinNotConfigured.while(`reading primary join criterion`)
	}
	return *self.on, nil
}

// Returns a copy of the secondary criteria, in call order.
func (self *JoinCollector) AndCriteria() []JoinCriterion {
	if self == nil || len(self.ands) == 0 {
		return nil
	}
	return append([]JoinCriterion(nil), self.ands...)
}

/*
Returns the finished spec. Fails with `ErrBinderPending` if a binder returned
by `.On` or `.And` was never completed, and with `ErrJoinNotConfigured` if the
primary criterion was never set.
*/
func (self *JoinCollector) Spec() (JoinSpec, error) {
	if self != nil && self.pending > 0 {
		return JoinSpec{}, ErrBinderPending.while(`finishing join`).because(
			fmt.Errorf(`%v right column binder(s) never completed`, self.pending),
		)
	}

	on, err := self.OnCriterion()
	if err != nil {
		return JoinSpec{}, err
	}
	return JoinSpec{On: on, Ands: self.AndCriteria()}, nil
}

func (self *JoinCollector) binder(fun func(JoinCond)) *RightColBinder {
	self.pending++
	return &RightColBinder{fun: func(cond JoinCond) {
		self.pending--
		fun(cond)
	}}
}

func (self *JoinCollector) setOn(val JoinCriterion) {
	if self.on != nil {
		panic(ErrDuplicateJoinOn.while(`setting primary join criterion`).because(
			fmt.Errorf(`already set to %q, attempted %q`, self.on.String(), val.String()),
		))
	}
	self.on = &val
}

func (self *JoinCollector) addAnd(val JoinCriterion) {
	self.ands = append(self.ands, val)
}

/*
Pending completion of a join criterion, returned by `(*JoinCollector).On` and
`(*JoinCollector).And`. Holds the left column and connector; completing it
with a right column stores the finished criterion in the owning collector.
Single use: a second completion panics with `ErrBinderReused`. The zero value
is invalid and panics with `ErrInternal`.
*/
type RightColBinder struct {
	fun  func(JoinCond)
	used bool
}

// Completes the binder with the right column and an operator factory such as
// `EqualTo`.
func (self *RightColBinder) Complete(right BasicCol, fun JoinCondFactory) {
	if self == nil || self.fun == nil {
		panic(ErrInternal.while(`completing join criterion`).because(
			fmt.Errorf(`right column binder was not created by a join collector`),
		))
	}
	if self.used {
		panic(ErrBinderReused.while(`completing join criterion`))
	}
	if fun == nil {
		panic(ErrInvalidInput.while(`completing join criterion`).because(
			fmt.Errorf(`nil operator factory`),
		))
	}
	if isNil(right) {
		panic(ErrInvalidInput.while(`completing join criterion`).because(
			fmt.Errorf(`nil right column`),
		))
	}

	self.used = true
	self.fun(fun(right))
}

// Shortcut for `.Complete(right, EqualTo)`.
func (self *RightColBinder) EqualTo(right BasicCol) { self.Complete(right, EqualTo) }

// Shortcut for `.Complete(right, NotEqualTo)`.
func (self *RightColBinder) NotEqualTo(right BasicCol) { self.Complete(right, NotEqualTo) }

// Shortcut for `.Complete(right, LessThan)`.
func (self *RightColBinder) LessThan(right BasicCol) { self.Complete(right, LessThan) }

// Shortcut for `.Complete(right, LessThanOrEqualTo)`.
func (self *RightColBinder) LessThanOrEqualTo(right BasicCol) {
	self.Complete(right, LessThanOrEqualTo)
}

// Shortcut for `.Complete(right, GreaterThan)`.
func (self *RightColBinder) GreaterThan(right BasicCol) { self.Complete(right, GreaterThan) }

// Shortcut for `.Complete(right, GreaterThanOrEqualTo)`.
func (self *RightColBinder) GreaterThanOrEqualTo(right BasicCol) {
	self.Complete(right, GreaterThanOrEqualTo)
}

// Join type keyword.
type JoinKind string

const (
	JoinInner JoinKind = `inner join`
	JoinLeft  JoinKind = `left join`
	JoinRight JoinKind = `right join`
	JoinFull  JoinKind = `full join`
)

// Implement `fmt.Stringer`. The zero value is plain "join".
func (self JoinKind) String() string {
	if self == `` {
		return `join`
	}
	return string(self)
}

/*
Complete join clause such as
`left join "orders" as "o" on "o"."user_id" = "u"."id"`.
*/
type Join struct {
	Kind  JoinKind
	Table Table
	Spec  JoinSpec
}

/*
Shortcut for making a `Join` from a collector callback. See `JoinOn` for the
error semantics.
*/
func JoinWith(kind JoinKind, table Table, fun JoinReceiver) (Join, error) {
	spec, err := JoinOn(fun)
	if err != nil {
		return Join{}, err
	}
	return Join{kind, table, spec}, nil
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Join) AppendExpr(text []byte, args []any) ([]byte, []any) {
	bui := Bui{text, args}
	bui.Str(self.Kind.String())
	bui.Set(self.Table.AppendExpr(bui.Get()))
	bui.Set(self.Spec.AppendExpr(bui.Get()))
	return bui.Get()
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Join) Append(text []byte) []byte { return exprAppend(&self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Join) String() string { return exprString(&self) }
