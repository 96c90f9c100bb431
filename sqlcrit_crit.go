package sqlcrit

import "strings"

// Logical connector recorded alongside each criterion or join criterion.
type Connector string

const (
	ConnNone Connector = ``
	ConnAnd  Connector = `and`
	ConnOr   Connector = `or`
	ConnOn   Connector = `on`
)

// Implement `fmt.Stringer`.
func (self Connector) String() string { return string(self) }

/*
Immutable description of one filter test together with its connector and
optional nested sub-criteria. Implemented by `ColCriterion` and
`ExistsCriterion`, normally built by `CriteriaCollector`.
*/
type Criterion interface {
	Expr
	Connector() Connector
	SubCriteria() Criteria

	// Appends the test itself, without the connector and sub-criteria.
	AppendTest([]byte, []any) ([]byte, []any)

	// True if the test itself renders nothing.
	IsEmpty() bool
}

/*
Column test: column, condition, connector and sub-criteria. Renders as
`"table"."col" = $1`, or with sub-criteria as
`("table"."col" = $1 and "table"."other" = $2)`.
*/
type ColCriterion struct {
	Conn Connector
	Col  BasicCol
	Cond Condition
	Subs Criteria
}

// Implement `Criterion`.
func (self ColCriterion) Connector() Connector { return self.Conn }

// Implement `Criterion`.
func (self ColCriterion) SubCriteria() Criteria { return self.Subs }

// Implement `Criterion`.
func (self ColCriterion) AppendTest(text []byte, args []any) ([]byte, []any) {
	if self.IsEmpty() {
		return text, args
	}
	bui := Bui{text, args}
	bui.Expr(self.Col)
	bui.Set(self.Cond.AppendCond(bui.Get()))
	return bui.Get()
}

// Implement `Criterion`.
func (self ColCriterion) IsEmpty() bool {
	return self.Cond == nil || self.Cond.IsEmpty()
}

// Implement the `Expr` interface, making this a sub-expression. The connector
// is omitted.
func (self ColCriterion) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return Criteria{self}.AppendExpr(text, args)
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self ColCriterion) Append(text []byte) []byte { return exprAppend(&self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self ColCriterion) String() string { return exprString(&self) }

/*
Existential test: `exists (...)` or `not exists (...)` with connector and
sub-criteria.
*/
type ExistsCriterion struct {
	Conn Connector
	Pred ExistsPred
	Subs Criteria
}

// Implement `Criterion`.
func (self ExistsCriterion) Connector() Connector { return self.Conn }

// Implement `Criterion`.
func (self ExistsCriterion) SubCriteria() Criteria { return self.Subs }

// Implement `Criterion`.
func (self ExistsCriterion) AppendTest(text []byte, args []any) ([]byte, []any) {
	return self.Pred.AppendExpr(text, args)
}

// Implement `Criterion`.
func (self ExistsCriterion) IsEmpty() bool { return self.Pred.IsEmpty() }

// Implement the `Expr` interface, making this a sub-expression. The connector
// is omitted.
func (self ExistsCriterion) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return Criteria{self}.AppendExpr(text, args)
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self ExistsCriterion) Append(text []byte) []byte { return exprAppend(&self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self ExistsCriterion) String() string { return exprString(&self) }

// Shortcut for `ExistsPred{Sub: sub}`.
func Exists(sub Expr) ExistsPred { return ExistsPred{Sub: sub} }

// Shortcut for `ExistsPred{Not: true, Sub: sub}`.
func NotExists(sub Expr) ExistsPred { return ExistsPred{Not: true, Sub: sub} }

/*
Existential predicate over a sub-query: `exists (<sub>)`. A nil sub-query or a
blank `Raw` without args renders nothing. Usable as a `Test`.
*/
type ExistsPred struct {
	Not bool
	Sub Expr
}

// Implement the `Expr` interface, making this a sub-expression.
func (self ExistsPred) AppendExpr(text []byte, args []any) ([]byte, []any) {
	if self.IsEmpty() {
		return text, args
	}

	bui := Bui{text, args}
	if self.Not {
		bui.Str(`not`)
	}
	bui.Str(`exists`)
	bui.SubExpr(self.Sub)
	return bui.Get()
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self ExistsPred) Append(text []byte) []byte { return exprAppend(&self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self ExistsPred) String() string { return exprString(&self) }

// True if there is no sub-query to test.
func (self ExistsPred) IsEmpty() bool {
	if isNil(self.Sub) {
		return true
	}
	raw, ok := self.Sub.(Raw)
	return ok && len(raw.Args) == 0 && strings.TrimSpace(raw.Text) == ``
}

func (self ExistsPred) criterion(conn Connector, subs Criteria) Criterion {
	return ExistsCriterion{Conn: conn, Pred: self, Subs: subs}
}

/*
Input to `CriteriaCollector` methods: either a column test made by `Is`, or an
existential predicate made by `Exists` / `NotExists`.
*/
type Test interface {
	criterion(Connector, Criteria) Criterion
}

/*
Pairs a column with a condition on values of the same type. Mismatched types
don't compile:

	sqlcrit.Is(users.Id, sqlcrit.IsEqualTo(10))      // ok for Col[int]
	sqlcrit.Is(users.Id, sqlcrit.IsEqualTo(`text`))  // compile error
*/
func Is[T any](col BindableCol[T], cond Cond[T]) ColTest {
	return ColTest{Col: col, Cond: cond}
}

// Column and condition pair. See `Is`.
type ColTest struct {
	Col  BasicCol
	Cond Condition
}

func (self ColTest) criterion(conn Connector, subs Criteria) Criterion {
	return ColCriterion{Conn: conn, Col: self.Col, Cond: self.Cond, Subs: subs}
}

/*
Ordered sequence of criteria. When rendered, the first criterion that renders
anything omits its connector, and every later one is preceded by its
connector. A criterion with sub-criteria is parenthesized together with them.
Criteria with an empty test and no rendered sub-criteria are skipped.

Connectors are rendered verbatim, so SQL precedence applies: `and` binds
tighter than `or`.
*/
type Criteria []Criterion

// Implement the `Expr` interface, making this a sub-expression.
func (self Criteria) AppendExpr(text []byte, args []any) ([]byte, []any) {
	bui := Bui{text, args}
	self.appendTo(&bui, true)
	return bui.Get()
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Criteria) Append(text []byte) []byte { return exprAppend(&self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Criteria) String() string { return exprString(&self) }

func (self Criteria) appendTo(bui *Bui, lead bool) (wrote bool) {
	for _, val := range self {
		if val != nil && appendCriterion(bui, val, lead && !wrote) {
			wrote = true
		}
	}
	return
}

func appendCriterion(bui *Bui, val Criterion, lead bool) bool {
	start := bui.Mark()
	if !lead {
		bui.Str(val.Connector().String())
	}

	body := bui.Mark()
	subs := val.SubCriteria()

	if len(subs) > 0 {
		bui.Str(`(`)
		test := !val.IsEmpty()
		if test {
			bui.Set(val.AppendTest(bui.Get()))
		}
		if subs.appendTo(bui, !test) {
			bui.Str(`)`)
			return true
		}
		bui.Reset(body)
	}

	if val.IsEmpty() {
		bui.Reset(start)
		return false
	}

	bui.Set(val.AppendTest(bui.Get()))
	return true
}

/*
Prepends the keyword "where" to the criteria. If the criteria render nothing,
this is a nop.
*/
type Where Criteria

// Implement the `Expr` interface, making this a sub-expression.
func (self Where) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return appendKeywordCriteria(text, args, `where`, Criteria(self))
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Where) Append(text []byte) []byte { return exprAppend(&self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Where) String() string { return exprString(&self) }

/*
Prepends the keyword "having" to the criteria. If the criteria render nothing,
this is a nop.
*/
type Having Criteria

// Implement the `Expr` interface, making this a sub-expression.
func (self Having) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return appendKeywordCriteria(text, args, `having`, Criteria(self))
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Having) Append(text []byte) []byte { return exprAppend(&self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Having) String() string { return exprString(&self) }

func appendKeywordCriteria(text []byte, args []any, keyword string, vals Criteria) ([]byte, []any) {
	bui := Bui{text, args}
	start := bui.Mark()
	bui.Str(keyword)
	if !vals.appendTo(&bui, true) {
		bui.Reset(start)
	}
	return bui.Get()
}
