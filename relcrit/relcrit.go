/*
Converts criteria and join specs built by "sqlcrit" into go-rel queries, for
use with `rel.Repository`:

	filter, err := relcrit.Filter(crit)
	if err != nil {
		return err
	}
	err = repo.FindAll(ctx, &users, filter)

Simple comparisons on table columns map to the corresponding `where` filters.
Everything else, such as existential predicates and computed columns, becomes a
`where.Fragment` with "?" placeholders.
*/
package relcrit

import (
	"fmt"
	"strings"

	"github.com/go-rel/rel"
	"github.com/go-rel/rel/where"
	"github.com/mitranim/sqlcrit"
	"github.com/mitranim/sqlp"
)

/*
Converts criteria into a single filter. The connector "and" binds tighter than
"or", matching the SQL rendered by `sqlcrit.Criteria`. Criteria that render
nothing are skipped. When nothing remains, returns the zero `rel.FilterQuery`,
which go-rel treats as "no filter".
*/
func Filter(vals sqlcrit.Criteria) (out rel.FilterQuery, err error) {
	defer rec(&err)
	out, _ = filterCriteria(vals)
	return
}

/*
Converts a join spec into a join query. When the primary criterion is an
equality between two table columns, it becomes the `From` / `To` pair of the
join; otherwise the whole join is encoded as a fragment. Secondary criteria
become the join filter.
*/
func Join(kind sqlcrit.JoinKind, table sqlcrit.Table, spec sqlcrit.JoinSpec) (out rel.JoinQuery, err error) {
	defer rec(&err)

	from, fromOk := fieldName(spec.On.Left)
	to, toOk := fieldName(spec.On.Cond.Right)

	if !fromOk || !toOk || spec.On.Cond.Operator != sqlcrit.OpEq {
		text, args := reify(sqlcrit.Join{Kind: kind, Table: table, Spec: spec})
		return rel.JoinQuery{Mode: text, Arguments: args}, nil
	}

	out = rel.JoinQuery{
		Mode:  joinMode(kind),
		Table: tableName(table),
		From:  from,
		To:    to,
	}

	var filters []rel.FilterQuery
	for _, val := range spec.Ands {
		val.Conn = sqlcrit.ConnNone
		filters = append(filters, fragment(val))
	}
	out.Filter = combine([][]rel.FilterQuery{filters})
	return out, nil
}

func joinMode(kind sqlcrit.JoinKind) string {
	return strings.ToUpper(kind.String())
}

func tableName(table sqlcrit.Table) string {
	if table.Alias == `` {
		return table.Name
	}
	return table.Name + ` as ` + table.Alias
}

func filterCriteria(vals sqlcrit.Criteria) (rel.FilterQuery, bool) {
	var groups [][]rel.FilterQuery
	var group []rel.FilterQuery

	for _, val := range vals {
		if val == nil {
			continue
		}

		out, ok := filterCriterion(val)
		if !ok {
			continue
		}

		if len(group) > 0 && val.Connector() == sqlcrit.ConnOr {
			groups = append(groups, group)
			group = nil
		}
		group = append(group, out)
	}

	if len(group) == 0 {
		return rel.FilterQuery{}, false
	}
	return combine(append(groups, group)), true
}

/*
A criterion with sub-criteria is equivalent to the list of its own test
followed by the sub-criteria, rendered in parens.
*/
func filterCriterion(val sqlcrit.Criterion) (rel.FilterQuery, bool) {
	subs := val.SubCriteria()
	if len(subs) == 0 {
		if val.IsEmpty() {
			return rel.FilterQuery{}, false
		}
		return filterTest(val), true
	}
	return filterCriteria(append(sqlcrit.Criteria{testOnly{val}}, subs...))
}

// Hides sub-criteria of the inner criterion.
type testOnly struct{ sqlcrit.Criterion }

func (testOnly) SubCriteria() sqlcrit.Criteria { return nil }

func filterTest(val sqlcrit.Criterion) rel.FilterQuery {
	inner := val
	if impl, ok := val.(testOnly); ok {
		inner = impl.Criterion
	}

	impl, ok := inner.(sqlcrit.ColCriterion)
	if ok {
		out, ok := filterCol(impl)
		if ok {
			return out
		}
	}

	return fragment(testExpr{inner})
}

func filterCol(val sqlcrit.ColCriterion) (rel.FilterQuery, bool) {
	field, ok := fieldName(val.Col)
	if !ok {
		return rel.FilterQuery{}, false
	}

	vals := val.Cond.Values()
	for _, val := range vals {
		if _, ok := val.(sqlcrit.Expr); ok {
			return rel.FilterQuery{}, false
		}
	}

	switch val.Cond.Op() {
	case sqlcrit.OpEq:
		return where.Eq(field, vals[0]), true
	case sqlcrit.OpNe:
		return where.Ne(field, vals[0]), true
	case sqlcrit.OpLt:
		return where.Lt(field, vals[0]), true
	case sqlcrit.OpLte:
		return where.Lte(field, vals[0]), true
	case sqlcrit.OpGt:
		return where.Gt(field, vals[0]), true
	case sqlcrit.OpGte:
		return where.Gte(field, vals[0]), true
	case sqlcrit.OpIsNull:
		return where.Nil(field), true
	case sqlcrit.OpIsNotNull:
		return where.NotNil(field), true
	case sqlcrit.OpIn:
		if len(vals) == 0 {
			return rel.FilterQuery{}, false
		}
		return where.In(field, vals...), true
	case sqlcrit.OpNotIn:
		if len(vals) == 0 {
			return rel.FilterQuery{}, false
		}
		return where.Nin(field, vals...), true
	case sqlcrit.OpLike:
		str, ok := vals[0].(string)
		if ok {
			return where.Like(field, str), true
		}
	case sqlcrit.OpNotLike:
		str, ok := vals[0].(string)
		if ok {
			return where.NotLike(field, str), true
		}
	}
	return rel.FilterQuery{}, false
}

// Renders only the test of a criterion, without the connector or sub-criteria.
type testExpr struct{ sqlcrit.Criterion }

func (self testExpr) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return self.AppendTest(text, args)
}

func fieldName(val sqlcrit.BasicCol) (string, bool) {
	impl, ok := val.(interface{ QualName() string })
	if !ok {
		return ``, false
	}
	return impl.QualName(), true
}

func combine(groups [][]rel.FilterQuery) rel.FilterQuery {
	ors := make([]rel.FilterQuery, 0, len(groups))
	for _, group := range groups {
		switch len(group) {
		case 0:
		case 1:
			ors = append(ors, group[0])
		default:
			ors = append(ors, rel.And(group...))
		}
	}

	switch len(ors) {
	case 0:
		return rel.FilterQuery{}
	case 1:
		return ors[0]
	default:
		return rel.Or(ors...)
	}
}

func fragment(val sqlcrit.Expr) rel.FilterQuery {
	text, args := reify(val)
	return where.Fragment(text, args...)
}

/*
Renders the expression and rewrites ordinal parameters such as "$1" into
positional "?" placeholders expected by go-rel, repeating arguments of
parameters that occur more than once.
*/
func reify(val sqlcrit.Expr) (string, []any) {
	text, args, err := sqlcrit.ReifyErr(val)
	try(err)

	tokenizer := sqlp.Tokenizer{Source: text}
	var buf []byte
	var out []any

	for {
		node := tokenizer.Next()
		if node == nil {
			break
		}

		switch node := node.(type) {
		case sqlp.NodeOrdinalParam:
			ind := node.Index()
			if ind < 0 || ind >= len(args) {
				panic(sqlcrit.Err{
					Code:  sqlcrit.ErrCodeOrdinalOutOfBounds,
					While: `converting parameters for go-rel`,
					Cause: fmt.Errorf(`ordinal parameter %v exceeds argument count %v`, node, len(args)),
				})
			}
			buf = append(buf, '?')
			out = append(out, args[ind])
		default:
			node.Append(&buf)
		}
	}
	return string(buf), out
}

func try(err error) {
	if err != nil {
		panic(err)
	}
}

// Must be deferred.
func rec(ptr *error) {
	val := recover()
	if val == nil {
		return
	}

	err, _ := val.(error)
	if err != nil {
		*ptr = err
		return
	}

	panic(val)
}
