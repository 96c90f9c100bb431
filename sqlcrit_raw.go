package sqlcrit

import (
	"fmt"

	"github.com/mitranim/sqlp"
)

/*
Arbitrary SQL text with ordinal parameters such as "$1" and the corresponding
arguments. When appended, the parameters are renumerated to follow the
arguments already present in the output, so the count in the source text always
starts at "$1". Arguments that implement `Expr` are rendered inline in place
of their parameter, combining their arguments with the outer ones.

Useful for sub-queries of `Exists` and for constant columns that need
arguments:

	sqlcrit.Exists(sqlcrit.RawQ(
		`select 1 from "orders" where "orders"."total" > $1`, 100,
	))

Panics when: the text has named parameters; a parameter doesn't have a
corresponding argument; an argument doesn't have a corresponding parameter.
*/
type Raw struct {
	Text string
	Args []any
}

// Shortcut for `Raw{text, args}`.
func RawQ(text string, args ...any) Raw { return Raw{text, args} }

// Implement the `Expr` interface, making this a sub-expression.
func (self Raw) AppendExpr(text []byte, args []any) ([]byte, []any) {
	if self.Text == `` {
		self.validateUsed(nil)
		return text, args
	}

	bui := Bui{text, args}
	bui.Space()

	tokenizer := sqlp.Tokenizer{Source: self.Text}
	used := make([]bool, len(self.Args))
	ords := make(map[int]sqlp.NodeOrdinalParam, len(self.Args))

	for {
		node := tokenizer.Next()
		if node == nil {
			break
		}

		switch node := node.(type) {
		case sqlp.NodeOrdinalParam:
			ind := node.Index()
			if ind < 0 || ind >= len(self.Args) {
				panic(ErrOrdinalOutOfBounds.while(`appending raw SQL`).because(
					fmt.Errorf(`ordinal parameter %v exceeds argument count %v`, node, len(self.Args)),
				))
			}
			used[ind] = true

			impl, _ := self.Args[ind].(Expr)
			if impl != nil {
				bui.Set(impl.AppendExpr(bui.Get()))
				continue
			}

			ord, ok := ords[ind]
			if !ok {
				bui.Args = append(bui.Args, self.Args[ind])
				ord = sqlp.NodeOrdinalParam(len(bui.Args))
				ords[ind] = ord
			}
			ord.Append(&bui.Text)

		case sqlp.NodeNamedParam:
			panic(ErrUnexpectedParameter.while(`appending raw SQL`).because(
				fmt.Errorf(`expected only ordinal params, got named param %q`, string(node)),
			))

		default:
			node.Append(&bui.Text)
		}
	}

	self.validateUsed(used)
	return bui.Get()
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Raw) Append(text []byte) []byte { return exprAppend(&self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Raw) String() string { return exprString(&self) }

func (self Raw) validateUsed(used []bool) {
	for ind, arg := range self.Args {
		if ind >= len(used) || !used[ind] {
			panic(ErrUnusedArgument.while(`appending raw SQL`).because(
				fmt.Errorf(`unused argument %#v at index %v`, arg, ind),
			))
		}
	}
}
