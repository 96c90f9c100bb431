package sqlcrit

// Implemented by column-like expressions that may carry a select-list alias.
type ColAliaser interface {
	ColAlias() string
}

/*
Select-list entry: renders the column followed by `as "alias"` when the column
implements `ColAliaser` and its alias is non-empty.
*/
type SelectCol [1]BasicCol

// Implement the `Expr` interface, making this a sub-expression.
func (self SelectCol) AppendExpr(text []byte, args []any) ([]byte, []any) {
	bui := Bui{text, args}
	bui.Expr(self[0])

	impl, _ := self[0].(ColAliaser)
	if impl != nil {
		alias := impl.ColAlias()
		if alias != `` {
			bui.Str(`as`)
			bui.Text = appendIdent(bui.Text, alias)
		}
	}
	return bui.Get()
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self SelectCol) Append(text []byte) []byte { return exprAppend(&self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self SelectCol) String() string { return exprString(&self) }

/*
Minimal "select" statement composed of the values built by the collectors.
Renders as:

	select "u"."id", avg("o"."total") as "avg_total"
	from "users" as "u"
	left join "orders" as "o" on "o"."user_id" = "u"."id"
	where "u"."active" = $1
	group by "u"."id"
	having avg("o"."total") > $2

without the newlines. Empty `Cols` select `*`. Empty `Where`, `GroupBy` and
`Having` render nothing.
*/
type Select struct {
	Cols    []BasicCol
	From    Table
	Joins   []Join
	Where   Criteria
	GroupBy []BasicCol
	Having  Criteria
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Select) AppendExpr(text []byte, args []any) ([]byte, []any) {
	bui := Bui{text, args}
	bui.Str(`select`)

	if len(self.Cols) == 0 {
		bui.Str(`*`)
	} else {
		for ind, col := range self.Cols {
			if ind > 0 {
				bui.Str(`,`)
			}
			bui.Set(SelectCol{col}.AppendExpr(bui.Get()))
		}
	}

	if self.From.Name != `` {
		bui.Str(`from`)
		bui.Set(self.From.AppendExpr(bui.Get()))
	}

	for _, val := range self.Joins {
		bui.Set(val.AppendExpr(bui.Get()))
	}

	bui.Set(Where(self.Where).AppendExpr(bui.Get()))

	if len(self.GroupBy) > 0 {
		bui.Str(`group by`)
		for ind, col := range self.GroupBy {
			if ind > 0 {
				bui.Str(`,`)
			}
			bui.Expr(col)
		}
	}

	bui.Set(Having(self.Having).AppendExpr(bui.Get()))
	return bui.Get()
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Select) Append(text []byte) []byte { return exprAppend(&self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Select) String() string { return exprString(&self) }
