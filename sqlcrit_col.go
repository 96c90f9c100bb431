package sqlcrit

/*
Represents an SQL table reference, optionally aliased. Columns of an aliased
table are qualified by the alias. When used as an expression, renders
`"name"` or `"name" as "alias"`.
*/
type Table struct {
	Name  string
	Alias string
}

// Returns a copy with the given alias.
func (self Table) As(alias string) Table {
	self.Alias = alias
	return self
}

// Returns the qualifier used for the table's columns: the alias if any,
// otherwise the name.
func (self Table) Qual() string {
	if self.Alias != `` {
		return self.Alias
	}
	return self.Name
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Table) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return self.Append(text), args
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Table) Append(text []byte) []byte {
	if self.Name == `` {
		return text
	}
	text = appendIdent(text, self.Name)
	if self.Alias != `` {
		text = appendMaybeSpaced(text, `as`)
		text = appendIdent(text, self.Alias)
	}
	return text
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Table) String() string { return string(self.Append(nil)) }

// Shortcut for `Col[T]{table, name}`.
func ColOf[T any](table Table, name string) Col[T] {
	return Col[T]{table, name}
}

/*
Represents a column of a table, with values of type `T`. Renders as
`"table"."name"`, or `"alias"."name"` when the table is aliased, or just
`"name"` when the table is zero.
*/
type Col[T any] struct {
	Table Table
	Name  string
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Col[T]) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return self.Append(text), args
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Col[T]) Append(text []byte) []byte {
	return appendQualIdent(text, self.Table.Qual(), self.Name)
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Col[T]) String() string { return string(self.Append(nil)) }

// Implement `BasicCol`.
func (self Col[T]) ColName() string { return self.Name }

// Unquoted dotted name such as "users.id". Used by adapters.
func (self Col[T]) QualName() string { return qualName(self.Table.Qual(), self.Name) }

func (Col[T]) bindsTo(T) {}

// Shortcut for a derived column without a qualifier.
func Derived[T any](name string) DerivedCol[T] {
	return DerivedCol[T]{Name: name}
}

// Shortcut for a derived column with a table qualifier.
func DerivedIn[T any](name, qualifier string) DerivedCol[T] {
	return DerivedCol[T]{Name: name, Qualifier: qualifier}
}

/*
A column that is not directly related to a table. Primarily used for columns
of sub-queries. The qualifier, if any, is set directly instead of coming from
a `Table`.
*/
type DerivedCol[T any] struct {
	Name      string
	Qualifier string
	Alias     string
}

// Returns a copy with the given alias.
func (self DerivedCol[T]) As(alias string) DerivedCol[T] {
	self.Alias = alias
	return self
}

// Implement the `Expr` interface, making this a sub-expression.
func (self DerivedCol[T]) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return self.Append(text), args
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self DerivedCol[T]) Append(text []byte) []byte {
	return appendQualIdent(text, self.Qualifier, self.Name)
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self DerivedCol[T]) String() string { return string(self.Append(nil)) }

// Implement `BasicCol`.
func (self DerivedCol[T]) ColName() string { return self.Name }

// Unquoted dotted name such as "sub.total". Used by adapters.
func (self DerivedCol[T]) QualName() string { return qualName(self.Qualifier, self.Name) }

// Alias for select lists.
func (self DerivedCol[T]) ColAlias() string { return self.Alias }

func (DerivedCol[T]) bindsTo(T) {}

// Shortcut for `Constant[T]{Val: val}`.
func ConstantOf[T any](val string) Constant[T] {
	return Constant[T]{Val: val}
}

/*
Arbitrary SQL text used as a column, such as `1`, `now()` or `'literal'`.
Appended verbatim: must not come from user input.
*/
type Constant[T any] struct {
	Val   string
	Alias string
}

// Returns a copy with the given alias.
func (self Constant[T]) As(alias string) Constant[T] {
	self.Alias = alias
	return self
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Constant[T]) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return self.Append(text), args
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Constant[T]) Append(text []byte) []byte {
	return appendMaybeSpaced(text, self.Val)
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Constant[T]) String() string { return self.Val }

// Implement `BasicCol`. Constants have no column name.
func (self Constant[T]) ColName() string { return `` }

// Alias for select lists.
func (self Constant[T]) ColAlias() string { return self.Alias }

func (Constant[T]) bindsTo(T) {}

// Shortcut for `Avg[T]{Col: col}`.
func AvgOf[T any](col BindableCol[T]) Avg[T] {
	return Avg[T]{Col: col}
}

// Represents the aggregate `avg(<col>)`.
type Avg[T any] struct {
	Col   BindableCol[T]
	Alias string
}

// Returns a copy with the given alias.
func (self Avg[T]) As(alias string) Avg[T] {
	self.Alias = alias
	return self
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Avg[T]) AppendExpr(text []byte, args []any) ([]byte, []any) {
	bui := Bui{text, args}
	bui.Str(`avg(`)
	bui.Expr(self.Col)
	bui.Str(`)`)
	return bui.Get()
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Avg[T]) Append(text []byte) []byte { return exprAppend(&self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Avg[T]) String() string { return exprString(&self) }

// Implement `BasicCol`. Aggregates have no column name.
func (self Avg[T]) ColName() string { return `` }

// Alias for select lists.
func (self Avg[T]) ColAlias() string { return self.Alias }

func (Avg[T]) bindsTo(T) {}

/*
Shortcut for making `Multiply`. The first column determines the value type;
the others may be any column-like expressions.
*/
func MultiplyOf[T any](first BindableCol[T], second BasicCol, rest ...BasicCol) Multiply[T] {
	cols := make([]BasicCol, 0, len(rest)+2)
	cols = append(cols, first, second)
	cols = append(cols, rest...)
	return Multiply[T]{Cols: cols}
}

// Represents a parenthesized product such as `("a" * "b" * "c")`.
type Multiply[T any] struct {
	Cols  []BasicCol
	Alias string
}

// Returns a copy with the given alias.
func (self Multiply[T]) As(alias string) Multiply[T] {
	self.Alias = alias
	return self
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Multiply[T]) AppendExpr(text []byte, args []any) ([]byte, []any) {
	bui := Bui{text, args}
	bui.Str(`(`)
	for ind, col := range self.Cols {
		if ind > 0 {
			bui.Str(`*`)
		}
		bui.Expr(col)
	}
	bui.Str(`)`)
	return bui.Get()
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Multiply[T]) Append(text []byte) []byte { return exprAppend(&self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Multiply[T]) String() string { return exprString(&self) }

// Implement `BasicCol`. Computed columns have no column name.
func (self Multiply[T]) ColName() string { return `` }

// Alias for select lists.
func (self Multiply[T]) ColAlias() string { return self.Alias }

func (Multiply[T]) bindsTo(T) {}
