package sqlcrit

import "fmt"

/*
Starts a multi-row insert of the given records. Usage:

	stmt := sqlcrit.InsertBatch(records...).
		Into(users).
		Map(users.Id).ToProperty(`Id`).
		Map(users.Name).ToProperty(`name`).
		Map(users.Note).ToNull().
		Map(users.Kind).ToStringConstant(`basic`).
		Build()

Properties are looked up on struct records by Go field name or by `db` tag.
Embedded structs are traversed.
*/
func InsertBatch[T any](records ...T) IntoGatherer[T] {
	return IntoGatherer[T]{records}
}

// Intermediate step of `InsertBatch`, waiting for the target table.
type IntoGatherer[T any] struct{ records []T }

// Specifies the target table and returns the builder.
func (self IntoGatherer[T]) Into(table Table) *InsertBatchBuilder[T] {
	return &InsertBatchBuilder[T]{records: self.records, table: table}
}

/*
Accumulates column mappings of a multi-row insert in call order. Each mapping
is started by `.Map` and finished by one of the methods of the returned
`ColMappingFinisher`.
*/
type InsertBatchBuilder[T any] struct {
	records  []T
	table    Table
	mappings []InsertMapping
}

// Starts a mapping for the given column.
func (self *InsertBatchBuilder[T]) Map(col BasicCol) ColMappingFinisher[T] {
	return ColMappingFinisher[T]{self, col}
}

// Returns the finished statement. The builder can continue to be used.
func (self *InsertBatchBuilder[T]) Build() InsertBatchStmt {
	records := make([]any, len(self.records))
	for ind, val := range self.records {
		records[ind] = val
	}
	return InsertBatchStmt{
		Table:    self.table,
		Mappings: append([]InsertMapping(nil), self.mappings...),
		Records:  records,
	}
}

func (self *InsertBatchBuilder[T]) add(val InsertMapping) *InsertBatchBuilder[T] {
	self.mappings = append(self.mappings, val)
	return self
}

// Completes a column mapping started by `(*InsertBatchBuilder).Map`.
type ColMappingFinisher[T any] struct {
	builder *InsertBatchBuilder[T]
	col     BasicCol
}

// Maps the column to a record property, by Go field name or `db` tag.
func (self ColMappingFinisher[T]) ToProperty(name string) *InsertBatchBuilder[T] {
	return self.builder.add(InsertMapping{self.col, MappingProperty, name})
}

// Maps the column to `null`.
func (self ColMappingFinisher[T]) ToNull() *InsertBatchBuilder[T] {
	return self.builder.add(InsertMapping{self.col, MappingNull, ``})
}

// Maps the column to SQL text appended verbatim.
func (self ColMappingFinisher[T]) ToConstant(val string) *InsertBatchBuilder[T] {
	return self.builder.add(InsertMapping{self.col, MappingConstant, val})
}

// Maps the column to a quoted SQL string literal.
func (self ColMappingFinisher[T]) ToStringConstant(val string) *InsertBatchBuilder[T] {
	return self.builder.add(InsertMapping{self.col, MappingStringConstant, val})
}

// Kind of value source of an `InsertMapping`.
type MappingKind byte

const (
	MappingProperty MappingKind = iota
	MappingNull
	MappingConstant
	MappingStringConstant
)

// One column of a multi-row insert and where its values come from.
type InsertMapping struct {
	Col   BasicCol
	Kind  MappingKind
	Value string
}

/*
Finished multi-row insert. Renders as:

	insert into "users" ("id", "note") values ($1, null), ($2, null)

Panics with `ErrInvalidInput` when there are no records or no mappings, or
when a mapped column has no name, and with `ErrUnknownField` when a record
lacks a mapped property. Nil records produce `null` for every property.
*/
type InsertBatchStmt struct {
	Table    Table
	Mappings []InsertMapping
	Records  []any
}

// Implement the `Expr` interface, making this a sub-expression.
func (self InsertBatchStmt) AppendExpr(text []byte, args []any) ([]byte, []any) {
	if len(self.Mappings) == 0 || len(self.Records) == 0 {
		panic(ErrInvalidInput.while(`encoding batch insert`).because(fmt.Errorf(
			`batch insert into %q requires at least one mapping and one record, got %v and %v`,
			self.Table.Name, len(self.Mappings), len(self.Records),
		)))
	}

	bui := Bui{text, args}
	bui.Str(`insert into`)
	bui.Set(Table{Name: self.Table.Name}.AppendExpr(bui.Get()))

	bui.Str(`(`)
	for ind, val := range self.Mappings {
		if ind > 0 {
			bui.Str(`,`)
		}
		name := ``
		if val.Col != nil {
			name = val.Col.ColName()
		}
		if name == `` {
			panic(ErrInvalidInput.while(`encoding batch insert`).because(
				fmt.Errorf(`mapping %v has no column name`, ind),
			))
		}
		bui.Text = appendIdent(bui.Text, name)
	}
	bui.Str(`)`)

	bui.Str(`values`)
	for ind, rec := range self.Records {
		if ind > 0 {
			bui.Str(`,`)
		}
		self.appendRow(&bui, rec)
	}
	return bui.Get()
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self InsertBatchStmt) Append(text []byte) []byte { return exprAppend(&self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self InsertBatchStmt) String() string { return exprString(&self) }

func (self InsertBatchStmt) appendRow(bui *Bui, rec any) {
	bui.Str(`(`)
	for ind, val := range self.Mappings {
		if ind > 0 {
			bui.Str(`,`)
		}

		switch val.Kind {
		case MappingNull:
			bui.Str(`null`)

		case MappingConstant:
			bui.Str(val.Value)

		case MappingStringConstant:
			bui.Text = appendStringLiteral(bui.Text, val.Value)

		default:
			if isNil(rec) {
				bui.Str(`null`)
				continue
			}
			prop, ok := structProperty(rec, val.Value)
			if !ok {
				panic(ErrUnknownField.while(`encoding batch insert`).because(
					fmt.Errorf(`no property %q in %T`, val.Value, rec),
				))
			}
			bui.Any(prop)
		}
	}
	bui.Str(`)`)
}
