// Package critdef loads YAML definitions of select statements and replays them
// through the sqlcrit collectors.
package critdef

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/mitranim/sqlcrit"
)

// Def is the root of a definition file.
type Def struct {
	Tables map[string]TableDef `yaml:"tables"`
	Select SelectDef           `yaml:"select"`
}

// TableDef declares a table under a short key used by column references.
type TableDef struct {
	Name  string `yaml:"name"`
	Alias string `yaml:"alias"`
}

// SelectDef describes a select statement. Column references have the form
// "key.column", "column" or "avg(key.column)", optionally followed by
// " as alias".
type SelectDef struct {
	From    string    `yaml:"from"`
	Cols    []string  `yaml:"cols"`
	Joins   []JoinDef `yaml:"joins"`
	Where   []CritDef `yaml:"where"`
	GroupBy []string  `yaml:"group_by"`
	Having  []CritDef `yaml:"having"`
}

// JoinDef describes one join: the primary "on" condition and any secondary
// "and" conditions.
type JoinDef struct {
	Kind  string        `yaml:"kind"`
	Table string        `yaml:"table"`
	On    JoinCondDef   `yaml:"on"`
	And   []JoinCondDef `yaml:"and"`
}

// JoinCondDef is "left <op> right" between two columns.
type JoinCondDef struct {
	Left  string `yaml:"left"`
	Op    string `yaml:"op"`
	Right string `yaml:"right"`
}

// CritDef is one criterion. Exactly one of Col, Exists, NotExists must be set.
type CritDef struct {
	Conn      string    `yaml:"conn"`
	Col       string    `yaml:"col"`
	Op        string    `yaml:"op"`
	Value     any       `yaml:"value"`
	Values    []any     `yaml:"values"`
	Exists    *RawDef   `yaml:"exists"`
	NotExists *RawDef   `yaml:"not_exists"`
	Sub       []CritDef `yaml:"sub"`
}

// RawDef is an SQL fragment with ordinal parameters, used for sub-queries.
type RawDef struct {
	SQL  string `yaml:"sql"`
	Args []any  `yaml:"args"`
}

// Decode parses a definition, rejecting unknown fields.
func Decode(data []byte) (*Def, error) {
	var def Def
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&def); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if def.Select.From == "" {
		return nil, invalid(`select.from is required`)
	}
	return &def, nil
}

// Load reads and decodes a definition file.
func Load(fs afero.Fs, path string) (*Def, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	def, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Stats summarizes a built statement for the "check" command.
type Stats struct {
	Cols   int `json:"cols"`
	Joins  int `json:"joins"`
	Where  int `json:"where"`
	Having int `json:"having"`
}

// Stats counts top-level parts of the definition.
func (d *Def) Stats() Stats {
	return Stats{
		Cols:   len(d.Select.Cols),
		Joins:  len(d.Select.Joins),
		Where:  len(d.Select.Where),
		Having: len(d.Select.Having),
	}
}

/*
Build replays the definition through `sqlcrit.CriteriaCollector` and
`sqlcrit.JoinCollector` and returns the resulting statement. Invalid
references and operators are reported as `sqlcrit.ErrInvalidInput`.
*/
func (d *Def) Build() (out sqlcrit.Select, err error) {
	defer rec(&err)

	sel := d.Select
	out.From = d.table(sel.From)

	for _, ref := range sel.Cols {
		out.Cols = append(out.Cols, d.selectCol(ref))
	}

	for ind, join := range sel.Joins {
		val, err := d.join(join)
		if err != nil {
			return out, fmt.Errorf("join %d: %w", ind, err)
		}
		out.Joins = append(out.Joins, val)
	}

	out.Where = sqlcrit.Collect(func(col *sqlcrit.CriteriaCollector) { d.replay(col, sel.Where) })

	for _, ref := range sel.GroupBy {
		out.GroupBy = append(out.GroupBy, d.col(ref))
	}

	out.Having = sqlcrit.Collect(func(col *sqlcrit.CriteriaCollector) { d.replay(col, sel.Having) })
	return out, nil
}

func (d *Def) replay(col *sqlcrit.CriteriaCollector, defs []CritDef) {
	for _, def := range defs {
		test := d.test(def)

		var sub sqlcrit.CriteriaReceiver
		if len(def.Sub) > 0 {
			sub = func(col *sqlcrit.CriteriaCollector) { d.replay(col, def.Sub) }
		}

		switch def.Conn {
		case "", "and":
			if sub != nil {
				col.AndSub(test, sub)
			} else {
				col.And(test)
			}
		case "or":
			if sub != nil {
				col.OrSub(test, sub)
			} else {
				col.Or(test)
			}
		default:
			panic(invalid(fmt.Sprintf(`unknown connector %q`, def.Conn)))
		}
	}
}

func (d *Def) test(def CritDef) sqlcrit.Test {
	set := 0
	for _, ok := range []bool{def.Col != "", def.Exists != nil, def.NotExists != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		panic(invalid(`criterion must have exactly one of "col", "exists", "not_exists"`))
	}

	if def.Exists != nil {
		return sqlcrit.Exists(sqlcrit.RawQ(def.Exists.SQL, def.Exists.Args...))
	}
	if def.NotExists != nil {
		return sqlcrit.NotExists(sqlcrit.RawQ(def.NotExists.SQL, def.NotExists.Args...))
	}
	return sqlcrit.Is(d.col(def.Col), cond(def))
}

func cond(def CritDef) sqlcrit.Cond[any] {
	switch def.Op {
	case "eq", "=":
		return sqlcrit.IsEqualTo(def.Value)
	case "ne", "<>":
		return sqlcrit.IsNotEqualTo(def.Value)
	case "lt", "<":
		return sqlcrit.IsLessThan(def.Value)
	case "lte", "<=":
		return sqlcrit.IsLessThanOrEqualTo(def.Value)
	case "gt", ">":
		return sqlcrit.IsGreaterThan(def.Value)
	case "gte", ">=":
		return sqlcrit.IsGreaterThanOrEqualTo(def.Value)
	case "like":
		return sqlcrit.IsLike(def.Value)
	case "not_like":
		return sqlcrit.IsNotLike(def.Value)
	case "is_null":
		return sqlcrit.IsNull[any]()
	case "is_not_null":
		return sqlcrit.IsNotNull[any]()
	case "in":
		return sqlcrit.IsIn(def.Values...)
	case "not_in":
		return sqlcrit.IsNotIn(def.Values...)
	case "eq_present":
		return sqlcrit.IsEqualToWhenPresent(present(def.Value))
	case "ne_present":
		return sqlcrit.IsNotEqualToWhenPresent(present(def.Value))
	case "like_present":
		return sqlcrit.IsLikeWhenPresent(present(def.Value))
	case "not_like_present":
		return sqlcrit.IsNotLikeWhenPresent(present(def.Value))
	default:
		panic(invalid(fmt.Sprintf(`unknown operator %q`, def.Op)))
	}
}

func present(val any) *any {
	if val == nil {
		return nil
	}
	return &val
}

func (d *Def) join(def JoinDef) (sqlcrit.Join, error) {
	kind, err := joinKind(def.Kind)
	if err != nil {
		return sqlcrit.Join{}, err
	}

	return sqlcrit.JoinWith(kind, d.table(def.Table), func(col *sqlcrit.JoinCollector) {
		if def.On != (JoinCondDef{}) {
			col.On(d.col(def.On.Left)).Complete(d.col(def.On.Right), joinFactory(def.On.Op))
		}
		for _, val := range def.And {
			col.And(d.col(val.Left)).Complete(d.col(val.Right), joinFactory(val.Op))
		}
	})
}

func joinKind(val string) (sqlcrit.JoinKind, error) {
	switch val {
	case "":
		return "", nil
	case "inner":
		return sqlcrit.JoinInner, nil
	case "left":
		return sqlcrit.JoinLeft, nil
	case "right":
		return sqlcrit.JoinRight, nil
	case "full":
		return sqlcrit.JoinFull, nil
	default:
		return "", invalid(fmt.Sprintf(`unknown join kind %q`, val))
	}
}

func joinFactory(op string) sqlcrit.JoinCondFactory {
	switch op {
	case "", "eq", "=":
		return sqlcrit.EqualTo
	case "ne", "<>":
		return sqlcrit.NotEqualTo
	case "lt", "<":
		return sqlcrit.LessThan
	case "lte", "<=":
		return sqlcrit.LessThanOrEqualTo
	case "gt", ">":
		return sqlcrit.GreaterThan
	case "gte", ">=":
		return sqlcrit.GreaterThanOrEqualTo
	default:
		panic(invalid(fmt.Sprintf(`unknown join operator %q`, op)))
	}
}

func (d *Def) table(key string) sqlcrit.Table {
	def, ok := d.Tables[key]
	if !ok {
		panic(invalid(fmt.Sprintf(`unknown table %q`, key)))
	}
	if def.Name == "" {
		def.Name = key
	}
	return sqlcrit.Table{Name: def.Name, Alias: def.Alias}
}

func (d *Def) selectCol(ref string) sqlcrit.BasicCol {
	ref, alias, _ := strings.Cut(ref, " as ")
	col := d.col(strings.TrimSpace(ref))
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return col
	}

	switch col := col.(type) {
	case sqlcrit.Avg[any]:
		return col.As(alias)
	case sqlcrit.DerivedCol[any]:
		return col.As(alias)
	default:
		return sqlcrit.DerivedIn[any](col.ColName(), qualOf(col)).As(alias)
	}
}

func qualOf(col sqlcrit.BasicCol) string {
	val, ok := col.(sqlcrit.Col[any])
	if !ok {
		return ""
	}
	return val.Table.Qual()
}

func (d *Def) col(ref string) sqlcrit.BindableCol[any] {
	if inner, ok := strings.CutPrefix(ref, "avg("); ok {
		inner, ok = strings.CutSuffix(inner, ")")
		if !ok {
			panic(invalid(fmt.Sprintf(`malformed column reference %q`, ref)))
		}
		return sqlcrit.AvgOf(d.col(inner))
	}

	key, name, ok := strings.Cut(ref, ".")
	if !ok {
		if ref == "" {
			panic(invalid(`empty column reference`))
		}
		return sqlcrit.Derived[any](ref)
	}
	return sqlcrit.ColOf[any](d.table(key), name)
}

func invalid(msg string) sqlcrit.Err {
	return sqlcrit.Err{
		Code:  sqlcrit.ErrCodeInvalidInput,
		While: `building definition`,
		Cause: fmt.Errorf(`%s`, msg),
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
