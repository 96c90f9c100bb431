/*
SQL criteria: fluent collectors for building SQL filter criteria and join
criteria in plain Go, rendered into text with Postgres-style ordinal
parameters such as "$1".

Key Features

• Columns carry the Go type of their values. `Is(col, cond)` accepts only a
condition of the same type, so mismatches don't compile.

• `CriteriaCollector` accumulates "and" / "or" criteria in call order, with
nested sub-criteria built by callbacks.

• `JoinCollector` accumulates exactly one "on" criterion and any number of
"and" criteria, via the two-step `col.On(left).EqualTo(right)` form.

• Collectors only build values. Rendering is done by `Where`, `Having`,
`JoinSpec`, `Join`, `Select` and `InsertBatchStmt`, all of which implement
`Expr` and compose with each other.

• Conditions such as `IsLikeWhenPresent` become empty when their value is
missing, and empty criteria are skipped when rendering.

• Arbitrary SQL can be embedded via `Raw`, with its parameters renumerated.

Examples

See `Collect`, `JoinOn` and `InsertBatch` for examples. The subpackage
"relcrit" converts criteria into go-rel queries.
*/
package sqlcrit
