package sqlcrit

import "testing"

var usersNotePtr = ColOf[*string](tabUsers, `note`)

func Test_Present_Filter(t *testing.T) {
	nonEmpty := func(val string) bool { return val != `` }

	eq(
		t,
		Present[string]{OpEq, `one`, true},
		IsEqualToWhenPresent(strPtr(`one`)).Filter(nonEmpty),
	)

	eq(
		t,
		Present[string]{Operator: OpEq},
		IsEqualToWhenPresent(strPtr(``)).Filter(nonEmpty),
	)

	eq(
		t,
		Present[string]{Operator: OpLike},
		IsLikeWhenPresent(strPtr(`one`)).Filter(nil),
	)

	eq(
		t,
		Present[string]{Operator: OpEq},
		IsEqualToWhenPresent[string](nil).Filter(func(string) bool {
			panic(`unreachable`)
		}),
	)
}

func Test_MapPresent(t *testing.T) {
	eq(
		t,
		Present[string]{OpLike, `one%`, true},
		MapPresent(IsLikeWhenPresent(strPtr(`one`)), func(val string) string { return val + `%` }),
	)

	eq(
		t,
		Present[int]{Operator: OpEq},
		MapPresent(IsEqualToWhenPresent[string](nil), func(string) int {
			panic(`unreachable`)
		}),
	)

	out := MapPresent(IsEqualToWhenPresent(strPtr(`one`)), func(string) *string { return nil })
	eq(t, Present[*string]{Operator: OpEq}, out)
	eq(t, true, out.IsEmpty())
	eq(t, 0, len(out.Values()))

	testExpr(t, rei(``), Collect(func(col *CriteriaCollector) {
		col.And(Is(usersNotePtr, out))
	}))

	testExpr(t, rei(`where "users"."id" = $1`, 10), Where(Collect(func(col *CriteriaCollector) {
		col.And(Is(usersNotePtr, out))
		col.And(Is(usersId, IsEqualTo(10)))
	})))
}

func Test_Present_rendering(t *testing.T) {
	testExpr(
		t,
		rei(`"users"."name" not like $1`, `a%`),
		Collect(func(col *CriteriaCollector) {
			col.And(Is(usersName, IsNotLikeWhenPresent(strPtr(`a%`))))
		}),
	)

	var missing *string
	eq(t, true, IsEqualToWhenPresent(&missing).IsEmpty())

	testExpr(
		t,
		rei(`"users"."note" = $1`, strPtr(`x`)),
		Collect(func(col *CriteriaCollector) {
			col.And(Is(usersNotePtr, IsEqualToWhenPresent(&missing)))
			col.Or(Is(usersNotePtr, MapPresent(IsEqualToWhenPresent(strPtr(`x`)), strPtr)))
		}),
	)
}
