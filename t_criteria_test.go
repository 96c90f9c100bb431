package sqlcrit

import "testing"

func Test_CriteriaCollector_order(t *testing.T) {
	crit := Collect(func(col *CriteriaCollector) {
		col.And(Is(usersId, IsEqualTo(1))).
			Or(Is(usersAge, IsEqualTo(2)))
	})

	eq(
		t,
		Criteria{
			ColCriterion{Conn: ConnAnd, Col: usersId, Cond: Compare[int]{OpEq, 1}},
			ColCriterion{Conn: ConnOr, Col: usersAge, Cond: Compare[int]{OpEq, 2}},
		},
		crit,
	)

	testExpr(t, rei(`"users"."id" = $1 or "users"."age" = $2`, 1, 2), crit)
}

func Test_CriteriaCollector_nested(t *testing.T) {
	var child Criteria

	crit := Collect(func(col *CriteriaCollector) {
		col.AndSub(Is(usersId, IsEqualTo(1)), func(col *CriteriaCollector) {
			col.And(Is(usersAge, IsEqualTo(3)))
			child = col.Criteria()
		})
	})

	eq(t, 1, len(crit))
	eq(t, ConnAnd, crit[0].Connector())
	eq(t, child, crit[0].SubCriteria())
	eq(
		t,
		Criteria{ColCriterion{Conn: ConnAnd, Col: usersAge, Cond: Compare[int]{OpEq, 3}}},
		crit[0].SubCriteria(),
	)

	testExpr(t, rei(`("users"."id" = $1 and "users"."age" = $2)`, 1, 3), crit)
}

func Test_CriteriaCollector_deeply_nested(t *testing.T) {
	crit := Collect(func(col *CriteriaCollector) {
		col.And(Is(usersName, IsEqualTo(`one`)))
		col.OrSub(Is(usersId, IsGreaterThan(10)), func(col *CriteriaCollector) {
			col.AndSub(Is(usersAge, IsLessThan(20)), func(col *CriteriaCollector) {
				col.Or(Is(usersAge, IsNull[int]()))
			})
		})
	})

	testExpr(
		t,
		rei(
			`"users"."name" = $1 or ("users"."id" > $2 and ("users"."age" < $3 or "users"."age" is null))`,
			`one`, 10, 20,
		),
		crit,
	)
}

func Test_CriteriaCollector_exists(t *testing.T) {
	sub := RawQ(`select 1 from "orders" where "orders"."total" > $1`, 100)

	crit := Collect(func(col *CriteriaCollector) {
		col.And(Exists(sub))
		col.Or(NotExists(sub))
		col.And(Is(usersId, IsEqualTo(1)))
	})

	eq(t, ExistsCriterion{Conn: ConnAnd, Pred: ExistsPred{Sub: sub}}, crit[0])
	eq(t, ExistsCriterion{Conn: ConnOr, Pred: ExistsPred{Not: true, Sub: sub}}, crit[1])

	testExpr(
		t,
		rei(
			`exists (select 1 from "orders" where "orders"."total" > $1) or not exists (select 1 from "orders" where "orders"."total" > $2) and "users"."id" = $3`,
			100, 100, 1,
		),
		crit,
	)
}

func Test_CriteriaCollector_exists_nested(t *testing.T) {
	crit := Collect(func(col *CriteriaCollector) {
		col.AndSub(Exists(RawQ(`select 1`)), func(col *CriteriaCollector) {
			col.Or(Is(usersId, IsEqualTo(1)))
		})
	})

	testExpr(t, rei(`(exists (select 1) or "users"."id" = $1)`, 1), crit)
}

func Test_CriteriaCollector_Criteria_copy(t *testing.T) {
	var col CriteriaCollector
	eq(t, Criteria(nil), col.Criteria())
	eq(t, 0, col.Len())

	col.And(Is(usersId, IsEqualTo(1)))
	out := col.Criteria()
	out[0] = nil

	eq(t, 1, col.Len())
	eq(t, ColCriterion{Conn: ConnAnd, Col: usersId, Cond: Compare[int]{OpEq, 1}}, col.Criteria()[0])
}

func Test_CriteriaCollector_nil_test(t *testing.T) {
	panics(t, `nil test for connector "and"`, func() {
		new(CriteriaCollector).And(nil)
	})
	panics(t, `InvalidInput`, func() {
		new(CriteriaCollector).OrSub(nil, nil)
	})
}

func Test_Collect_nil(t *testing.T) {
	eq(t, Criteria(nil), Collect(nil))
	eq(t, Criteria(nil), Collect(func(*CriteriaCollector) {}))
}

func Test_Criteria_empty_conditions(t *testing.T) {
	t.Run(`skip leading`, func(t *testing.T) {
		crit := Collect(func(col *CriteriaCollector) {
			col.And(Is(usersName, IsLikeWhenPresent[string](nil)))
			col.Or(Is(usersId, IsEqualTo(1)))
		})
		testExpr(t, rei(`"users"."id" = $1`, 1), crit)
	})

	t.Run(`skip trailing`, func(t *testing.T) {
		crit := Collect(func(col *CriteriaCollector) {
			col.And(Is(usersId, IsEqualTo(1)))
			col.And(Is(usersName, IsEqualToWhenPresent[string](nil)))
		})
		testExpr(t, rei(`"users"."id" = $1`, 1), crit)
	})

	t.Run(`all empty`, func(t *testing.T) {
		crit := Collect(func(col *CriteriaCollector) {
			col.And(Is(usersName, IsLikeWhenPresent[string](nil)))
			col.And(Exists(nil))
		})
		testExpr(t, rei(``), crit)
		testExpr(t, rei(``), Where(crit))
		testExpr(t, rei(``), Having(crit))
	})

	t.Run(`empty test with rendered subs`, func(t *testing.T) {
		crit := Collect(func(col *CriteriaCollector) {
			col.And(Is(usersAge, IsEqualTo(3)))
			col.AndSub(Is(usersName, IsLikeWhenPresent[string](nil)), func(col *CriteriaCollector) {
				col.And(Is(usersId, IsEqualTo(1)))
				col.Or(Is(usersId, IsEqualTo(2)))
			})
		})
		testExpr(t, rei(`"users"."age" = $1 and ("users"."id" = $2 or "users"."id" = $3)`, 3, 1, 2), crit)
	})

	t.Run(`test with empty subs`, func(t *testing.T) {
		crit := Collect(func(col *CriteriaCollector) {
			col.And(Is(usersAge, IsEqualTo(3)))
			col.AndSub(Is(usersId, IsEqualTo(1)), func(col *CriteriaCollector) {
				col.And(Is(usersName, IsLikeWhenPresent[string](nil)))
			})
		})
		testExpr(t, rei(`"users"."age" = $1 and "users"."id" = $2`, 3, 1), crit)
	})

	t.Run(`empty test with empty subs`, func(t *testing.T) {
		crit := Collect(func(col *CriteriaCollector) {
			col.AndSub(Is(usersName, IsLikeWhenPresent[string](nil)), func(col *CriteriaCollector) {
				col.And(Is(usersName, IsNotLikeWhenPresent[string](nil)))
			})
			col.Or(Is(usersId, IsEqualTo(1)))
		})
		testExpr(t, rei(`"users"."id" = $1`, 1), crit)
	})
}

func Test_Where(t *testing.T) {
	testExpr(t, rei(``), Where(nil))
	testExpr(t, rei(``), Where{nil})

	crit := Collect(func(col *CriteriaCollector) {
		col.And(Is(usersId, IsIn(1, 2, 3)))
		col.And(Is(usersName, IsNotNull[string]()))
	})

	testExpr(t, rei(`where "users"."id" in ($1, $2, $3) and "users"."name" is not null`, 1, 2, 3), Where(crit))
	testExprs(
		t,
		rei(`select * from "users" where "users"."id" in ($1, $2, $3) and "users"."name" is not null`, 1, 2, 3),
		RawQ(`select * from "users"`), Where(crit),
	)
}

func Test_Having(t *testing.T) {
	crit := Collect(func(col *CriteriaCollector) {
		col.And(Is(AvgOf(ordersTotal), IsGreaterThan(10.5)))
	})
	testExpr(t, rei(`having avg("o"."total") > $1`, 10.5), Having(crit))
}

func Test_Criterion_standalone(t *testing.T) {
	testExpr(t, rei(`"users"."id" <> $1`, 1), ColCriterion{Conn: ConnOr, Col: usersId, Cond: IsNotEqualTo(1)})
	testExpr(t, rei(``), ColCriterion{Conn: ConnOr, Col: usersId})
	testExpr(t, rei(`exists (select 1)`), ExistsCriterion{Conn: ConnOr, Pred: Exists(RawQ(`select 1`))})
	testExpr(t, rei(``), ExistsCriterion{})
	testExpr(t, rei(``), ExistsCriterion{Pred: Exists(RawQ(``))})
	testExpr(t, rei(``), ExistsCriterion{Pred: NotExists(RawQ(`  `))})
	eq(t, true, Exists(RawQ(``)).IsEmpty())
	eq(t, false, Exists(RawQ(`select 1`)).IsEmpty())
	panics(t, `UnusedArgument`, func() { _ = Exists(RawQ(``, 10)).String() })
}

func Test_Criteria_blank_exists_skipped(t *testing.T) {
	crit := Collect(func(col *CriteriaCollector) {
		col.And(Exists(RawQ(``)))
		col.Or(Is(usersId, IsEqualTo(1)))
	})
	testExpr(t, rei(`where "users"."id" = $1`, 1), Where(crit))
}
