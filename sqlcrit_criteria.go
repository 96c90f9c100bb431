package sqlcrit

import "fmt"

// Callback receiving a fresh collector. See `Collect`.
type CriteriaReceiver = func(*CriteriaCollector)

/*
Makes a fresh `CriteriaCollector`, invokes the callback with it, and returns
the finished list. Usage:

	crit := sqlcrit.Collect(func(col *sqlcrit.CriteriaCollector) {
		col.And(sqlcrit.Is(users.Id, sqlcrit.IsEqualTo(10)))
		col.OrSub(sqlcrit.Is(users.Name, sqlcrit.IsLike(`a%`)), func(col *sqlcrit.CriteriaCollector) {
			col.And(sqlcrit.Is(users.Deleted, sqlcrit.IsNull[bool]()))
		})
	})

A nil callback returns an empty list.
*/
func Collect(fun CriteriaReceiver) Criteria {
	var col CriteriaCollector
	if fun != nil {
		fun(&col)
	}
	return col.Criteria()
}

/*
Accumulates filter criteria in call order. Each method appends exactly one
criterion and returns the same collector for chaining. The zero value is ready
to use. Not safe for concurrent use.

The collector doesn't render anything. Pass the result of `.Criteria` to
`Where`, `Having` or `Criteria.AppendExpr`.
*/
type CriteriaCollector struct{ crit Criteria }

// Appends a criterion with the connector "and" and no sub-criteria.
func (self *CriteriaCollector) And(test Test) *CriteriaCollector {
	return self.add(ConnAnd, test, nil)
}

// Appends a criterion with the connector "or" and no sub-criteria.
func (self *CriteriaCollector) Or(test Test) *CriteriaCollector {
	return self.add(ConnOr, test, nil)
}

/*
Appends a criterion with the connector "and" whose sub-criteria are collected
by invoking the callback with a fresh collector. The callback runs
synchronously, before this method returns.
*/
func (self *CriteriaCollector) AndSub(test Test, fun CriteriaReceiver) *CriteriaCollector {
	return self.add(ConnAnd, test, Collect(fun))
}

// Same as `(*CriteriaCollector).AndSub` but with the connector "or".
func (self *CriteriaCollector) OrSub(test Test, fun CriteriaReceiver) *CriteriaCollector {
	return self.add(ConnOr, test, Collect(fun))
}

// Returns a copy of the accumulated criteria, in call order.
func (self *CriteriaCollector) Criteria() Criteria {
	if self == nil || len(self.crit) == 0 {
		return nil
	}
	return append(Criteria(nil), self.crit...)
}

// Number of accumulated criteria.
func (self *CriteriaCollector) Len() int {
	if self == nil {
		return 0
	}
	return len(self.crit)
}

func (self *CriteriaCollector) add(conn Connector, test Test, subs Criteria) *CriteriaCollector {
	if test == nil {
		panic(ErrInvalidInput.while(`collecting criteria`).because(
			fmt.Errorf(`nil test for connector %q`, conn),
		))
	}
	self.crit = append(self.crit, test.criterion(conn, subs))
	return self
}
