package sqlcrit

import (
	"errors"
	"fmt"
	r "reflect"
	"runtime"
	"strings"
	"testing"
)

type list = []any

var (
	tabUsers  = Table{Name: `users`}
	usersId   = ColOf[int](tabUsers, `id`)
	usersName = ColOf[string](tabUsers, `name`)
	usersAge  = ColOf[int](tabUsers, `age`)

	tabOrders    = Table{Name: `orders`, Alias: `o`}
	ordersId     = ColOf[int](tabOrders, `id`)
	ordersUserId = ColOf[int](tabOrders, `user_id`)
	ordersTotal  = ColOf[float64](tabOrders, `total`)
	ordersQty    = ColOf[int](tabOrders, `qty`)
)

type User struct {
	Id   int    `db:"id"`
	Name string `db:"name"`
	Note *string
}

type Timestamps struct {
	Created string `db:"created_at"`
}

type Order struct {
	Timestamps
	Id     int     `db:"id"`
	Total  float64 `db:"total"`
	secret string
}

type Encoder interface {
	fmt.Stringer
	Appender
	Expr
}

func testEncoder(t testing.TB, exp string, val Encoder) {
	t.Helper()
	eq(t, exp, val.String())
	eq(t, exp, string(val.Append(nil)))
	eq(t, exp, reify(val).Text)
}

func testExpr(t testing.TB, exp R, val Encoder) {
	t.Helper()
	testEncoder(t, exp.Text, val)
	testExprs(t, exp, val)
}

func testExprs(t testing.TB, exp R, vals ...Expr) {
	t.Helper()
	eq(t, exp, reify(vals...))
}

func reify(vals ...Expr) R {
	text, args := Reify(vals...)
	return R{text, args}.Norm()
}

// Short for "reified".
func rei(text string, args ...any) R { return R{text, args}.Norm() }

// Short for "reified". Test-only.
type R struct {
	Text string
	Args list
}

/*
We don't really care about the difference between nil and zero-length arg
lists.
*/
func (self R) Norm() R {
	if self.Args == nil {
		self.Args = list{}
	}
	return self
}

func eq(t testing.TB, exp, act any) {
	t.Helper()
	if !r.DeepEqual(exp, act) {
		t.Fatalf(`
expected (detailed):
	%#[1]v
actual (detailed):
	%#[2]v
expected (simple):
	%[1]v
actual (simple):
	%[2]v
`, exp, act)
	}
}

func errIs(t testing.TB, exp, act error) {
	t.Helper()
	if !errors.Is(act, exp) {
		t.Fatalf(`expected error matching %q, got %q`, exp, act)
	}
}

func panics(t testing.TB, msg string, fun func()) {
	t.Helper()
	val := catchAny(fun)

	if val == nil {
		t.Fatalf(`expected %v to panic, found no panic`, funcName(fun))
	}

	str := fmt.Sprint(val)
	if !strings.Contains(str, msg) {
		t.Fatalf(
			`expected %v to panic with a message containing %q, found %q`,
			funcName(fun), msg, str,
		)
	}
}

func funcName(val any) string {
	return runtime.FuncForPC(r.ValueOf(val).Pointer()).Name()
}

func catchAny(fun func()) (val any) {
	defer recAny(&val)
	fun()
	return
}

func recAny(ptr *any) { *ptr = recover() }

func strPtr(val string) *string { return &val }

func intPtr(val int) *int { return &val }
