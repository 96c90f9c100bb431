package sqlcrit

import "github.com/mitranim/sqlp"

/*
Short for "builder". Tiny shortcut for building SQL expressions. Used
internally by every `Expr` implementation in this package.
*/
type Bui struct {
	Text []byte
	Args []any
}

// Returns text and args as-is. Useful shortcut for passing them to
// `AppendExpr`.
func (self Bui) Get() ([]byte, []any) {
	return self.Text, self.Args
}

/*
Replaces text and args with the inputs. The following idiom is equivalent to
`bui.Expr` but avoids an interface-induced allocation when the expression type
is concrete:

	bui.Set(SomeExpr{}.AppendExpr(bui.Get()))
*/
func (self *Bui) Set(text []byte, args []any) {
	self.Text = text
	self.Args = args
}

// Shortcut for `self.String(), self.Args`. Go database drivers tend to require
// `string, []any` as inputs for queries and statements.
func (self Bui) Reify() (string, []any) {
	return self.String(), self.Args
}

// Returns inner text as a string, performing a free cast.
func (self Bui) String() string {
	return bytesToMutableString(self.Text)
}

// Adds a space if the preceding text doesn't already end with a terminator.
func (self *Bui) Space() {
	self.Text = maybeAppendSpace(self.Text)
}

// Appends the provided string, delimiting it from the previous text with a
// space if necessary.
func (self *Bui) Str(val string) {
	self.Text = appendMaybeSpaced(self.Text, val)
}

/*
Appends an expression, delimited from the preceding text by a space, if
necessary. Nil input is a nop: nothing will be appended.
*/
func (self *Bui) Expr(val Expr) {
	if val != nil {
		self.Space()
		self.Set(val.AppendExpr(self.Get()))
	}
}

/*
Appends a sub-expression wrapped in parens. Nil input is a nop: nothing will be
appended.
*/
func (self *Bui) SubExpr(val Expr) {
	if val != nil {
		self.Str(`(`)
		self.Expr(val)
		self.Str(`)`)
	}
}

// Appends each expr by calling `(*Bui).Expr`. They will be space-separated as
// necessary.
func (self *Bui) Exprs(vals ...Expr) {
	for _, val := range vals {
		self.Expr(val)
	}
}

// Same as `(*Bui).Exprs` but catches panics. Since many functions in this
// package use panics, this should be used for final reification by apps that
// insist on errors-as-values.
func (self *Bui) CatchExprs(vals ...Expr) (err error) {
	defer rec(&err)
	self.Exprs(vals...)
	return
}

/*
Appends an argument to `.Args` and a corresponding ordinal parameter such as
"$1" to `.Text`, space-separated from previous text if necessary.
*/
func (self *Bui) Arg(val any) {
	self.Args = append(self.Args, val)
	self.Space()
	sqlp.NodeOrdinalParam(len(self.Args)).Append(&self.Text)
}

/*
Appends an arbitrary value. If the value implements `Expr`, this calls
`(*Bui).Expr`. Otherwise, appends an argument and the corresponding ordinal
parameter.
*/
func (self *Bui) Any(val any) {
	impl, _ := val.(Expr)
	if impl != nil {
		self.Expr(impl)
		return
	}
	self.Arg(val)
}

/*
Lengths of text and args at some point of building. Used to undo speculative
output, for example a connector followed by a criterion that turns out to be
empty.
*/
type BuiMark struct {
	Text int
	Args int
}

// Returns the current lengths of text and args, for use with `(*Bui).Reset`.
func (self Bui) Mark() BuiMark {
	return BuiMark{len(self.Text), len(self.Args)}
}

// Truncates text and args back to the given mark.
func (self *Bui) Reset(mark BuiMark) {
	self.Text = self.Text[:mark.Text]
	self.Args = self.Args[:mark.Args]
}

/*
Encodes the provided expressions and returns the resulting text and args.
Shortcut for using `(*Bui).Exprs` and `Bui.Reify`. Provided mostly for
examples. Actual code may want to use `Bui` directly, or `ReifyErr`.
*/
func Reify(vals ...Expr) (string, []any) {
	var bui Bui
	bui.Exprs(vals...)
	return bui.Reify()
}

// Same as `Reify` but converts encoding panics into errors.
func ReifyErr(vals ...Expr) (text string, args []any, err error) {
	var bui Bui
	err = bui.CatchExprs(vals...)
	if err != nil {
		return ``, nil, err
	}
	text, args = bui.Reify()
	return
}
