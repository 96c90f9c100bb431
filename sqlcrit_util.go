package sqlcrit

import (
	"fmt"
	r "reflect"
	"strings"
	"unsafe"

	"github.com/mitranim/refut"
)

const (
	quoteDouble = '"'
	quoteSingle = '\''
	tagNameDb   = `db`
)

var (
	charsetSpace      = new(charset).addStr(" \t\v")
	charsetNewline    = new(charset).addStr("\r\n")
	charsetWhitespace = new(charset).addSet(charsetSpace).addSet(charsetNewline)
	charsetDelimStart = new(charset).addSet(charsetWhitespace).addStr(`([{.`)
	charsetDelimEnd   = new(charset).addSet(charsetWhitespace).addStr(`,}])`)
)

type charset [256]bool

func (self *charset) has(val byte) bool { return self[val] }

func (self *charset) addStr(vals string) *charset {
	for _, val := range vals {
		self[val] = true
	}
	return self
}

func (self *charset) addSet(vals *charset) *charset {
	for ind, val := range vals {
		if val {
			self[ind] = true
		}
	}
	return self
}

/*
Allocation-free conversion. Reinterprets a byte slice as a string. Borrowed from
the standard library. Reasonably safe. Should not be used when the underlying
byte array is volatile.
*/
func bytesToMutableString(bytes []byte) string {
	return *(*string)(unsafe.Pointer(&bytes))
}

func maybeAppendSpace(val []byte) []byte {
	if hasDelimSuffix(bytesToMutableString(val)) {
		return val
	}
	return append(val, ` `...)
}

func appendMaybeSpaced(text []byte, suffix string) []byte {
	if !hasDelimSuffix(bytesToMutableString(text)) && !hasDelimPrefix(suffix) {
		text = append(text, ` `...)
	}
	text = append(text, suffix...)
	return text
}

func hasDelimPrefix(text string) bool {
	return len(text) == 0 || charsetDelimEnd.has(text[0])
}

func hasDelimSuffix(text string) bool {
	return len(text) == 0 || charsetDelimStart.has(text[len(text)-1])
}

func validateIdent(val string) {
	if strings.ContainsRune(val, quoteDouble) {
		panic(ErrInvalidInput.while(`encoding ident`).because(
			fmt.Errorf(`unexpected %q in SQL identifier %q`, rune(quoteDouble), val),
		))
	}
}

// Appends a double-quoted identifier, space-separated if necessary.
func appendIdent(text []byte, val string) []byte {
	validateIdent(val)
	text = maybeAppendSpace(text)
	text = append(text, quoteDouble)
	text = append(text, val...)
	text = append(text, quoteDouble)
	return text
}

// Appends `"qual"."name"`, or just `"name"` when the qualifier is empty.
func appendQualIdent(text []byte, qual, name string) []byte {
	if qual != `` {
		text = appendIdent(text, qual)
		text = append(text, '.')
	}
	return appendIdent(text, name)
}

// Appends a single-quoted SQL string literal, doubling inner quotes.
func appendStringLiteral(text []byte, val string) []byte {
	text = maybeAppendSpace(text)
	text = append(text, quoteSingle)
	text = append(text, strings.ReplaceAll(val, `'`, `''`)...)
	text = append(text, quoteSingle)
	return text
}

func qualName(qual, name string) string {
	if qual == `` {
		return name
	}
	return qual + `.` + name
}

func try(err error) {
	if err != nil {
		panic(err)
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

func exprAppend[A Expr](expr A, text []byte) []byte {
	text, _ = expr.AppendExpr(text, nil)
	return text
}

func exprString[A Expr](expr A) string {
	return bytesToMutableString(exprAppend(expr, nil))
}

func isNil(val any) bool { return val == nil || refut.IsNil(val) }

func typeName(typ r.Type) string {
	if typ == nil {
		return `nil`
	}
	return typ.String()
}

/*
Looks up a struct field by Go name or by `db` tag. Embedded structs are
treated as part of the enclosing struct. Nil pointers produce `nil, false`
without panicking.
*/
func structProperty(src any, name string) (out any, found bool) {
	val := r.ValueOf(src)
	if !val.IsValid() {
		return nil, false
	}

	typ := refut.RtypeDeref(val.Type())
	if typ.Kind() != r.Struct {
		panic(ErrInvalidInput.while(`looking up struct property`).because(
			fmt.Errorf(`expected struct, got %q`, typeName(typ)),
		))
	}

	if refut.IsRvalNil(val) {
		return nil, false
	}

	try(refut.TraverseStructRval(val, func(val r.Value, field r.StructField, _ []int) error {
		if found || field.PkgPath != `` {
			return nil
		}
		if field.Name == name || refut.TagIdent(field.Tag.Get(tagNameDb)) == name {
			out, found = val.Interface(), true
		}
		return nil
	}))
	return
}
