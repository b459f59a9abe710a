// Copyright © 2024 The schym authors

package lisp

import (
	"strings"
)

// indentUnit is the indentation added for each nesting level.
const indentUnit = "  "

// smallExpr is the item count below which an expression prints on one line.
const smallExpr = 4

// Stringify renders v as schym source, indenting nested lines for level
// lvl.  Expressions with fewer than four items are printed on one line,
// longer ones place each item after the first on its own line.  Quoted
// values never break lines.
func Stringify(v *LVal, lvl int) string {
	var b strings.Builder
	writeVal(&b, v, lvl, false)
	return b.String()
}

// DisplayString renders v the way print shows it: no value is nil and
// strings are shown without quotes.
func DisplayString(v *LVal) string {
	if v == nil {
		return "nil"
	}
	if v.Type == LString {
		return v.Str
	}
	return Stringify(v, 0)
}

func writeVal(b *strings.Builder, v *LVal, lvl int, inline bool) {
	if v == nil {
		b.WriteString("nil")
		return
	}
	switch v.Type {
	case LQuoted:
		b.WriteString("'")
		writeVal(b, v.Inner(), lvl, true)
	case LExpr:
		writeItems(b, v.Cells, lvl, inline)
	case LVariable:
		b.WriteString(v.Str)
	case LString:
		b.WriteString(`"`)
		b.WriteString(v.Str)
		b.WriteString(`"`)
	case LNumber:
		b.WriteString(FormatNumber(v.Num))
	case LComment:
		b.WriteString("; ")
		b.WriteString(v.Str)
	case LFun:
		if v.IsNative() || len(v.Cells) < 2 {
			b.WriteString("[ builtin function ]")
			return
		}
		items := make([]*LVal, 0, len(v.Cells[1].Cells)+1)
		items = append(items, Variable("fun"), v.Cells[0])
		items = append(items, v.Body()...)
		writeItems(b, items, lvl, inline)
	default:
		b.WriteString("<invalid>")
	}
}

func writeItems(b *strings.Builder, items []*LVal, lvl int, inline bool) {
	multiline := !inline && len(items) >= smallExpr
	for _, item := range items {
		if isComment(item) {
			// a comment runs to the end of the line
			multiline = true
		}
	}
	b.WriteString("(")
	for i, item := range items {
		if i > 0 {
			if multiline {
				newline(b, lvl+1)
			} else {
				b.WriteString(" ")
			}
		}
		writeVal(b, item, lvl+1, inline)
	}
	if n := len(items); n > 0 && isComment(items[n-1]) {
		newline(b, lvl)
	}
	b.WriteString(")")
}

func newline(b *strings.Builder, lvl int) {
	b.WriteString("\n")
	for i := 0; i < lvl; i++ {
		b.WriteString(indentUnit)
	}
}

func isComment(v *LVal) bool {
	return v != nil && v.Type == LComment
}
