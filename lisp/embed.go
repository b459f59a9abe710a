// Copyright © 2024 The schym authors

package lisp

import (
	"fmt"
	"math"
)

// True interprets v as a condition: only a nonzero number is true.
func True(v *LVal) bool {
	return v != nil && v.Type == LNumber && v.Num != 0
}

// Not interprets v as a condition and returns its negation.
func Not(v *LVal) bool {
	return !True(v)
}

// GoValue converts v to its natural representation in Go.  Quotes are
// ignored and expressions become slices.  Variables and comments become
// their text.  No value is nil and functions are returned as is.
func GoValue(v *LVal) interface{} {
	if v == nil {
		return nil
	}
	switch v.Type {
	case LVariable, LString, LComment:
		return v.Str
	case LNumber:
		return v.Num
	case LQuoted:
		return GoValue(v.Inner())
	case LExpr:
		s, _ := GoSlice(v)
		return s
	}
	return v
}

// GoString returns the string that v represents and the value true.  If v
// does not represent a string GoString returns a false second argument.
func GoString(v *LVal) (string, bool) {
	if v == nil || v.Type != LString {
		return "", false
	}
	return v.Str, true
}

// VariableName returns the name of the variable that v, or the quoted value
// v, represents and the value true.
func VariableName(v *LVal) (string, bool) {
	if v != nil && v.Type == LQuoted {
		v = v.Inner()
	}
	if v == nil || v.Type != LVariable {
		return "", false
	}
	return v.Str, true
}

// GoFloat64 returns the number v represents and the value true.  If v does
// not represent a number GoFloat64 returns a false second argument.
func GoFloat64(v *LVal) (float64, bool) {
	if v == nil || v.Type != LNumber {
		return 0, false
	}
	return v.Num, true
}

// GoInt returns the integer v represents and the value true.  Numbers with
// a fractional part, and those out of range, return a false second
// argument.
func GoInt(v *LVal) (int, bool) {
	x, ok := GoFloat64(v)
	if !ok || x != math.Trunc(x) || x > math.MaxInt32 || x < math.MinInt32 {
		return 0, false
	}
	return int(x), true
}

// GoSlice converts the items of a list (an expression, quoted or not) and
// returns them with the value true.
func GoSlice(v *LVal) ([]interface{}, bool) {
	if v != nil && v.Type == LQuoted {
		v = v.Inner()
	}
	if v == nil || v.Type != LExpr {
		return nil, false
	}
	vs := make([]interface{}, len(v.Cells))
	for i := range vs {
		vs[i] = GoValue(v.Cells[i])
	}
	return vs, true
}

// FromGo converts a Go value to a schym value.  Numbers become LNumber,
// booleans 1 or 0, strings LString and slices quoted lists.
func FromGo(x interface{}) (*LVal, error) {
	switch x := x.(type) {
	case nil:
		return nil, nil
	case *LVal:
		return x, nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(float64(x)), nil
	case int:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case []string:
		cells := make([]*LVal, len(x))
		for i, s := range x {
			cells[i] = String(s)
		}
		return List(cells...), nil
	case []interface{}:
		cells := make([]*LVal, len(x))
		for i, item := range x {
			v, err := FromGo(item)
			if err != nil {
				return nil, err
			}
			if v != nil && v.Type == LQuoted && v.IsList() {
				v = v.Inner()
			}
			cells[i] = listItem(v)
		}
		return List(cells...), nil
	default:
		return nil, fmt.Errorf("cannot convert %T to a schym value", x)
	}
}
