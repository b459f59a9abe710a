// Copyright © 2024 The schym authors

package lisp

var listBuiltins = []*langBuiltin{
	{"list", builtinList,
		`Returns a quoted list of its evaluated arguments.`},
	{"car", builtinCar,
		`Returns the first item of a list, or nil for the empty list.`},
	{"cdr", builtinCdr,
		`Returns a new list holding every item of a list but the first.`},
	{"append", builtinAppend,
		`(append list value) returns a new list with value added at the end.`},
	{"cons", builtinCons,
		`(cons value list) returns a new list with value added at the front.`},
	{"null?", builtinNull,
		`Returns 1 for nil or the empty list, otherwise 0.`},
}

// RegisterLists registers the list builtins.
func RegisterLists(r *Registry) *Registry {
	return registerTable(r, listBuiltins)
}

// listItem converts an evaluated value into something a list can hold.  No
// value is kept as the variable nil.
func listItem(v *LVal) *LVal {
	if v == nil {
		return Variable(NilName)
	}
	return v
}

// evalList evaluates v and requires a quoted expression.
func (env *LEnv) evalList(name string, v *LVal) ([]*LVal, Result) {
	res := env.Eval(v)
	if res.Err != nil {
		return nil, res
	}
	if !res.Value.IsList() {
		return nil, Errorf("%s: expected list, got %s", name, kindOf(res.Value))
	}
	return res.Value.Inner().Cells, res
}

func builtinList(env *LEnv, name string, args []*LVal) Result {
	items := make([]*LVal, 0, len(args))
	for _, arg := range args {
		res := env.Eval(arg)
		if res.Err != nil {
			return res
		}
		items = append(items, listItem(res.Value))
	}
	return Ok(List(items...))
}

func builtinCar(env *LEnv, name string, args []*LVal) Result {
	if err := expectArgs(name, args, "==", 1); err != nil {
		return Fail(err)
	}
	items, res := env.evalList(name, args[0])
	if res.Err != nil {
		return res
	}
	if len(items) == 0 {
		return Nothing()
	}
	first := items[0]
	if first.Type == LExpr {
		// items of list data are themselves data
		return Ok(Quote(first))
	}
	return Ok(first)
}

func builtinCdr(env *LEnv, name string, args []*LVal) Result {
	if err := expectArgs(name, args, "==", 1); err != nil {
		return Fail(err)
	}
	items, res := env.evalList(name, args[0])
	if res.Err != nil {
		return res
	}
	if len(items) == 0 {
		return Ok(List())
	}
	rest := make([]*LVal, len(items)-1)
	copy(rest, items[1:])
	return Ok(List(rest...))
}

func builtinAppend(env *LEnv, name string, args []*LVal) Result {
	if err := expectArgs(name, args, "==", 2); err != nil {
		return Fail(err)
	}
	items, res := env.evalList(name, args[0])
	if res.Err != nil {
		return res
	}
	val := env.Eval(args[1])
	if val.Err != nil {
		return val
	}
	out := make([]*LVal, 0, len(items)+1)
	out = append(out, items...)
	out = append(out, listItem(val.Value))
	return Ok(List(out...))
}

func builtinCons(env *LEnv, name string, args []*LVal) Result {
	if err := expectArgs(name, args, "==", 2); err != nil {
		return Fail(err)
	}
	val := env.Eval(args[0])
	if val.Err != nil {
		return val
	}
	items, res := env.evalList(name, args[1])
	if res.Err != nil {
		return res
	}
	out := make([]*LVal, 0, len(items)+1)
	out = append(out, listItem(val.Value))
	out = append(out, items...)
	return Ok(List(out...))
}

func builtinNull(env *LEnv, name string, args []*LVal) Result {
	if err := expectArgs(name, args, "==", 1); err != nil {
		return Fail(err)
	}
	res := env.Eval(args[0])
	if res.Err != nil {
		return res
	}
	if res.Value == nil {
		return Ok(Bool(true))
	}
	if !res.Value.IsList() {
		return Ok(Bool(false))
	}
	return Ok(Bool(len(res.Value.Inner().Cells) == 0))
}
