// Copyright © 2024 The schym authors

// Package astutil provides helpers for walking parsed schym programs.
package astutil

import "github.com/schymlang/schym/lisp"

// Walk calls fn for every node in the tree, depth-first.  parent is nil for
// top-level expressions.  Quoted values are visited but their contents are
// not, since they are data rather than code.
func Walk(exprs []*lisp.LVal, fn func(node *lisp.LVal, parent *lisp.LVal, depth int)) {
	for _, expr := range exprs {
		walkNode(expr, nil, 0, fn)
	}
}

func walkNode(node *lisp.LVal, parent *lisp.LVal, depth int, fn func(*lisp.LVal, *lisp.LVal, int)) {
	if node == nil {
		return
	}
	fn(node, parent, depth)
	if node.Type != lisp.LExpr {
		return
	}
	for _, child := range node.Cells {
		walkNode(child, node, depth+1, fn)
	}
}

// WalkCalls calls fn for every unquoted, non-empty expression in the tree.
func WalkCalls(exprs []*lisp.LVal, fn func(call *lisp.LVal, depth int)) {
	Walk(exprs, func(node *lisp.LVal, _ *lisp.LVal, depth int) {
		if node.Type == lisp.LExpr && len(node.Cells) > 0 {
			fn(node, depth)
		}
	})
}

// HeadName returns the variable name at the head of an expression, or "".
func HeadName(call *lisp.LVal) string {
	if call == nil || call.Type != lisp.LExpr || len(call.Cells) == 0 {
		return ""
	}
	if head := call.Cells[0]; head.Type == lisp.LVariable {
		return head.Str
	}
	return ""
}

// ArgCount returns the number of arguments in an expression, not counting
// the head.  Comments are not arguments.
func ArgCount(call *lisp.LVal) int {
	return len(Args(call))
}

// Args returns the arguments of an expression with comments removed.
func Args(call *lisp.LVal) []*lisp.LVal {
	if call == nil || len(call.Cells) <= 1 {
		return nil
	}
	args := make([]*lisp.LVal, 0, len(call.Cells)-1)
	for _, c := range call.Cells[1:] {
		if c.Type != lisp.LComment {
			args = append(args, c)
		}
	}
	return args
}

// UserDefined returns the set of names a program binds with set, times,
// let literal pairs and function formals.
//
// The result is file-global, not scope-aware.  It may hide a real finding
// but never produces a false one.
func UserDefined(exprs []*lisp.LVal) map[string]bool {
	defs := make(map[string]bool)
	bindFormals := func(formals *lisp.LVal) {
		if formals == nil || formals.Type != lisp.LExpr {
			return
		}
		for _, f := range formals.Cells {
			if f.Type == lisp.LVariable {
				defs[f.Str] = true
			}
		}
	}
	WalkCalls(exprs, func(call *lisp.LVal, _ int) {
		args := Args(call)
		switch HeadName(call) {
		case "set":
			if len(args) >= 1 && args[0].Type == lisp.LVariable {
				defs[args[0].Str] = true
			}
			if len(args) >= 3 {
				bindFormals(args[1])
			}
		case "times":
			if len(args) >= 1 && args[0].Type == lisp.LVariable {
				defs[args[0].Str] = true
			}
		case "fun":
			if len(args) >= 1 {
				bindFormals(args[0])
			}
		case "let":
			if len(args) >= 1 && args[0].Type == lisp.LExpr {
				for _, b := range args[0].Cells {
					if b.Type == lisp.LExpr && len(b.Cells) == 2 && b.Cells[0].Type == lisp.LVariable {
						defs[b.Cells[0].Str] = true
					}
				}
			}
		}
	})
	return defs
}

// SourceOf returns the node with the nearest known source location: node
// itself if it has one, else the first descendant that does.  When no node
// has a location SourceOf returns node.
func SourceOf(node *lisp.LVal) *lisp.LVal {
	if found := located(node); found != nil {
		return found
	}
	return node
}

func located(node *lisp.LVal) *lisp.LVal {
	if node == nil {
		return nil
	}
	if node.Source != nil && node.Source.Line > 0 {
		return node
	}
	for _, c := range node.Cells {
		if found := located(c); found != nil {
			return found
		}
	}
	return nil
}
