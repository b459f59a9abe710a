// Copyright © 2024 The schym authors

package lisp

// Builtin is a native function registered under a name.
type Builtin struct {
	Name    string
	Fn      LBuiltin
	Doc     string
	Enabled bool
}

// Registry is the ordered table of builtins held by a root scope.  Entries
// are never removed, only disabled.  Find returns the first enabled entry
// with a name, so an entry added after an enabled entry of the same name is
// unreachable until the earlier one is disabled.
type Registry struct {
	entries []*Builtin
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends an enabled builtin and returns r.
func (r *Registry) Add(name string, fn LBuiltin, doc string) *Registry {
	r.entries = append(r.entries, &Builtin{
		Name:    name,
		Fn:      fn,
		Doc:     doc,
		Enabled: true,
	})
	return r
}

// SetEnabled enables or disables every entry named name and returns the
// number of entries changed.
func (r *Registry) SetEnabled(name string, enabled bool) int {
	n := 0
	for _, b := range r.entries {
		if b.Name == name && b.Enabled != enabled {
			b.Enabled = enabled
			n++
		}
	}
	return n
}

// Find returns the first enabled builtin named name, or nil.
func (r *Registry) Find(name string) *Builtin {
	if r == nil {
		return nil
	}
	for _, b := range r.entries {
		if b.Enabled && b.Name == name {
			return b
		}
	}
	return nil
}

// Builtins returns the registered entries in registration order.
func (r *Registry) Builtins() []*Builtin {
	if r == nil {
		return nil
	}
	out := make([]*Builtin, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of entries, enabled or not.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Module registers a group of builtins.
type Module func(*Registry) *Registry

// Prelude lists the modules registered in a root scope created with the
// prelude.
var Prelude = []Module{
	RegisterCore,
	RegisterMath,
	RegisterStrings,
	RegisterLists,
	RegisterStdio,
}

// langBuiltin is a row of a builtin module's table.
type langBuiltin struct {
	name string
	fn   LBuiltin
	doc  string
}

func registerTable(r *Registry, table []*langBuiltin) *Registry {
	if r == nil {
		r = NewRegistry()
	}
	for _, b := range table {
		r = r.Add(b.name, b.fn, b.doc)
	}
	return r
}
