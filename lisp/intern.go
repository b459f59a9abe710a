// Copyright © 2024 The schym authors

package lisp

// Interner canonicalizes the names of quoted variables so that every
// occurrence of a symbol shares one string.  Values are copied before they
// are rewritten.
type Interner struct {
	names map[string]string
}

// NewInterner returns an empty Interner.
func NewInterner() *Interner {
	return &Interner{names: make(map[string]string)}
}

// Intern returns a copy of v with every quoted variable name replaced by its
// canonical string.  Unquoted variables are left alone.
func (in *Interner) Intern(v *LVal) *LVal {
	cp := v.Copy()
	in.intern(cp, false)
	return cp
}

func (in *Interner) intern(v *LVal, quoted bool) {
	if v == nil {
		return
	}
	switch v.Type {
	case LQuoted:
		in.intern(v.Inner(), true)
	case LExpr:
		for _, c := range v.Cells {
			in.intern(c, quoted)
		}
	case LVariable:
		if quoted {
			v.Str = in.Canonical(v.Str)
		}
	}
}

// Canonical returns the canonical string for name, adding it if it is new.
func (in *Interner) Canonical(name string) string {
	if s, ok := in.names[name]; ok {
		return s
	}
	in.names[name] = name
	return name
}

// Len returns the number of distinct names seen.
func (in *Interner) Len() int {
	return len(in.names)
}
