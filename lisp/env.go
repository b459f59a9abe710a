// Copyright © 2024 The schym authors

package lisp

import (
	"errors"
	"fmt"
	"strings"
)

// NilName is the variable which always evaluates to no value.
const NilName = "nil"

// LEnv is one frame of a lexical scope chain.  Values stored in a frame are
// owned by it.  A nil value in Scope is a binding to no value and still
// shadows bindings in parent frames.
type LEnv struct {
	Scope   map[string]*LVal
	Parent  *LEnv
	Runtime *Runtime
}

// NewRootEnv returns a root scope.  When prelude is true every builtin
// module is registered, otherwise the registry starts empty.  The config
// functions are applied in order.
func NewRootEnv(prelude bool, config ...Config) (*LEnv, error) {
	env := NewEnvRuntime(StandardRuntime())
	if prelude {
		for _, mod := range Prelude {
			env.Runtime.Registry = mod(env.Runtime.Registry)
		}
	}
	for _, fn := range config {
		if err := fn(env); err != nil {
			return nil, err
		}
	}
	return env, nil
}

// NewEnvRuntime returns a root scope using rt.  A nil rt is replaced by
// StandardRuntime().
func NewEnvRuntime(rt *Runtime) *LEnv {
	if rt == nil {
		rt = StandardRuntime()
	}
	return &LEnv{
		Scope:   make(map[string]*LVal),
		Runtime: rt,
	}
}

// NewEnv returns a child scope of parent.  A nil parent creates a new root
// with a standard runtime.
func NewEnv(parent *LEnv) *LEnv {
	if parent == nil {
		return NewEnvRuntime(nil)
	}
	return &LEnv{
		Scope:   make(map[string]*LVal),
		Parent:  parent,
		Runtime: parent.Runtime,
	}
}

// Root returns the outermost frame of the chain.
func (env *LEnv) Root() *LEnv {
	for env.Parent != nil {
		env = env.Parent
	}
	return env
}

// Lookup resolves name by searching the scope chain innermost first, then
// the builtin registry.  Unresolved names, and nil, have no value.  The
// result is a copy.
func (env *LEnv) Lookup(name string) *LVal {
	if name == NilName {
		return nil
	}
	for e := env; e != nil; e = e.Parent {
		if v, ok := e.Scope[name]; ok {
			return v.Copy()
		}
	}
	if b := env.Root().Runtime.Registry.Find(name); b != nil {
		return Native(b.Name, b.Fn)
	}
	return nil
}

// Put binds name to a copy of v in env, replacing any binding of name in
// env only.
func (env *LEnv) Put(name string, v *LVal) {
	env.Scope[name] = v.Copy()
}

// Remove deletes the binding of name in env.
func (env *LEnv) Remove(name string) {
	delete(env.Scope, name)
}

// Assign binds name in the nearest frame that already binds it, or in the
// root frame when no frame does.
func (env *LEnv) Assign(name string, v *LVal) {
	target := env
	for e := env; e != nil; e = e.Parent {
		target = e
		if _, ok := e.Scope[name]; ok {
			break
		}
	}
	target.Put(name, v)
}

// Names returns the names bound anywhere in the scope chain.
func (env *LEnv) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for e := env; e != nil; e = e.Parent {
		for name := range e.Scope {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// ReadProgram parses src with the runtime's Reader.
func (env *LEnv) ReadProgram(name string, src string) ([]*LVal, error) {
	if env.Runtime.Reader == nil {
		return nil, errors.New("no reader configured")
	}
	return env.Runtime.Reader.Read(name, strings.NewReader(src))
}

// RunProgram parses src and evaluates each top level form in env, stopping
// at the first error.  The result of the last form is returned.
func (env *LEnv) RunProgram(name string, src string) Result {
	forms, err := env.ReadProgram(name, src)
	if err != nil {
		return Fail(err)
	}
	return env.EvalAll(forms)
}

// EvalAll evaluates forms in order, stopping at the first error.
func (env *LEnv) EvalAll(forms []*LVal) Result {
	res := Nothing()
	for _, form := range forms {
		if in := env.Runtime.Interner; in != nil {
			form = in.Intern(form)
		}
		res = env.Eval(form)
		if res.Err != nil {
			return res
		}
	}
	return res
}

// LoadFile resolves name through the runtime's SourceLibrary and runs it in
// env.
func (env *LEnv) LoadFile(name string) Result {
	lib := env.Runtime.Library
	if lib == nil {
		return Errorf("no source library configured")
	}
	path, src, err := lib.LoadSource(name)
	if err != nil {
		return Fail(fmt.Errorf("error while reading file: %w", err))
	}
	env.Runtime.Logger.WithField("file", path).Debug("loading source")
	return env.RunProgram(path, string(src))
}
