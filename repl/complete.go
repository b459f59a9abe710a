// Copyright © 2024 The schym authors

package repl

import (
	"sort"
	"strings"

	"github.com/schymlang/schym/lisp"
)

// symbolCompleter implements readline.AutoCompleter using the enabled
// builtins and the names bound in a scope.
type symbolCompleter struct {
	env *lisp.LEnv
}

func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 {
		ch := line[start-1]
		if ch == ' ' || ch == '\t' || ch == '(' || ch == '[' || ch == '\'' || ch == '\n' {
			break
		}
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}
	candidates := c.collectNames(prefix)
	if len(candidates) == 0 {
		return nil, 0
	}
	result := make([][]rune, 0, len(candidates))
	for _, name := range candidates {
		result = append(result, []rune(name[len(prefix):]))
	}
	return result, len(prefix)
}

func (c *symbolCompleter) collectNames(prefix string) []string {
	seen := make(map[string]bool)
	var result []string
	add := func(name string) {
		if strings.HasPrefix(name, prefix) && !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}
	for _, name := range c.env.Names() {
		add(name)
	}
	for _, b := range c.env.Runtime.Registry.Builtins() {
		if b.Enabled {
			add(b.Name)
		}
	}
	sort.Strings(result)
	return result
}
