// Copyright © 2024 The schym authors

package docs

import (
	"testing"

	"github.com/schymlang/schym/lisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLangGuideCoversPrelude(t *testing.T) {
	require.NotEmpty(t, LangGuide)
	env, err := lisp.NewRootEnv(true)
	require.NoError(t, err)
	for _, b := range env.Runtime.Registry.Builtins() {
		assert.Contains(t, LangGuide, "`"+b.Name+"`", "guide does not mention %s", b.Name)
	}
}
