// Copyright © 2024 The schym authors

package cmd

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/schymlang/schym/lisp"
)

// expandArgs expands arguments, resolving patterns ending with "/..." to all
// source files found recursively under the given directory, then drops
// paths matching any of excludes.
func expandArgs(args []string, excludes []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		dir, ok := strings.CutSuffix(arg, "/...")
		if !ok {
			out = append(out, arg)
			continue
		}
		if dir == "" {
			dir = "."
		}
		files, err := findSourceFiles(dir)
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", arg, err)
		}
		out = append(out, files...)
	}
	return filterExcludes(out, excludes), nil
}

func findSourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == lisp.SourceExt {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// filterExcludes removes paths where any path element matches one of the
// glob patterns.
func filterExcludes(paths []string, patterns []string) []string {
	if len(patterns) == 0 {
		return paths
	}
	var out []string
	for _, path := range paths {
		if !excluded(path, patterns) {
			out = append(out, path)
		}
	}
	return out
}

func excluded(path string, patterns []string) bool {
	parts := strings.Split(filepath.ToSlash(path), "/")
	for _, pattern := range patterns {
		for _, part := range parts {
			if ok, _ := filepath.Match(pattern, part); ok {
				return true
			}
		}
	}
	return false
}
