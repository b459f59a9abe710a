// Copyright © 2024 The schym authors

package lisp

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// SourceExt is the file extension of schym programs.
const SourceExt = ".schym"

// SourceLibrary locates programs for the load builtin.
type SourceLibrary interface {
	// LoadSource returns the resolved path and contents of the program
	// called name.
	LoadSource(name string) (string, []byte, error)
}

// withExt adds SourceExt to name when it has no extension.
func withExt(name string) string {
	if path.Ext(name) == "" {
		return name + SourceExt
	}
	return name
}

// FileSystemLibrary finds programs in the host file system.  Each directory
// of SearchPath is tried in order.  An empty SearchPath means the current
// directory.
type FileSystemLibrary struct {
	SearchPath []string
}

// NewPreludeLibrary returns a library searching the prelude directory and
// then the current directory.
func NewPreludeLibrary(preludeDir string) *FileSystemLibrary {
	return &FileSystemLibrary{SearchPath: []string{preludeDir, "."}}
}

func (lib *FileSystemLibrary) LoadSource(name string) (string, []byte, error) {
	dirs := lib.SearchPath
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	file := withExt(name)
	var tried []string
	for _, dir := range dirs {
		p := file
		if !filepath.IsAbs(file) {
			p = filepath.Join(dir, file)
		}
		b, err := os.ReadFile(p) //#nosec G304
		if err == nil {
			return p, b, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return p, nil, err
		}
		tried = append(tried, p)
		if filepath.IsAbs(file) {
			break
		}
	}
	return "", nil, fmt.Errorf("%q not found in %s: %w", name, strings.Join(tried, ", "), fs.ErrNotExist)
}

// FSLibrary finds programs in an fs.FS, such as an embedded prelude.
type FSLibrary struct {
	FS fs.FS
}

func (lib *FSLibrary) LoadSource(name string) (string, []byte, error) {
	file := withExt(path.Clean(name))
	b, err := fs.ReadFile(lib.FS, file)
	if err != nil {
		return "", nil, err
	}
	return file, b, nil
}

// ChainLibrary tries each library in order and returns the first program
// found.
type ChainLibrary []SourceLibrary

func (chain ChainLibrary) LoadSource(name string) (string, []byte, error) {
	err := fmt.Errorf("%q: %w", name, fs.ErrNotExist)
	for _, lib := range chain {
		p, b, e := lib.LoadSource(name)
		if e == nil {
			return p, b, nil
		}
		if !errors.Is(e, fs.ErrNotExist) {
			return p, nil, e
		}
		err = e
	}
	return "", nil, err
}
