// Copyright © 2024 The schym authors

// Package parser selects the default schym source reader.
package parser

import (
	"fmt"

	"github.com/schymlang/schym/lisp"
	"github.com/schymlang/schym/parser/rdparser"
	"github.com/schymlang/schym/parser/regexparser"
)

// NewReader returns a new lisp.Reader
func NewReader() lisp.Reader {
	return rdparser.NewReader()
}

// ReaderNames lists the names accepted by NewNamedReader.
var ReaderNames = []string{"rd", "parsec"}

// NewNamedReader returns the reader called name: "rd" for the recursive
// descent parser or "parsec" for the combinator parser.
func NewNamedReader(name string) (lisp.Reader, error) {
	switch name {
	case "", "rd":
		return rdparser.NewReader(), nil
	case "parsec":
		return regexparser.NewReader(), nil
	default:
		return nil, fmt.Errorf("unknown reader %q", name)
	}
}
