// Copyright © 2024 The schym authors

// Package token describes positions in schym source text.
package token

import (
	"errors"
	"fmt"
)

// Location identifies a byte offset in a named source stream.  Line and Col
// start at 1.  A negative Pos means the location is unknown.
type Location struct {
	File string // a name representing the source stream
	Path string // a physical location which may differ from File
	Pos  int
	Line int
	Col  int
}

func (loc *Location) String() string {
	switch {
	case loc == nil:
		return "<unknown>"
	case loc.Pos < 0:
		return loc.File
	case loc.File == "":
		return fmt.Sprintf("line %d col %d", loc.Line, loc.Col)
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

// LocationError is a syntax error annotated with the place it was found.
type LocationError struct {
	Err    error
	Source *Location
}

func (err *LocationError) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Err)
}

func (err *LocationError) Unwrap() error {
	return err.Err
}

// Locate returns the Location of err if it wraps a *LocationError.
func Locate(err error) (*Location, bool) {
	var lerr *LocationError
	if errors.As(err, &lerr) && lerr.Source != nil {
		return lerr.Source, true
	}
	return nil, false
}

// Lines maps byte offsets of a source text to line and column numbers.
type Lines struct {
	name   string
	starts []int
	size   int
}

// NewLines indexes the line starts of src.
func NewLines(name string, src string) *Lines {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Lines{name: name, starts: starts, size: len(src)}
}

// At returns the Location of byte offset pos.  Offsets past the end of the
// text are clamped to the end of input.
func (l *Lines) At(pos int) *Location {
	if pos > l.size {
		pos = l.size
	}
	if pos < 0 {
		return &Location{File: l.name, Pos: -1}
	}
	// the last line start which is <= pos
	lo, hi := 0, len(l.starts)
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if l.starts[mid] <= pos {
			lo = mid
		} else {
			hi = mid
		}
	}
	return &Location{
		File: l.name,
		Pos:  pos,
		Line: lo + 1,
		Col:  pos - l.starts[lo] + 1,
	}
}

// End returns the Location just past the last byte of the text.
func (l *Lines) End() *Location {
	return l.At(l.size)
}
