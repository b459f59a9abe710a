// Copyright © 2024 The schym authors

// Package rdparser implements a recursive descent parser for schym source
// text.  At each position the parser tries, in order, a comment, a number,
// a string, a bracketed expression, a quoted value and finally a variable,
// which accepts any run of characters that are not whitespace or brackets.
package rdparser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/schymlang/schym/lisp"
	"github.com/schymlang/schym/parser/token"
)

// ErrIncomplete is matched (with errors.Is) by errors for input which ends
// inside an expression.  More input could complete it.
var ErrIncomplete = errors.New("incomplete expression")

// MissingError reports an expression with no closing bracket.
type MissingError struct {
	Close byte
}

func (err *MissingError) Error() string {
	return fmt.Sprintf("missing '%c'", err.Close)
}

// Is makes a MissingError match ErrIncomplete.
func (err *MissingError) Is(target error) bool {
	return target == ErrIncomplete
}

type reader struct{}

// NewReader returns a lisp.Reader to use in a lisp.Runtime.
func NewReader() lisp.Reader {
	return &reader{}
}

// Read implements lisp.Reader.
func (*reader) Read(name string, r io.Reader) ([]*lisp.LVal, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseProgram(name, string(b))
}

// Parser holds the position of a parse in a source text.
type Parser struct {
	src   string
	pos   int
	lines *token.Lines
}

// New returns a Parser positioned at the start of src.  name is used in
// locations.
func New(name string, src string) *Parser {
	return &Parser{
		src:   src,
		lines: token.NewLines(name, src),
	}
}

// ParseOne parses a single value from the start of src and returns it with
// the text following it.  When src holds nothing that starts a value, such
// as only whitespace or a closing bracket, the value is nil.
func ParseOne(src string) (*lisp.LVal, string, error) {
	p := New("", src)
	v, err := p.Parse()
	return v, src[p.pos:], err
}

// ParseProgram parses every top level form in src.  Each must be an
// expression.  Top level comments are dropped.
func ParseProgram(name string, src string) ([]*lisp.LVal, error) {
	return New(name, src).ParseProgram()
}

// IsIncomplete reports whether err means more input is required.
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrIncomplete)
}

// Rest returns the source text not yet consumed.
func (p *Parser) Rest() string {
	return p.src[p.pos:]
}

// ParseProgram parses the remaining input as a program.  A first line
// starting with #! is ignored.
func (p *Parser) ParseProgram() ([]*lisp.LVal, error) {
	p.skipHashBang()
	forms := []*lisp.LVal{}
	err := p.eachTopLevel(func(v *lisp.LVal, _ int) {
		if v.Type != lisp.LComment {
			forms = append(forms, v)
		}
	})
	if err != nil {
		return nil, err
	}
	return forms, nil
}

// Chunk is a top level expression or comment of a Document.
type Chunk struct {
	Value *lisp.LVal
	// SameLine is set for a comment that follows the previous chunk on the
	// same line.
	SameLine bool
	// BlankBefore is set when an empty line separates the chunk from the
	// previous one.
	BlankBefore bool
}

// Document is a source file as written, keeping the #! line and top level
// comments which ParseProgram drops.
type Document struct {
	HashBang string
	Chunks   []Chunk
}

// ParseDocument parses src like ParseProgram but keeps top level comments
// and the #! line.
func ParseDocument(name string, src string) (*Document, error) {
	p := New(name, src)
	doc := &Document{}
	if strings.HasPrefix(src, "#!") {
		p.skipHashBang()
		doc.HashBang = strings.TrimRight(src[:p.pos], "\r")
	}
	prevEnd := -1
	err := p.eachTopLevel(func(v *lisp.LVal, start int) {
		var c Chunk
		c.Value = v
		if prevEnd >= 0 {
			gap := src[prevEnd:start]
			c.SameLine = v.Type == lisp.LComment && !strings.Contains(gap, "\n")
			c.BlankBefore = strings.Count(gap, "\n") > 1
		}
		doc.Chunks = append(doc.Chunks, c)
		prevEnd = p.pos
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Format renders the document in canonical layout.
func (doc *Document) Format() string {
	var b strings.Builder
	if doc.HashBang != "" {
		b.WriteString(doc.HashBang)
		b.WriteString("\n")
	}
	for _, c := range doc.Chunks {
		switch {
		case c.SameLine:
			out := strings.TrimSuffix(b.String(), "\n")
			b.Reset()
			b.WriteString(out)
			b.WriteString(" ")
		case c.BlankBefore:
			b.WriteString("\n")
		}
		b.WriteString(lisp.Stringify(c.Value, 0))
		b.WriteString("\n")
	}
	return b.String()
}

// eachTopLevel calls fn with each top level comment and expression and the
// offset it starts at.
func (p *Parser) eachTopLevel(fn func(v *lisp.LVal, start int)) error {
	for {
		p.skipSpace()
		if p.eof() {
			return nil
		}
		start := p.pos
		v, err := p.Parse()
		if err != nil {
			return err
		}
		if v == nil {
			c := p.src[p.pos]
			if c == ')' || c == ']' {
				return p.errorf(p.pos, "extraneous '%c'", c)
			}
			return p.errorf(p.pos, "unexpected '%c'", c)
		}
		if v.Type != lisp.LComment && v.Type != lisp.LExpr {
			return p.errorf(start, "expected an expression, got a %s instead", v.Type)
		}
		fn(v, start)
	}
}

// Parse skips whitespace and parses one value.  It returns nil without an
// error when nothing at the current position starts a value.
func (p *Parser) Parse() (*lisp.LVal, error) {
	p.skipSpace()
	if p.eof() {
		return nil, nil
	}
	// parseVariable accepts almost anything and must be last.
	for _, fn := range []func() (*lisp.LVal, error){
		p.parseComment,
		p.parseNumber,
		p.parseString,
		p.parseExpr,
		p.parseQuoted,
		p.parseVariable,
	} {
		v, err := fn()
		if v != nil || err != nil {
			return v, err
		}
	}
	return nil, nil
}

func (p *Parser) parseComment() (*lisp.LVal, error) {
	if p.peek() != ';' {
		return nil, nil
	}
	start := p.pos
	end := strings.IndexByte(p.src[start:], '\n')
	if end < 0 {
		end = len(p.src)
	} else {
		end += start
	}
	p.pos = end
	return p.located(lisp.Comment(strings.TrimSpace(p.src[start+1:end])), start), nil
}

func (p *Parser) parseNumber() (*lisp.LVal, error) {
	c := p.peek()
	if c == '-' {
		next := p.peekAt(1)
		if !isDigit(next) && next != '.' {
			return nil, nil
		}
	} else if !isDigit(c) && c != '.' {
		return nil, nil
	}
	start := p.pos
	end := start + 1
	for end < len(p.src) && isNumberChar(p.src[end], p.src[end-1]) {
		end++
	}
	x, err := lisp.ParseNumber(p.src[start:end])
	if err != nil {
		return nil, p.errorf(start, "invalid number")
	}
	p.pos = end
	return p.located(lisp.Number(x), start), nil
}

func (p *Parser) parseString() (*lisp.LVal, error) {
	if p.peek() != '"' {
		return nil, nil
	}
	start := p.pos
	for i := start + 1; i < len(p.src); i++ {
		switch p.src[i] {
		case '"':
			p.pos = i + 1
			return p.located(lisp.String(p.src[start+1:i]), start), nil
		case '\n':
			return nil, p.errorf(i, "string unended")
		}
	}
	return nil, p.errorf(len(p.src), "string unended")
}

func (p *Parser) parseExpr() (*lisp.LVal, error) {
	open := p.peek()
	if open != '(' && open != '[' {
		return nil, nil
	}
	closer := byte(')')
	if open == '[' {
		closer = ']'
	}
	start := p.pos
	p.pos++
	items := []*lisp.LVal{}
	for {
		p.skipSpace()
		if p.eof() {
			return nil, &token.LocationError{
				Err:    &MissingError{Close: closer},
				Source: p.lines.End(),
			}
		}
		if p.peek() == closer {
			p.pos++
			return p.located(lisp.Expr(items...), start), nil
		}
		v, err := p.Parse()
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, p.errorf(p.pos, "unexpected '%c'", p.peek())
		}
		items = append(items, v)
	}
}

func (p *Parser) parseQuoted() (*lisp.LVal, error) {
	if p.peek() != '\'' {
		return nil, nil
	}
	start := p.pos
	p.pos++
	v, err := p.Parse()
	if err != nil {
		return nil, err
	}
	if v == nil {
		if p.eof() {
			return nil, &token.LocationError{
				Err:    fmt.Errorf("nothing to quote: %w", ErrIncomplete),
				Source: p.lines.End(),
			}
		}
		return nil, p.errorf(p.pos, "unexpected '%c'", p.peek())
	}
	if v.Type != lisp.LExpr && v.Type != lisp.LVariable {
		// quoting anything else has no effect
		return v, nil
	}
	return p.located(lisp.Quote(v), start), nil
}

func (p *Parser) parseVariable() (*lisp.LVal, error) {
	start := p.pos
	end := start
	for end < len(p.src) && isVariableChar(p.src[end]) {
		end++
	}
	if end == start {
		return nil, nil
	}
	p.pos = end
	return p.located(lisp.Variable(p.src[start:end]), start), nil
}

func (p *Parser) skipHashBang() {
	if !strings.HasPrefix(p.src[p.pos:], "#!") {
		return
	}
	end := strings.IndexByte(p.src[p.pos:], '\n')
	if end < 0 {
		p.pos = len(p.src)
		return
	}
	p.pos += end
}

func (p *Parser) skipSpace() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *Parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *Parser) peek() byte {
	return p.peekAt(0)
}

func (p *Parser) peekAt(n int) byte {
	if p.pos+n >= len(p.src) {
		return 0
	}
	return p.src[p.pos+n]
}

func (p *Parser) located(v *lisp.LVal, pos int) *lisp.LVal {
	v.Source = p.lines.At(pos)
	return v
}

func (p *Parser) errorf(pos int, format string, v ...interface{}) error {
	return &token.LocationError{
		Err:    fmt.Errorf(format, v...),
		Source: p.lines.At(pos),
	}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isAlnum(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// isNumberChar reports whether c continues a number token.  A sign may
// follow an exponent marker.
func isNumberChar(c, prev byte) bool {
	switch {
	case isAlnum(c), c == '.', c == '-':
		return true
	case c == '+':
		return prev == 'e' || prev == 'E' || prev == 'p' || prev == 'P'
	}
	return false
}

func isVariableChar(c byte) bool {
	return !isSpace(c) && c != '(' && c != ')' && c != '[' && c != ']'
}
