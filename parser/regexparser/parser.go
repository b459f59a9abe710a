// Copyright © 2024 The schym authors

// Package regexparser provides a schym reader built from parser
// combinators.  It accepts the same language as rdparser.
//
//	expr     := <comment> | <number> | <string> | <list> | <quoted> | <variable>
//	comment  := /;[^\n]*/
//	number   := /-?[0-9.]([eEpP][+]|[0-9A-Za-z.-])*/
//	string   := '"' /[^"\n]*/ '"'
//	list     := '(' <expr>* ')' | '[' <expr>* ']'
//	quoted   := "'" <expr>
//	variable := /[^\s()\[\]]+/
package regexparser

import (
	"fmt"
	"io"
	"strings"

	parsec "github.com/prataprc/goparsec"
	"github.com/schymlang/schym/lisp"
	"github.com/schymlang/schym/parser/rdparser"
	"github.com/schymlang/schym/parser/token"
)

// NewReader returns a lisp.Reader.
func NewReader() lisp.Reader {
	return &parsecReader{}
}

type parsecReader struct{}

func (p *parsecReader) Read(name string, r io.Reader) ([]*lisp.LVal, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseProgram(name, b)
}

const (
	nodeInvalid nodeType = iota
	nodeTerm
	nodeList
	nodeVector
	nodeQuoted
	nodeListOUnmatched
	nodeVectorOUnmatched
)

var nodeTypeStrings = []string{
	nodeInvalid:          "INVALID",
	nodeTerm:             "TERM",
	nodeList:             "LIST",
	nodeVector:           "VECTOR",
	nodeQuoted:           "QUOTED",
	nodeListOUnmatched:   "LISTOPENUNMATCHED",
	nodeVectorOUnmatched: "VECTOROPENUNMATCHED",
}

type nodeType uint

func (t nodeType) String() string {
	if int(t) >= len(nodeTypeStrings) {
		return "INVALID"
	}
	return nodeTypeStrings[t]
}

// ParseProgram parses the top level forms of text.  Every form must be an
// expression and top level comments are dropped.
func ParseProgram(name string, text []byte) ([]*lisp.LVal, error) {
	b := &builder{lines: token.NewLines(name, string(text))}
	parser := b.newParsecParser()
	s := parsec.NewScanner(text)
	forms := []*lisp.LVal{}
	var root parsec.ParsecNode
	for {
		start := nextCursor(s)
		root, s = parser(s)
		if root == nil {
			break
		}
		v, err := b.getLVal(root)
		if err != nil {
			return nil, err
		}
		if v.Type == lisp.LComment {
			continue
		}
		if v.Type != lisp.LExpr {
			return nil, b.errorf(start, "expected an expression, got a %s instead", v.Type)
		}
		forms = append(forms, v)
	}
	_, s = s.SkipWS()
	if !s.Endof() {
		pos := s.GetCursor()
		c := text[pos]
		if c == ')' || c == ']' {
			return nil, b.errorf(pos, "extraneous '%c'", c)
		}
		return nil, b.errorf(pos, "unexpected '%c'", c)
	}
	return forms, nil
}

// nextCursor returns the offset of the next non-whitespace byte.
func nextCursor(s parsec.Scanner) int {
	_, ws := s.Clone().SkipWS()
	return ws.GetCursor()
}

// builder turns parsec nodes into lisp values located in one source text.
type builder struct {
	lines *token.Lines
}

func (b *builder) newParsecParser() parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	openB := parsec.Atom("[", "OPENB")
	closeB := parsec.Atom("]", "CLOSEB")
	q := parsec.Atom("'", "QUOTE")
	comment := parsec.Token(`;[^\n]*`, "COMMENT")
	number := parsec.Token(`-?[0-9.](?:[eEpP][+]|[0-9A-Za-z.\-])*`, "NUMBER")
	str := parsec.Token(`"[^"\n]*"`, "STRING")
	badString := parsec.Token(`"[^"\n]*`, "BADSTRING")
	variable := parsec.Token(`[^\s()\[\]]+`, "VARIABLE")
	term := func(p parsec.Parser) parsec.Parser {
		return parsec.OrdChoice(b.astNode(nodeTerm), p)
	}

	var expr parsec.Parser // forward declaration allows for recursive parsing
	exprList := parsec.Kleene(nil, &expr)
	list := parsec.And(b.astNode(nodeList), openP, exprList, closeP)
	vector := parsec.And(b.astNode(nodeVector), openB, exprList, closeB)
	quoted := parsec.And(b.astNode(nodeQuoted), q, &expr)
	listOUnmatched := parsec.And(b.astNode(nodeListOUnmatched), openP, exprList, parsec.End())
	vectorOUnmatched := parsec.And(b.astNode(nodeVectorOUnmatched), openB, exprList, parsec.End())
	expr = parsec.OrdChoice(nil,
		term(comment),
		term(number),
		term(str),
		term(badString),
		list,
		vector,
		quoted,
		// variable swallows almost anything, including a quote mark
		term(variable),
		// Error matching cases come last because they have the lowest
		// precedence.
		listOUnmatched,
		vectorOUnmatched,
	)
	return expr
}

func (b *builder) astNode(t nodeType) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		return b.newAST(t, nodes)
	}
}

// newAST never returns nil because a nil node would make the enclosing
// combinator fail to match.
func (b *builder) newAST(typ nodeType, nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes, ok := cleanParsecNodeList(nodes)
	if !ok {
		// There is an error in the first position.
		return nodes[0]
	}
	switch typ {
	case nodeTerm:
		term, ok := nodes[0].(*parsec.Terminal)
		if !ok {
			return fmt.Errorf("unexpected node %T", nodes[0])
		}
		return b.term(term)
	case nodeList, nodeVector:
		open := nodes[0].(*parsec.Terminal)
		items := make([]*lisp.LVal, 0, len(nodes))
		for _, c := range nodes[1:] {
			if v, ok := c.(*lisp.LVal); ok {
				items = append(items, v)
			}
		}
		return b.located(lisp.Expr(items...), open.Position)
	case nodeQuoted:
		mark := nodes[0].(*parsec.Terminal)
		if len(nodes) < 2 {
			return b.errorf(mark.Position, "nothing to quote")
		}
		inner, ok := nodes[1].(*lisp.LVal)
		if !ok {
			return b.errorf(mark.Position, "nothing to quote")
		}
		if inner.Type != lisp.LExpr && inner.Type != lisp.LVariable {
			return inner
		}
		return b.located(lisp.Quote(inner), mark.Position)
	case nodeListOUnmatched:
		return b.missing(')')
	case nodeVectorOUnmatched:
		return b.missing(']')
	default:
		panic(fmt.Sprintf("unknown nodeType: %s (%d)", typ, typ))
	}
}

func (b *builder) term(term *parsec.Terminal) parsec.ParsecNode {
	switch term.Name {
	case "COMMENT":
		text := strings.TrimSpace(strings.TrimPrefix(term.Value, ";"))
		return b.located(lisp.Comment(text), term.Position)
	case "NUMBER":
		x, err := lisp.ParseNumber(term.Value)
		if err != nil {
			return b.errorf(term.Position, "invalid number")
		}
		return b.located(lisp.Number(x), term.Position)
	case "STRING":
		return b.located(lisp.String(term.Value[1:len(term.Value)-1]), term.Position)
	case "BADSTRING":
		return b.errorf(term.Position+len(term.Value), "string unended")
	case "VARIABLE":
		return b.located(lisp.Variable(term.Value), term.Position)
	}
	return b.errorf(term.Position, "unexpected token %s", term.Name)
}

func (b *builder) getLVal(root parsec.ParsecNode) (*lisp.LVal, error) {
	nodes, ok := cleanParsecNodeList([]parsec.ParsecNode{root})
	if !ok {
		return nil, nodes[0].(error)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no value parsed")
	}
	v, ok := nodes[0].(*lisp.LVal)
	if !ok {
		return nil, fmt.Errorf("unexpected node %T", nodes[0])
	}
	return v, nil
}

func (b *builder) located(v *lisp.LVal, pos int) *lisp.LVal {
	v.Source = b.lines.At(pos)
	return v
}

func (b *builder) missing(closer byte) error {
	return &token.LocationError{
		Err:    &rdparser.MissingError{Close: closer},
		Source: b.lines.End(),
	}
}

func (b *builder) errorf(pos int, format string, v ...interface{}) error {
	return &token.LocationError{
		Err:    fmt.Errorf(format, v...),
		Source: b.lines.At(pos),
	}
}

// cleanParsecNodeList flattens nested node lists.  When an error is found it
// is returned alone with false.
func cleanParsecNodeList(lis []parsec.ParsecNode) ([]parsec.ParsecNode, bool) {
	var nodes []parsec.ParsecNode
	for _, n := range lis {
		switch node := n.(type) {
		case error:
			return []parsec.ParsecNode{node}, false
		case []parsec.ParsecNode:
			clean, ok := cleanParsecNodeList(node)
			if !ok {
				return clean, false
			}
			nodes = append(nodes, clean...)
		case nil:
		default:
			nodes = append(nodes, node)
		}
	}
	return nodes, true
}
