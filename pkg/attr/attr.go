// Package attr parses the payload of a //named: directive into an
// ordered set of default declarations.
//
// The grammar is a single fixed form: the keyword "defaults" followed by
// a parenthesized, comma-separated list of name = expression pairs.
// Values may be any Go expression; whether they are usable as defaults
// is decided by the Go compiler when it compiles the generated file,
// not here.
package attr

import (
	"fmt"
	"go/parser"
	"go/scanner"
	gotoken "go/token"
	"strings"

	"github.com/leapstack-labs/namedgen/pkg/token"
)

// Keyword introduces the default list inside a directive payload.
const Keyword = "defaults"

// Pair is a single name = expression element, either from a directive
// payload or from a call-site invocation.
type Pair struct {
	Name  string
	Pos   token.Position // position of the name
	Value string         // raw expression text, trimmed
}

// Default is the declared fallback expression for one parameter.
type Default struct {
	Pos   token.Position // position of the name in the directive
	Value string
}

// Attributes is the parsed directive payload: a name -> default mapping
// that preserves first-seen insertion order and overwrites on duplicate
// names (last write wins).
type Attributes struct {
	names  []string
	byName map[string]Default
}

// ParseError reports a malformed directive payload or pair list.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Names returns the declared names in insertion order.
func (a *Attributes) Names() []string {
	return a.names
}

// Len returns the number of distinct declared names.
func (a *Attributes) Len() int {
	return len(a.names)
}

// Lookup returns the default declared for name, if any.
func (a *Attributes) Lookup(name string) (Default, bool) {
	d, ok := a.byName[name]
	return d, ok
}

func (a *Attributes) insert(p Pair) {
	if _, seen := a.byName[p.Name]; !seen {
		a.names = append(a.names, p.Name)
	}
	a.byName[p.Name] = Default{Pos: p.Pos, Value: p.Value}
}

// Parse parses a directive payload such as `defaults(a = false, b = 2)`.
// base is the position of the first payload byte in its source file and
// anchors every reported position. An empty payload declares no
// defaults.
func Parse(payload string, base token.Position) (*Attributes, error) {
	attrs := &Attributes{byName: make(map[string]Default)}
	if strings.TrimSpace(payload) == "" {
		return attrs, nil
	}

	toks, err := tokenize(payload, base)
	if err != nil {
		return nil, err
	}
	if toks[0].tok != gotoken.IDENT || toks[0].lit != Keyword {
		return nil, &ParseError{
			Pos:     posAt(payload, base, toks[0].off),
			Message: fmt.Sprintf("unexpected token %s, expected `%s`", describe(toks[0]), Keyword),
		}
	}
	if len(toks) < 2 || toks[1].tok != gotoken.LPAREN {
		pos := posAt(payload, base, len(payload))
		if len(toks) >= 2 {
			pos = posAt(payload, base, toks[1].off)
		}
		return nil, &ParseError{Pos: pos, Message: fmt.Sprintf("unexpected token after `%s`, expected `(`", Keyword)}
	}

	// Find the parenthesis matching toks[1].
	depth := 0
	closeIdx := -1
	for i := 1; i < len(toks); i++ {
		switch toks[i].tok {
		case gotoken.LPAREN, gotoken.LBRACK, gotoken.LBRACE:
			depth++
		case gotoken.RPAREN, gotoken.RBRACK, gotoken.RBRACE:
			depth--
			if depth == 0 {
				if toks[i].tok != gotoken.RPAREN {
					return nil, &ParseError{
						Pos:     posAt(payload, base, toks[i].off),
						Message: fmt.Sprintf("unexpected token %s, expected `)`", describe(toks[i])),
					}
				}
				closeIdx = i
			}
		}
		if closeIdx >= 0 {
			break
		}
	}
	if closeIdx < 0 {
		return nil, &ParseError{Pos: posAt(payload, base, len(payload)), Message: "missing closing `)`"}
	}
	for _, extra := range toks[closeIdx+1:] {
		if implicitSemi(extra) {
			continue
		}
		return nil, &ParseError{
			Pos:     posAt(payload, base, extra.off),
			Message: fmt.Sprintf("unexpected token %s after `)`", describe(extra)),
		}
	}

	inner := payload[toks[1].off+1 : toks[closeIdx].off]
	pairs, err := ParsePairs(inner, posAt(payload, base, toks[1].off+1))
	if err != nil {
		return nil, err
	}
	for _, p := range pairs {
		attrs.insert(p)
	}
	return attrs, nil
}

// ParsePairs parses a comma-separated list of name = expression pairs.
// Commas nested inside parentheses, brackets, braces or literals do not
// split pairs. A trailing comma is permitted. base anchors positions as
// in Parse.
func ParsePairs(src string, base token.Position) ([]Pair, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}
	toks, err := tokenize(src, base)
	if err != nil {
		return nil, err
	}

	var pairs []Pair
	depth := 0
	segStart := 0 // token index of the current segment
	flush := func(start, end int, tail bool) error {
		seg := toks[start:end]
		// Drop artifacts of automatic semicolon insertion.
		for len(seg) > 0 && implicitSemi(seg[0]) {
			seg = seg[1:]
		}
		for len(seg) > 0 && implicitSemi(seg[len(seg)-1]) {
			seg = seg[:len(seg)-1]
		}
		if len(seg) == 0 {
			if tail {
				return nil // trailing comma
			}
			return &ParseError{Pos: posAt(src, base, toks[start].off), Message: "empty argument"}
		}
		p, err := parsePair(src, base, seg)
		if err != nil {
			return err
		}
		pairs = append(pairs, p)
		return nil
	}
	for i, t := range toks {
		switch t.tok {
		case gotoken.LPAREN, gotoken.LBRACK, gotoken.LBRACE:
			depth++
		case gotoken.RPAREN, gotoken.RBRACK, gotoken.RBRACE:
			depth--
		case gotoken.COMMA:
			if depth == 0 {
				if err := flush(segStart, i, false); err != nil {
					return nil, err
				}
				segStart = i + 1
			}
		}
	}
	if err := flush(segStart, len(toks), true); err != nil {
		return nil, err
	}
	return pairs, nil
}

// parsePair parses one `name = expression` segment.
func parsePair(src string, base token.Position, seg []scannedToken) (Pair, error) {
	name := seg[0]
	if name.tok != gotoken.IDENT {
		return Pair{}, &ParseError{
			Pos:     posAt(src, base, name.off),
			Message: fmt.Sprintf("unexpected token %s, expected argument name", describe(name)),
		}
	}
	if len(seg) < 2 || seg[1].tok != gotoken.ASSIGN {
		pos := posAt(src, base, name.off+len(name.lit))
		if len(seg) >= 2 {
			pos = posAt(src, base, seg[1].off)
		}
		return Pair{}, &ParseError{Pos: pos, Message: fmt.Sprintf("expected `=` after argument name `%s`", name.lit)}
	}
	valueStart := seg[1].off + 1
	valueEnd := len(src)
	if last := seg[len(seg)-1]; last.end > 0 {
		valueEnd = last.end
	}
	value := strings.TrimSpace(src[valueStart:valueEnd])
	if value == "" {
		return Pair{}, &ParseError{Pos: posAt(src, base, seg[1].off), Message: fmt.Sprintf("missing value for argument `%s`", name.lit)}
	}
	if _, err := parser.ParseExpr(value); err != nil {
		return Pair{}, &ParseError{
			Pos:     posAt(src, base, valueStart),
			Message: fmt.Sprintf("invalid expression for argument `%s`", name.lit),
		}
	}
	return Pair{Name: name.lit, Pos: posAt(src, base, name.off), Value: value}, nil
}

// scannedToken is one token of a payload with byte offsets into it.
type scannedToken struct {
	tok gotoken.Token
	lit string
	off int
	end int // offset one past the token, 0 for implicit tokens
}

// implicitSemi reports a semicolon inserted by the scanner at a newline
// or at EOF, as opposed to one the user wrote.
func implicitSemi(t scannedToken) bool {
	return t.tok == gotoken.SEMICOLON && t.lit == "\n"
}

func describe(t scannedToken) string {
	if t.lit != "" && t.tok != gotoken.SEMICOLON {
		return fmt.Sprintf("`%s`", t.lit)
	}
	return fmt.Sprintf("`%s`", t.tok.String())
}

// tokenize scans src into tokens, failing on lexical errors such as
// unterminated literals.
func tokenize(src string, base token.Position) ([]scannedToken, error) {
	fset := gotoken.NewFileSet()
	file := fset.AddFile(base.Filename, fset.Base(), len(src))

	var firstErr *ParseError
	var s scanner.Scanner
	s.Init(file, []byte(src), func(pos gotoken.Position, msg string) {
		if firstErr == nil {
			firstErr = &ParseError{Pos: posAt(src, base, pos.Offset), Message: msg}
		}
	}, 0)

	var toks []scannedToken
	for {
		pos, tok, lit := s.Scan()
		if firstErr != nil {
			return nil, firstErr
		}
		if tok == gotoken.EOF {
			break
		}
		off := file.Offset(pos)
		end := 0
		if !(tok == gotoken.SEMICOLON && lit == "\n") {
			width := len(lit)
			if width == 0 {
				width = len(tok.String())
			}
			end = off + width
		}
		toks = append(toks, scannedToken{tok: tok, lit: lit, off: off, end: end})
	}
	if len(toks) == 0 {
		return nil, &ParseError{Pos: base, Message: "empty payload"}
	}
	return toks, nil
}

// posAt maps a byte offset within src to a file position, using base as
// the position of src's first byte.
func posAt(src string, base token.Position, off int) token.Position {
	if off > len(src) {
		off = len(src)
	}
	p := base
	p.Offset = base.Offset + off
	for _, c := range []byte(src[:off]) {
		if c == '\n' {
			p.Line++
			p.Column = 1
		} else {
			p.Column++
		}
	}
	return p
}
