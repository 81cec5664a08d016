package gen

import (
	"fmt"
	"go/scanner"
	gotoken "go/token"
	"strings"

	"github.com/leapstack-labs/namedgen/pkg/token"
)

// DirectivePrefix marks a function annotation comment. The payload
// after the colon is handed to the attribute parser.
const DirectivePrefix = "//named:"

// directive is one //named: comment found in a source file.
type directive struct {
	payload    string
	start, end int // byte span of the whole comment
	payloadOff int // offset of the first payload byte
	consumed   bool
}

// invocation is one name!(...) call-site macro. Invocations nest;
// children are the invocations contained in this one's argument list.
type invocation struct {
	name                 string
	start, end           int // ident start to one past the closing paren
	innerStart, innerEnd int // between the parentheses
	children             []*invocation
}

// tkn is a scanned token with its byte span.
type tkn struct {
	tok gotoken.Token
	lit string
	off int
	end int
}

// scanSource lexically scans a .ngo file, collecting //named:
// directives and call-site invocations. An invocation is exactly an
// identifier immediately followed by `!` and `(`, with no intervening
// space; everything else, including `!x` and `a != b`, is left alone.
func scanSource(filename string, src []byte) ([]*directive, []*invocation, []Diagnostic) {
	fset := gotoken.NewFileSet()
	file := fset.AddFile(filename, fset.Base(), len(src))

	var diags []Diagnostic
	var s scanner.Scanner
	s.Init(file, src, func(pos gotoken.Position, msg string) {
		diags = append(diags, Diagnostic{Pos: token.FromGo(pos), Message: msg})
	}, scanner.ScanComments)

	var toks []tkn
	for {
		pos, tok, lit := s.Scan()
		if tok == gotoken.EOF {
			break
		}
		off := file.Offset(pos)
		width := len(lit)
		if width == 0 {
			width = len(tok.String())
		}
		if tok == gotoken.SEMICOLON && lit == "\n" {
			width = 0 // inserted, occupies no source bytes
		}
		toks = append(toks, tkn{tok: tok, lit: lit, off: off, end: off + width})
	}
	if len(diags) > 0 {
		return nil, nil, diags
	}

	var dirs []*directive
	var invs []*invocation
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.tok == gotoken.COMMENT && strings.HasPrefix(t.lit, DirectivePrefix) {
			dirs = append(dirs, &directive{
				payload:    t.lit[len(DirectivePrefix):],
				start:      t.off,
				end:        t.end,
				payloadOff: t.off + len(DirectivePrefix),
			})
			continue
		}
		if t.tok != gotoken.IDENT || i+2 >= len(toks) {
			continue
		}
		bang, open := toks[i+1], toks[i+2]
		if bang.tok != gotoken.NOT || bang.off != t.end || open.tok != gotoken.LPAREN || open.off != bang.end {
			continue
		}
		if i > 0 && toks[i-1].tok == gotoken.PERIOD && toks[i-1].end == t.off {
			diags = append(diags, Diagnostic{
				Pos:     position(file, t.off),
				Message: fmt.Sprintf("cannot invoke `%s!` through a selector; named-argument functions are package-local", t.lit),
			})
			continue
		}

		depth := 0
		closeEnd := -1
		innerEnd := -1
		for j := i + 2; j < len(toks); j++ {
			switch toks[j].tok {
			case gotoken.LPAREN:
				depth++
			case gotoken.RPAREN:
				depth--
				if depth == 0 {
					closeEnd = toks[j].end
					innerEnd = toks[j].off
				}
			}
			if closeEnd >= 0 {
				break
			}
		}
		if closeEnd < 0 {
			diags = append(diags, Diagnostic{
				Pos:     position(file, open.off),
				Message: fmt.Sprintf("unterminated `%s!` invocation: missing closing `)`", t.lit),
			})
			continue
		}
		invs = append(invs, &invocation{
			name:       t.lit,
			start:      t.off,
			end:        closeEnd,
			innerStart: open.end,
			innerEnd:   innerEnd,
		})
	}
	if len(diags) > 0 {
		return nil, nil, diags
	}
	return dirs, nest(invs), nil
}

// nest builds the containment tree over invocations, which arrive
// sorted by start offset. The returned slice holds only the outermost
// ones.
func nest(invs []*invocation) []*invocation {
	var roots []*invocation
	var stack []*invocation
	for _, inv := range invs {
		for len(stack) > 0 && inv.start >= stack[len(stack)-1].end {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, inv)
		} else {
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, inv)
		}
		stack = append(stack, inv)
	}
	return roots
}

// mask overlays every outermost invocation with a raw string literal of
// identical byte length (newlines kept in place) so the file parses as
// plain Go with all positions intact.
func mask(src []byte, roots []*invocation) []byte {
	out := make([]byte, len(src))
	copy(out, src)
	for _, inv := range roots {
		out[inv.start] = '`'
		for i := inv.start + 1; i < inv.end-1; i++ {
			if out[i] != '\n' {
				out[i] = ' '
			}
		}
		out[inv.end-1] = '`'
	}
	return out
}

func position(file *gotoken.File, off int) token.Position {
	return token.FromGo(file.Position(file.Pos(off)))
}
