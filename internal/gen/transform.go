package gen

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/leapstack-labs/namedgen/pkg/attr"
	"github.com/leapstack-labs/namedgen/pkg/matcher"
	"github.com/leapstack-labs/namedgen/pkg/token"
)

// Registry maps a function name to its matcher, scoped to one package
// directory so invocations work across files.
type Registry map[string]*matcher.Matcher

// edit is a byte-range replacement on the original source.
type edit struct {
	start, end int
	text       string
}

// Transform produces the generated Go source for the file: annotated
// declarations renamed, directives stripped, invocations expanded,
// header prepended, output formatted with goimports. A file that
// produced any diagnostic yields no output.
func (f *File) Transform(reg Registry, decls []*Decl, header string) ([]byte, []Diagnostic) {
	var edits []edit
	var diags []Diagnostic

	for _, d := range decls {
		if d.File != f {
			continue
		}
		start := f.tf.Offset(d.Fn.Name.Pos())
		end := f.tf.Offset(d.Fn.Name.End())
		edits = append(edits, edit{start: start, end: end, text: d.Matcher.Renamed()})
	}

	for _, dir := range f.dirs {
		start, end := f.stripSpan(dir)
		edits = append(edits, edit{start: start, end: end})
	}

	for _, inv := range f.roots {
		text, ok := f.expand(inv, reg, &diags)
		if !ok {
			continue
		}
		edits = append(edits, edit{start: inv.start, end: inv.end, text: text})
	}
	if len(diags) > 0 {
		return nil, diags
	}

	out := apply(f.Src, edits)
	out = append([]byte(header), out...)

	formatted, err := imports.Process(f.Path, out, nil)
	if err != nil {
		return nil, []Diagnostic{{
			Pos:     token.Position{Filename: f.Path, Line: 1, Column: 1},
			Message: fmt.Sprintf("internal error: generated code does not parse: %v", err),
		}}
	}
	return formatted, nil
}

// expand resolves one invocation to its positional call text. Nested
// invocations in the argument list are expanded first; if any of them
// failed, the outer expansion is skipped so the author sees the inner
// root cause once instead of a knock-on parse error.
func (f *File) expand(inv *invocation, reg Registry, diags *[]Diagnostic) (string, bool) {
	inner, ok := f.expandInner(inv, reg, diags)
	if !ok {
		return "", false
	}

	m, known := reg[inv.name]
	if !known {
		*diags = append(*diags, Diagnostic{
			Pos:     f.pos(inv.start),
			Message: fmt.Sprintf("`%s!` does not refer to a function annotated with %s in this package", inv.name, DirectivePrefix),
		})
		return "", false
	}

	pairs, err := attr.ParsePairs(inner, f.pos(inv.innerStart))
	if err != nil {
		*diags = append(*diags, diagnose(err, f.pos(inv.innerStart)))
		return "", false
	}
	args, err := m.Expand(pairs, f.pos(inv.start))
	if err != nil {
		*diags = append(*diags, diagnose(err, f.pos(inv.start)))
		return "", false
	}
	return m.Renamed() + "(" + strings.Join(args, ", ") + ")", true
}

// expandInner returns the invocation's argument text with all child
// invocations already replaced by their expansions.
func (f *File) expandInner(inv *invocation, reg Registry, diags *[]Diagnostic) (string, bool) {
	if len(inv.children) == 0 {
		return string(f.Src[inv.innerStart:inv.innerEnd]), true
	}
	var edits []edit
	for _, child := range inv.children {
		text, ok := f.expand(child, reg, diags)
		if !ok {
			return "", false
		}
		edits = append(edits, edit{start: child.start - inv.innerStart, end: child.end - inv.innerStart, text: text})
	}
	return string(apply(f.Src[inv.innerStart:inv.innerEnd], edits)), true
}

// stripSpan widens a directive's span to its whole line when the
// directive is alone on it, so no blank line is left behind.
func (f *File) stripSpan(dir *directive) (int, int) {
	start, end := dir.start, dir.end
	lineStart := start
	for lineStart > 0 && f.Src[lineStart-1] != '\n' {
		lineStart--
	}
	for _, c := range f.Src[lineStart:start] {
		if c != ' ' && c != '\t' {
			return start, end
		}
	}
	if end < len(f.Src) && f.Src[end] == '\n' {
		return lineStart, end + 1
	}
	return start, end
}

// apply splices edits into src. Edits must not overlap.
func apply(src []byte, edits []edit) []byte {
	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })
	var out []byte
	last := 0
	for _, e := range edits {
		out = append(out, src[last:e.start]...)
		out = append(out, e.text...)
		last = e.end
	}
	out = append(out, src[last:]...)
	return out
}
