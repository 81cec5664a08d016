// Package gen compiles .ngo sources to ordinary Go files: annotated
// functions are renamed to their derived private names and every
// name!(...) invocation is replaced by a direct positional call,
// resolved through the matcher for that function. All matching and
// defaulting happens here, at generation time; the emitted code has no
// runtime component.
package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	gotoken "go/token"
	"strings"

	"github.com/leapstack-labs/namedgen/pkg/attr"
	"github.com/leapstack-labs/namedgen/pkg/matcher"
	"github.com/leapstack-labs/namedgen/pkg/reconcile"
	"github.com/leapstack-labs/namedgen/pkg/token"
)

// SourceExt is the extension of input files.
const SourceExt = ".ngo"

// Diagnostic is a generation-time error with a source position.
type Diagnostic struct {
	Pos     token.Position
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Pos, d.Message)
}

// diagnose converts the known positioned error types into a Diagnostic,
// falling back to pos for anything else.
func diagnose(err error, pos token.Position) Diagnostic {
	switch e := err.(type) {
	case *attr.ParseError:
		return Diagnostic{Pos: e.Pos, Message: e.Message}
	case *reconcile.Error:
		return Diagnostic{Pos: e.Pos, Message: e.Message}
	case *matcher.ExpandError:
		return Diagnostic{Pos: e.Pos, Message: e.Message}
	default:
		return Diagnostic{Pos: pos, Message: err.Error()}
	}
}

// Decl is one annotated function declaration.
type Decl struct {
	File    *File
	Fn      *ast.FuncDecl
	Matcher *matcher.Matcher
}

// File is one parsed .ngo source file.
type File struct {
	Path string
	Src  []byte

	dirs  []*directive
	roots []*invocation
	ast   *ast.File
	tf    *gotoken.File
	fset  *gotoken.FileSet
}

// ParseFile scans and parses a .ngo source. Invocations are masked
// before the Go parse, so genuine syntax errors surface at their true
// positions while call-site macros pass through untouched.
func ParseFile(path string, src []byte) (*File, []Diagnostic) {
	dirs, roots, diags := scanSource(path, src)
	if len(diags) > 0 {
		return nil, diags
	}

	fset := gotoken.NewFileSet()
	astFile, err := parser.ParseFile(fset, path, mask(src, roots), parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		if list, ok := err.(scanner.ErrorList); ok {
			for _, e := range list {
				diags = append(diags, Diagnostic{Pos: token.FromGo(e.Pos), Message: e.Msg})
			}
			return nil, diags
		}
		return nil, []Diagnostic{{Pos: token.Position{Filename: path, Line: 1, Column: 1}, Message: err.Error()}}
	}

	var tf *gotoken.File
	fset.Iterate(func(f *gotoken.File) bool {
		tf = f
		return false
	})

	return &File{Path: path, Src: src, dirs: dirs, roots: roots, ast: astFile, tf: tf, fset: fset}, nil
}

// pos maps a byte offset in the file to a position.
func (f *File) pos(off int) token.Position {
	return position(f.tf, off)
}

// Decls collects the annotated function declarations of the file and
// builds a matcher for each. Declaration-time failures are reported
// here, once, and additionally poison the matcher so that every call
// site of the broken function repeats the root cause in context.
func (f *File) Decls() ([]*Decl, []Diagnostic) {
	var decls []*Decl
	var diags []Diagnostic

	for _, d := range f.ast.Decls {
		fn, ok := d.(*ast.FuncDecl)
		if !ok || fn.Doc == nil {
			continue
		}
		dir := f.directiveFor(fn)
		if dir == nil {
			continue
		}
		dir.consumed = true

		name := fn.Name.Name
		pos := f.pos(f.tf.Offset(fn.Name.Pos()))

		m, err := f.buildMatcher(fn, dir)
		if err != nil {
			diags = append(diags, diagnose(err, pos))
			m = matcher.Poisoned(name, pos, err)
		}
		decls = append(decls, &Decl{File: f, Fn: fn, Matcher: m})
	}

	// A directive that never attached to a function is a mistake the
	// author should hear about rather than a silently dead annotation.
	for _, dir := range f.dirs {
		if !dir.consumed {
			diags = append(diags, Diagnostic{
				Pos:     f.pos(dir.start),
				Message: "//named: directive is not attached to a function declaration",
			})
		}
	}
	return decls, diags
}

func (f *File) buildMatcher(fn *ast.FuncDecl, dir *directive) (*matcher.Matcher, error) {
	attrs, err := attr.Parse(dir.payload, f.pos(dir.payloadOff))
	if err != nil {
		return nil, err
	}
	table, err := reconcile.Reconcile(f.fset, fn, attrs, f.pos(dir.start))
	if err != nil {
		return nil, err
	}
	name := fn.Name.Name
	return matcher.New(name, f.pos(f.tf.Offset(fn.Name.Pos())), table), nil
}

// directiveFor finds the //named: directive in the declaration's doc
// comment group, if any.
func (f *File) directiveFor(fn *ast.FuncDecl) *directive {
	for _, c := range fn.Doc.List {
		if !strings.HasPrefix(c.Text, DirectivePrefix) {
			continue
		}
		off := f.tf.Offset(c.Pos())
		for _, dir := range f.dirs {
			if dir.start == off {
				return dir
			}
		}
	}
	return nil
}
