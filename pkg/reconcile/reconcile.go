// Package reconcile cross-checks a function's declared parameters
// against the defaults declared in its //named: directive and produces
// the per-parameter table that drives matcher generation.
package reconcile

import (
	"fmt"
	"go/ast"
	gotoken "go/token"
	"sort"
	"strings"

	"github.com/leapstack-labs/namedgen/pkg/attr"
	"github.com/leapstack-labs/namedgen/pkg/token"
)

// Param is one entry of the resolved argument table, in the function's
// declaration order.
type Param struct {
	Name       string
	Pos        token.Position
	Default    string // expression text, valid only if HasDefault
	HasDefault bool
}

// Error is a reconciliation failure. Pos points at the offending
// parameter or default declaration.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Reconcile builds the resolved argument table for fn. directivePos is
// the position of the //named: directive and anchors errors that cannot
// be pinned to a single declaration.
//
// Parameter extraction is strict: methods, unnamed or blank parameters,
// variadic parameters and type-parameterized functions are rejected
// outright, since none of them can be addressed by name at a call site.
func Reconcile(fset *gotoken.FileSet, fn *ast.FuncDecl, attrs *attr.Attributes, directivePos token.Position) ([]Param, error) {
	params, err := extractParams(fset, fn)
	if err != nil {
		return nil, err
	}

	declared := make(map[string]bool, len(params))
	for _, p := range params {
		declared[p.Name] = true
	}

	// Extras: default names the function has no parameter for. Sorted
	// iteration keeps the message stable across runs.
	var extras []string
	for _, name := range attrs.Names() {
		if !declared[name] {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	if len(extras) > 0 {
		return nil, extrasError(extras, params, attrs, directivePos)
	}

	for i := range params {
		if d, ok := attrs.Lookup(params[i].Name); ok {
			params[i].Default = d.Value
			params[i].HasDefault = true
		}
	}
	return params, nil
}

func extractParams(fset *gotoken.FileSet, fn *ast.FuncDecl) ([]Param, error) {
	if fn.Recv != nil {
		return nil, &Error{
			Pos:     token.FromGo(fset.Position(fn.Recv.Pos())),
			Message: fmt.Sprintf("`%s` is a method; named-argument generation does not support receiver parameters", fn.Name.Name),
		}
	}
	if fn.Type.TypeParams != nil && len(fn.Type.TypeParams.List) > 0 {
		return nil, &Error{
			Pos:     token.FromGo(fset.Position(fn.Type.TypeParams.Pos())),
			Message: fmt.Sprintf("`%s` has type parameters; named-argument generation does not support generic functions", fn.Name.Name),
		}
	}

	var params []Param
	for _, field := range fn.Type.Params.List {
		if _, variadic := field.Type.(*ast.Ellipsis); variadic {
			return nil, &Error{
				Pos:     token.FromGo(fset.Position(field.Pos())),
				Message: "variadic parameters cannot be addressed by name",
			}
		}
		if len(field.Names) == 0 {
			return nil, &Error{
				Pos:     token.FromGo(fset.Position(field.Pos())),
				Message: "all parameters must be named",
			}
		}
		for _, name := range field.Names {
			if name.Name == "_" {
				return nil, &Error{
					Pos:     token.FromGo(fset.Position(name.Pos())),
					Message: "blank parameters cannot be addressed by name",
				}
			}
			params = append(params, Param{
				Name: name.Name,
				Pos:  token.FromGo(fset.Position(name.Pos())),
			})
		}
	}
	return params, nil
}

// extrasError formats the unrecognized-default diagnostic. A single
// extra is reported at its own declaration; several are reported at the
// directive, listing all of them.
func extrasError(extras []string, params []Param, attrs *attr.Attributes, directivePos token.Position) *Error {
	declared := make([]string, len(params))
	for i, p := range params {
		declared[i] = p.Name
	}

	suffix := "s"
	pos := directivePos
	extrasStr := "[" + strings.Join(extras, ", ") + "]"
	if len(extras) == 1 {
		suffix = ""
		extrasStr = "`" + extras[0] + "`"
		if d, ok := attrs.Lookup(extras[0]); ok {
			pos = d.Pos
		}
	}
	paramSuffix := "s"
	if len(declared) == 1 {
		paramSuffix = ""
	}
	return &Error{
		Pos: pos,
		Message: fmt.Sprintf(
			"unrecognized argument%s - attribute had argument%s %s but function takes argument%s: [%s]",
			suffix, suffix, extrasStr, paramSuffix, strings.Join(declared, ", "),
		),
	}
}
