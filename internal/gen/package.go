package gen

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultSuffix is appended to the base name of generated files:
// queries.ngo compiles to queries_named.go.
const DefaultSuffix = "_named"

// Options configures a generation run.
type Options struct {
	Suffix string // generated file suffix, defaults to DefaultSuffix
	Header string // first line of generated files, defaults to headerFor
}

func (o Options) suffix() string {
	if o.Suffix == "" {
		return DefaultSuffix
	}
	return o.Suffix
}

func (o Options) header(source string) string {
	if o.Header != "" {
		return o.Header
	}
	return fmt.Sprintf("// Code generated by namedgen from %s; DO NOT EDIT.\n\n", filepath.Base(source))
}

// Result is the outcome of processing one package directory.
type Result struct {
	Dir     string
	Sources []string
	Outputs map[string][]byte // output path -> generated content
	Decls   []*Decl
	Diags   []Diagnostic
}

// Ok reports whether the directory generated cleanly.
func (r *Result) Ok() bool {
	return len(r.Diags) == 0
}

// OutputPath returns the generated file path for a source path.
func OutputPath(source, suffix string) string {
	return strings.TrimSuffix(source, SourceExt) + suffix + ".go"
}

// OutputFor returns the generated file path for source under these
// options.
func (o Options) OutputFor(source string) string {
	return OutputPath(source, o.suffix())
}

// ProcessDir compiles every .ngo file in dir. The directory is the unit
// of processing: declarations from all files are registered before any
// file is expanded, so invocations work across files of the package. A
// file that produced a diagnostic yields no output; I/O failures are
// returned as errors, everything user-facing as diagnostics.
func ProcessDir(dir string, opts Options) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var sources []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), SourceExt) {
			sources = append(sources, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(sources)

	res := &Result{Dir: dir, Sources: sources, Outputs: make(map[string][]byte)}
	if len(sources) == 0 {
		return res, nil
	}

	// Pass 1: parse and register declarations.
	files := make([]*File, 0, len(sources))
	broken := make(map[string]bool)
	reg := make(Registry)
	for _, src := range sources {
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", src, err)
		}
		f, diags := ParseFile(src, data)
		if len(diags) > 0 {
			res.Diags = append(res.Diags, diags...)
			broken[src] = true
			continue
		}
		decls, diags := f.Decls()
		res.Diags = append(res.Diags, diags...)
		if len(diags) > 0 {
			broken[src] = true
		}
		for _, d := range decls {
			if prev, dup := reg[d.Matcher.Name()]; dup {
				res.Diags = append(res.Diags, Diagnostic{
					Pos: d.Matcher.Pos(),
					Message: fmt.Sprintf("`%s` is annotated more than once in this package (previous declaration at %s)",
						d.Matcher.Name(), prev.Pos()),
				})
				broken[src] = true
				continue
			}
			reg[d.Matcher.Name()] = d.Matcher
			res.Decls = append(res.Decls, d)
		}
		files = append(files, f)
	}

	// Pass 2: expand and emit.
	for _, f := range files {
		if broken[f.Path] {
			continue
		}
		var decls []*Decl
		for _, d := range res.Decls {
			if d.File == f {
				decls = append(decls, d)
			}
		}
		out, diags := f.Transform(reg, decls, opts.header(f.Path))
		if len(diags) > 0 {
			res.Diags = append(res.Diags, diags...)
			continue
		}
		res.Outputs[OutputPath(f.Path, opts.suffix())] = out
	}
	return res, nil
}

// WriteOutputs writes every generated file of the result to disk.
func (r *Result) WriteOutputs() error {
	paths := make([]string, 0, len(r.Outputs))
	for p := range r.Outputs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		if err := os.WriteFile(p, r.Outputs[p], 0644); err != nil {
			return fmt.Errorf("writing %s: %w", p, err)
		}
	}
	return nil
}
