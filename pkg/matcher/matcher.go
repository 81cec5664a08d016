// Package matcher resolves the named arguments of an invocation into
// the positional argument list of the generated call.
//
// Each annotated function gets one Matcher. Resolution is a finite
// state machine over "how many leading parameters already have concrete
// expressions": state k means parameters 0..k-1 are resolved and the
// rest are still open. Arguments only ever fill forward - a defaulted
// parameter that is skipped over is filled silently, a non-defaulted
// one makes the invocation fail. The machine exists only while the
// generator runs; what survives is the plain positional call it emits.
package matcher

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/namedgen/pkg/attr"
	"github.com/leapstack-labs/namedgen/pkg/reconcile"
	"github.com/leapstack-labs/namedgen/pkg/token"
)

// Role selects which generated name to derive from a function name.
type Role int

const (
	// RoleRenamed is the private copy of the original function.
	RoleRenamed Role = iota
	// RoleAccumulator is the internal fill-forward matcher.
	RoleAccumulator
)

// Derive maps an original function name and a role to the generated
// name. It is a pure function: two functions in one scope can only
// collide if their original names already collide.
func Derive(name string, role Role) string {
	switch role {
	case RoleAccumulator:
		return "__" + name + "_inner"
	default:
		return "__" + name
	}
}

// Matcher is the caller-facing matcher for one annotated function. It
// embeds the accumulator it delegates to.
type Matcher struct {
	fn     string
	pos    token.Position
	params []reconcile.Param
	err    error // set on a poisoned matcher
}

// ExpandError is a call-site diagnostic produced during expansion.
type ExpandError struct {
	Pos     token.Position
	Message string
}

func (e *ExpandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// New builds the matcher for fn from its resolved argument table. pos
// is the function's declaration position.
func New(fn string, pos token.Position, table []reconcile.Param) *Matcher {
	return &Matcher{fn: fn, pos: pos, params: table}
}

// Poisoned builds a matcher whose every expansion fails with the stored
// declaration-time error. Callers of a broken annotation then see the
// one root cause at each call site instead of an unrelated
// unknown-macro error per call.
func Poisoned(fn string, pos token.Position, err error) *Matcher {
	return &Matcher{fn: fn, pos: pos, err: err}
}

// Name returns the original (caller-facing) function name.
func (m *Matcher) Name() string { return m.fn }

// Renamed returns the derived name of the private function copy.
func (m *Matcher) Renamed() string { return Derive(m.fn, RoleRenamed) }

// Pos returns the declaration position of the annotated function.
func (m *Matcher) Pos() token.Position { return m.pos }

// Params returns the resolved argument table in declaration order.
func (m *Matcher) Params() []reconcile.Param { return m.params }

// Err returns the stored declaration error of a poisoned matcher.
func (m *Matcher) Err() error { return m.err }

// Expand resolves the invocation's name/value pairs into the positional
// argument expressions for the renamed function, or fails with a
// diagnostic anchored at the call.
func (m *Matcher) Expand(pairs []attr.Pair, call token.Position) ([]string, error) {
	if m.err != nil {
		return nil, &ExpandError{
			Pos:     call,
			Message: fmt.Sprintf("`%s!` cannot be expanded: %v", m.fn, m.err),
		}
	}

	// Public entry: only the handling of parameter 0 is special, the
	// accumulator does the rest.
	if len(pairs) == 0 {
		return m.accumulate(0, nil, nil, call)
	}
	if len(m.params) == 0 {
		return nil, m.unrecognized(pairs[0])
	}
	first := m.params[0]
	if pairs[0].Name == first.Name {
		return m.accumulate(1, []string{pairs[0].Value}, pairs[1:], call)
	}
	if !first.HasDefault {
		return nil, m.missing(call, []string{first.Name})
	}
	return m.accumulate(1, []string{first.Default}, pairs, call)
}

// accumulate runs the state machine from state k. resolved holds the k
// expressions already fixed, pending the pairs not yet consumed. The
// recursive transitions of the machine are driven as a loop; each
// iteration is one state transition.
func (m *Matcher) accumulate(k int, resolved []string, pending []attr.Pair, call token.Position) ([]string, error) {
	for {
		if len(pending) == 0 {
			// Terminal state: everything still open comes from its
			// default. Any parameter without one is fatal, naming all
			// of them.
			var missing []string
			for _, p := range m.params[k:] {
				if !p.HasDefault {
					missing = append(missing, p.Name)
				}
			}
			if len(missing) > 0 {
				return nil, m.missing(call, missing)
			}
			for _, p := range m.params[k:] {
				resolved = append(resolved, p.Default)
			}
			return resolved, nil
		}

		if k == len(m.params) {
			// Fully resolved, yet pairs remain.
			return nil, m.unrecognized(pending[0])
		}

		next := m.params[k]
		if pending[0].Name == next.Name {
			resolved = append(resolved, pending[0].Value)
			pending = pending[1:]
			k++
			continue
		}

		// Out-of-order name: bridge over next via its default, keeping
		// the pending pairs for the following state, or fail on the
		// first non-defaulted parameter in the gap.
		if !next.HasDefault {
			return nil, m.missing(pending[0].Pos, []string{next.Name})
		}
		resolved = append(resolved, next.Default)
		k++
	}
}

func (m *Matcher) missing(pos token.Position, names []string) *ExpandError {
	suffix := "s"
	if len(names) == 1 {
		suffix = ""
	}
	return &ExpandError{
		Pos: pos,
		Message: fmt.Sprintf("`%s!`: must specify value%s for non-defaulted argument%s: %s",
			m.fn, suffix, suffix, FormatNames(names)),
	}
}

func (m *Matcher) unrecognized(pair attr.Pair) *ExpandError {
	names := make([]string, len(m.params))
	for i, p := range m.params {
		names[i] = p.Name
	}
	return &ExpandError{
		Pos: pair.Pos,
		Message: fmt.Sprintf("`%s!`: unrecognized named argument - got value for argument `%s` but only expected %s",
			m.fn, pair.Name, FormatNames(names)),
	}
}

// FormatNames renders an argument name list for diagnostics: a single
// name in backquotes, several as a bracketed list.
func FormatNames(names []string) string {
	if len(names) == 1 {
		return "`" + names[0] + "`"
	}
	return "[" + strings.Join(names, ", ") + "]"
}
