package matcher

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/namedgen/pkg/attr"
	"github.com/leapstack-labs/namedgen/pkg/reconcile"
	"github.com/leapstack-labs/namedgen/pkg/token"
)

func declPos() token.Position {
	return token.Position{Filename: "test.ngo", Line: 2, Column: 6}
}

func callPos() token.Position {
	return token.Position{Filename: "test.ngo", Line: 10, Column: 3}
}

// tbl builds a resolved argument table from "name" and "name=default"
// entries.
func tbl(entries ...string) []reconcile.Param {
	params := make([]reconcile.Param, len(entries))
	for i, e := range entries {
		name, def, ok := strings.Cut(e, "=")
		params[i] = reconcile.Param{Name: name, Default: def, HasDefault: ok}
	}
	return params
}

func pairs(entries ...string) []attr.Pair {
	ps := make([]attr.Pair, len(entries))
	for i, e := range entries {
		name, val, _ := strings.Cut(e, "=")
		ps[i] = attr.Pair{Name: name, Value: val, Pos: callPos()}
	}
	return ps
}

func TestDerive(t *testing.T) {
	assert.Equal(t, "__or", Derive("or", RoleRenamed))
	assert.Equal(t, "__or_inner", Derive("or", RoleAccumulator))
	// Distinct originals cannot collide.
	assert.NotEqual(t, Derive("or", RoleRenamed), Derive("and", RoleRenamed))
	assert.NotEqual(t, Derive("or", RoleRenamed), Derive("or", RoleAccumulator))
}

func TestExpand_FullArity(t *testing.T) {
	m := New("or", declPos(), tbl("a=false", "b=false"))
	args, err := m.Expand(pairs("a=true", "b=true"), callPos())
	require.NoError(t, err)
	assert.Equal(t, []string{"true", "true"}, args)
}

func TestExpand_BooleanScenarios(t *testing.T) {
	// Parameters (a, b bool), both defaulted to false, body a || b.
	m := New("or", declPos(), tbl("a=false", "b=false"))
	tests := []struct {
		name string
		in   []attr.Pair
		want []string
	}{
		{"empty", nil, []string{"false", "false"}},
		{"a only", pairs("a=true"), []string{"true", "false"}},
		{"b only", pairs("b=true"), []string{"false", "true"}},
		{"both", pairs("a=true", "b=true"), []string{"true", "true"}},
		{"both false", pairs("a=false", "b=false"), []string{"false", "false"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := m.Expand(tt.in, callPos())
			require.NoError(t, err)
			assert.Equal(t, tt.want, args)
		})
	}
}

func TestExpand_ThreeDefaulted(t *testing.T) {
	// Parameters (a, b, c uint8) with defaults 1, 2, 3.
	m := New("f", declPos(), tbl("a=1", "b=2", "c=3"))
	tests := []struct {
		name string
		in   []attr.Pair
		want []string
	}{
		{"empty", nil, []string{"1", "2", "3"}},
		{"a only", pairs("a=9"), []string{"9", "2", "3"}},
		{"skip a", pairs("b=9", "c=8"), []string{"1", "9", "8"}},
		{"skip a and b", pairs("c=8"), []string{"1", "2", "8"}},
		{"middle only", pairs("b=9"), []string{"1", "9", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := m.Expand(tt.in, callPos())
			require.NoError(t, err)
			assert.Equal(t, tt.want, args)
		})
	}
}

func TestExpand_EmptyCallNamesAllMissing(t *testing.T) {
	m := New("f", declPos(), tbl("a", "b", "c"))
	_, err := m.Expand(nil, callPos())
	require.Error(t, err)
	assert.Contains(t, err.Error(),
		"must specify values for non-defaulted arguments: [a, b, c]")
}

func TestExpand_PartialCallNamesRemainingMissing(t *testing.T) {
	// a supplied, b and c still open with no defaults: the terminal
	// state lists everything still missing.
	m := New("f", declPos(), tbl("a", "b", "c"))
	_, err := m.Expand(pairs("a=1"), callPos())
	require.Error(t, err)
	assert.Contains(t, err.Error(),
		"must specify values for non-defaulted arguments: [b, c]")
}

func TestExpand_SkipWithoutDefaultFails(t *testing.T) {
	// Only a has a default; c=8 skips b which cannot be bridged. Only
	// the first offender is named on this path.
	m := New("f", declPos(), tbl("a=1", "b", "c"))
	_, err := m.Expand(pairs("c=8"), callPos())
	require.Error(t, err)
	assert.Contains(t, err.Error(),
		"must specify value for non-defaulted argument: `b`")
}

func TestExpand_FirstParamRequired(t *testing.T) {
	m := New("f", declPos(), tbl("a", "b=2"))
	_, err := m.Expand(pairs("b=9"), callPos())
	require.Error(t, err)
	assert.Contains(t, err.Error(),
		"must specify value for non-defaulted argument: `a`")
}

func TestExpand_OutOfOrderIsFatalEvenWithDefaults(t *testing.T) {
	// b before a never reorders: consuming b first bridges a via its
	// default, then the trailing a=1 no longer matches anything open.
	m := New("f", declPos(), tbl("a=1", "b=2"))
	_, err := m.Expand(pairs("b=9", "a=1"), callPos())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized named argument")
	assert.Contains(t, err.Error(), "`a`")
}

func TestExpand_UnknownName(t *testing.T) {
	m := New("f", declPos(), tbl("a=1", "b=2"))
	for _, in := range [][]attr.Pair{
		pairs("zz=1"),
		pairs("a=1", "zz=2"),
		pairs("a=1", "b=2", "zz=3"),
	} {
		_, err := m.Expand(in, callPos())
		require.Error(t, err)
		assert.Contains(t, err.Error(),
			"unrecognized named argument - got value for argument `zz` but only expected [a, b]")
	}
}

func TestExpand_ExtraAfterFullArity(t *testing.T) {
	m := New("f", declPos(), tbl("a"))
	_, err := m.Expand(pairs("a=1", "a=2"), callPos())
	require.Error(t, err)
	assert.Contains(t, err.Error(),
		"got value for argument `a` but only expected `a`")
}

func TestExpand_ZeroParams(t *testing.T) {
	m := New("f", declPos(), nil)
	args, err := m.Expand(nil, callPos())
	require.NoError(t, err)
	assert.Empty(t, args)

	_, err = m.Expand(pairs("a=1"), callPos())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized named argument")
}

func TestExpand_DefaultExpressionsCarriedVerbatim(t *testing.T) {
	m := New("f", declPos(), tbl("a=Default.value", "b=max(1, 2)"))
	args, err := m.Expand(nil, callPos())
	require.NoError(t, err)
	assert.Equal(t, []string{"Default.value", "max(1, 2)"}, args)
}

func TestExpand_Poisoned(t *testing.T) {
	declErr := errors.New("test.ngo:2:6: unrecognized argument `zz`")
	m := Poisoned("f", declPos(), declErr)
	require.Error(t, m.Err())

	_, err := m.Expand(nil, callPos())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "`f!` cannot be expanded")
	assert.Contains(t, err.Error(), "unrecognized argument `zz`")

	ee, ok := err.(*ExpandError)
	require.True(t, ok)
	assert.Equal(t, callPos(), ee.Pos)
}

func TestFormatNames(t *testing.T) {
	assert.Equal(t, "`a`", FormatNames([]string{"a"}))
	assert.Equal(t, "[a, b]", FormatNames([]string{"a", "b"}))
}
