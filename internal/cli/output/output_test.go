package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/namedgen/internal/gen"
	"github.com/leapstack-labs/namedgen/pkg/token"
)

func TestRenderer_PlainOutput(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, false)

	r.Successf("generated %d files", 3)
	r.Infof("note")
	r.Mutedf("aside")
	assert.Equal(t, "generated 3 files\nnote\naside\n", out.String())

	r.Errorf("boom: %v", "reason")
	assert.Equal(t, "error: boom: reason\n", errOut.String())
}

func TestRenderer_Diagnostic(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, false)

	r.Diagnostic(gen.Diagnostic{
		Pos:     token.Position{Filename: "demo.ngo", Line: 3, Column: 7},
		Message: "something is off",
	})
	assert.Equal(t, "demo.ngo:3:7: error: something is off\n", errOut.String())
	assert.Empty(t, out.String())
}

func TestAuto_NonTerminal(t *testing.T) {
	assert.False(t, Auto(&bytes.Buffer{}))
}
