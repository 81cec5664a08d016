package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/namedgen/internal/cli/config"
)

// execute runs the CLI with args in a fresh working directory and
// returns combined stdout/stderr.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func chtemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestVersionCommand(t *testing.T) {
	chtemp(t)
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "namedgen v"+Version)
	assert.Contains(t, out, "commit:")
}

func TestInitCommand(t *testing.T) {
	dir := chtemp(t)

	out, err := execute(t, "init", "--example")
	require.NoError(t, err)
	assert.Contains(t, out, "Created namedgen.yaml")

	data, err := os.ReadFile(filepath.Join(dir, "namedgen.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "suffix: _named")

	_, err = os.Stat(filepath.Join(dir, "example", "greet.ngo"))
	assert.NoError(t, err)

	// A second init without --force refuses to clobber.
	_, err = execute(t, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "init", "--force")
	assert.NoError(t, err)
}

func TestGenerateCommand_WorkedExample(t *testing.T) {
	dir := chtemp(t)

	_, err := execute(t, "init", "--example")
	require.NoError(t, err)

	out, err := execute(t, "generate")
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 1 directory")

	data, err := os.ReadFile(filepath.Join(dir, "example", "greet_named.go"))
	require.NoError(t, err)
	generated := string(data)
	assert.Contains(t, generated, "func __greet(greeting string, name string) string")
	assert.Contains(t, generated, `__greet("hello", "world")`)
	assert.Contains(t, generated, `__greet("hi", "world")`)
	assert.Contains(t, generated, `__greet("hello", "gopher")`)
	assert.Contains(t, generated, `__greet("hey", "you")`)
}

func TestGenerateCommand_DryRun(t *testing.T) {
	dir := chtemp(t)

	_, err := execute(t, "init", "--example")
	require.NoError(t, err)

	out, err := execute(t, "generate", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "greet_named.go")

	_, err = os.Stat(filepath.Join(dir, "example", "greet_named.go"))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateCommand_SuffixFlag(t *testing.T) {
	dir := chtemp(t)

	_, err := execute(t, "init", "--example")
	require.NoError(t, err)

	_, err = execute(t, "generate", "--suffix", "_gen")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "example", "greet_gen.go"))
	assert.NoError(t, err)
}

func TestCheckCommand(t *testing.T) {
	dir := chtemp(t)

	_, err := execute(t, "init", "--example")
	require.NoError(t, err)

	out, err := execute(t, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "no problems found")

	// A broken source fails the check without touching the disk.
	broken := filepath.Join(dir, "example", "broken.ngo")
	require.NoError(t, os.WriteFile(broken, []byte(`package example

func oops() string {
	return nowhere!(x = 1)
}
`), 0644))

	out, err = execute(t, "check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check failed with 1 error(s)")
	assert.Contains(t, out, "`nowhere!` does not refer to a function")
}

func TestListCommand(t *testing.T) {
	chtemp(t)

	_, err := execute(t, "init", "--example")
	require.NoError(t, err)

	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "greet!")
	assert.Contains(t, out, `greeting = "hello"`)
}

func TestListCommand_Empty(t *testing.T) {
	chtemp(t)
	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No annotated functions found")
}
