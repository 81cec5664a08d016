package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes into dir for the duration of the test, restoring the
// previous working directory on cleanup (testing.T.Chdir needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

// chtemp moves the test into a fresh directory so upward config search
// cannot pick up a real namedgen.yaml.
func chtemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	ResetConfig()
	t.Cleanup(ResetConfig)
	return dir
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "namedgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	chtemp(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"."}, cfg.Src)
	assert.Equal(t, DefaultSuffix, cfg.Suffix)
	assert.Equal(t, DefaultJobs, cfg.Jobs)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, GetConfigFileUsed())
	assert.Equal(t, ".", cfg.ProjectRoot)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := chtemp(t)
	path := writeConfig(t, dir, "suffix: _gen\njobs: 2\nsrc:\n  - queries\n")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "_gen", cfg.Suffix)
	assert.Equal(t, 2, cfg.Jobs)
	assert.Equal(t, path, GetConfigFileUsed())

	// Relative roots resolve against the config file's directory.
	assert.True(t, filepath.IsAbs(cfg.ProjectRoot))
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, "queries"), cfg.Src[0])
}

func TestLoad_FindsConfigUpward(t *testing.T) {
	dir := chtemp(t)
	writeConfig(t, dir, "suffix: _up\n")
	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0755))
	chdir(t, sub)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "_up", cfg.Suffix)
	assert.NotEmpty(t, GetConfigFileUsed())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := chtemp(t)
	path := writeConfig(t, dir, "suffix: _file\n")
	t.Setenv("NAMEDGEN_SUFFIX", "_env")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "_env", cfg.Suffix)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	chtemp(t)
	t.Setenv("NAMEDGEN_SUFFIX", "_env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("suffix", DefaultSuffix, "")
	flags.Int("jobs", DefaultJobs, "")
	require.NoError(t, flags.Set("suffix", "_flag"))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "_flag", cfg.Suffix)
	// Unchanged flags do not clobber lower layers.
	assert.Equal(t, DefaultJobs, cfg.Jobs)
}

func TestLoad_KebabFlagNames(t *testing.T) {
	chtemp(t)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("no-color", false, "")
	require.NoError(t, flags.Set("no-color", "true"))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.True(t, cfg.NoColor)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chtemp(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestResetConfig(t *testing.T) {
	chtemp(t)
	_, err := Load("", nil)
	require.NoError(t, err)
	require.NotNil(t, GetCurrentConfig())

	ResetConfig()
	assert.Nil(t, GetCurrentConfig())
	assert.Empty(t, GetConfigFileUsed())
}
