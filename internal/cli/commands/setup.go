// Package commands implements the namedgen subcommands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/namedgen/internal/cli/config"
	"github.com/leapstack-labs/namedgen/internal/cli/output"
	"github.com/leapstack-labs/namedgen/internal/gen"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Renderer *output.Renderer
}

// NewCommandContext builds the shared command dependencies.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		cfg = &config.Config{
			Src:    []string{"."},
			Suffix: config.DefaultSuffix,
			Jobs:   config.DefaultJobs,
		}
	}
	colored := output.Auto(cmd.OutOrStdout()) && !cfg.NoColor
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), colored)
	return &CommandContext{Cfg: cfg, Renderer: r}
}

// roots returns the source roots for a command invocation: positional
// arguments win over configuration.
func (c *CommandContext) roots(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return c.Cfg.Src
}

// genOptions builds the generator options from configuration.
func (c *CommandContext) genOptions() gen.Options {
	return gen.Options{Suffix: c.Cfg.Suffix, Header: c.Cfg.Header}
}

// report prints every diagnostic of the results and returns the count.
func (c *CommandContext) report(results []*gen.Result) int {
	n := 0
	for _, res := range results {
		for _, d := range res.Diags {
			c.Renderer.Diagnostic(d)
			n++
		}
	}
	return n
}
