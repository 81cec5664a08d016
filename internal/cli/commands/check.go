package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/namedgen/internal/project"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [path...]",
		Short: "Diagnose .ngo files without writing output",
		Long: `Run the full generation pipeline - directive parsing, argument
reconciliation and call-site expansion - and report every diagnostic,
writing nothing. Intended for CI and editor integration.`,
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	cmdCtx := NewCommandContext(cmd)

	dirs, err := project.Discover(cmdCtx.roots(args))
	if err != nil {
		return err
	}
	results, err := project.Run(cmd.Context(), dirs, project.RunOptions{
		Gen:    cmdCtx.genOptions(),
		Jobs:   cmdCtx.Cfg.Jobs,
		DryRun: true,
	})
	if err != nil {
		return err
	}

	if n := cmdCtx.report(results); n > 0 {
		return fmt.Errorf("check failed with %d error(s)", n)
	}

	files := 0
	for _, res := range results {
		files += len(res.Sources)
	}
	cmdCtx.Renderer.Successf("Checked %d file(s) in %d director%s, no problems found",
		files, len(dirs), plural(len(dirs), "y", "ies"))
	return nil
}
