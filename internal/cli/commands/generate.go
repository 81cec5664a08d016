package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/namedgen/internal/project"
)

// GenerateOptions holds options for the generate command.
type GenerateOptions struct {
	Watch  bool
	DryRun bool
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	opts := &GenerateOptions{}
	cmd := &cobra.Command{
		Use:   "generate [path...]",
		Short: "Compile .ngo files to Go",
		Long: `Compile every .ngo file under the source roots to a sibling Go file.

Each package directory is processed as a unit, so a function annotated
in one file can be invoked from another file of the same package. A
directory with errors produces no output files.`,
		Example: `  # Generate for the configured source roots
  namedgen generate

  # Generate for specific paths
  namedgen generate ./internal/api ./internal/db

  # Regenerate on every change
  namedgen generate --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Watch source roots and regenerate on change")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report what would be generated without writing")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string, opts *GenerateOptions) error {
	cmdCtx := NewCommandContext(cmd)
	roots := cmdCtx.roots(args)

	runOpts := project.RunOptions{
		Gen:    cmdCtx.genOptions(),
		Jobs:   cmdCtx.Cfg.Jobs,
		DryRun: opts.DryRun,
	}

	runOnce := func(ctx context.Context, dirs []string) (int, error) {
		results, err := project.Run(ctx, dirs, runOpts)
		if err != nil {
			return 0, err
		}
		n := cmdCtx.report(results)
		if cmdCtx.Cfg.Verbose || opts.DryRun {
			for _, res := range results {
				for _, src := range res.Sources {
					out := runOpts.Gen.OutputFor(src)
					if _, ok := res.Outputs[out]; ok {
						cmdCtx.Renderer.Infof("%s -> %s", src, out)
					}
				}
			}
		}
		return n, nil
	}

	ctx := cmd.Context()
	dirs, err := project.Discover(roots)
	if err != nil {
		return err
	}
	errs, err := runOnce(ctx, dirs)
	if err != nil {
		return err
	}

	if !opts.Watch {
		if errs > 0 {
			return fmt.Errorf("generation failed with %d error(s)", errs)
		}
		if !opts.DryRun {
			cmdCtx.Renderer.Successf("Generated %d director%s", len(dirs), plural(len(dirs), "y", "ies"))
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmdCtx.Renderer.Infof("Watching %d root(s) for changes. Press Ctrl+C to stop.", len(roots))
	err = project.Watch(ctx, roots, func(changed []string) error {
		if n, err := runOnce(ctx, changed); err != nil {
			return err
		} else if n == 0 {
			cmdCtx.Renderer.Successf("Regenerated %d director%s", len(changed), plural(len(changed), "y", "ies"))
		}
		return nil
	}, func(err error) {
		cmdCtx.Renderer.Errorf("%v", err)
	})
	if err == context.Canceled {
		return nil
	}
	return err
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
