package commands

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/namedgen/internal/project"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [path...]",
		Short: "List annotated functions",
		Long: `List every function annotated with a //named: directive under the
source roots, with its parameters and declared defaults.`,
		RunE: runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
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
	cmdCtx.report(results)

	t := table.NewWriter()
	t.SetOutputMirror(cmdCtx.Renderer.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Function", "Arguments", "Declared"})

	count := 0
	for _, res := range results {
		for _, d := range res.Decls {
			m := d.Matcher
			sig := "(broken)"
			if m.Err() == nil {
				parts := make([]string, len(m.Params()))
				for i, p := range m.Params() {
					parts[i] = p.Name
					if p.HasDefault {
						parts[i] += " = " + p.Default
					}
				}
				sig = strings.Join(parts, ", ")
			}
			t.AppendRow(table.Row{m.Name() + "!", sig, m.Pos().String()})
			count++
		}
	}

	if count == 0 {
		cmdCtx.Renderer.Mutedf("No annotated functions found")
		return nil
	}
	t.Render()
	return nil
}
