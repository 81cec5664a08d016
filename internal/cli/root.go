// Package cli provides the command-line interface for namedgen.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/namedgen/internal/cli/commands"
	"github.com/leapstack-labs/namedgen/internal/cli/config"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "namedgen",
		Short: "namedgen - named arguments with defaults for Go functions",
		Long: `namedgen compiles .ngo source files to ordinary Go.

A function annotated with a //named:defaults(...) directive becomes
callable as name!(arg = value, ...): arguments are matched by name, in
declaration order, and omitted ones are filled from their defaults.
Every invocation is resolved at generation time into a direct function
call, so the generated code carries no runtime overhead.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Named arguments with defaults for Go functions
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./namedgen.yaml, searched upward)")
	rootCmd.PersistentFlags().StringSlice("src", nil, "Source roots to search for .ngo files")
	rootCmd.PersistentFlags().String("suffix", "", "Suffix of generated files (default: _named)")
	rootCmd.PersistentFlags().Int("jobs", 0, "Max directories processed concurrently")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable styled output")

	rootCmd.AddCommand(commands.NewVersionCommand(Version, BuildDate, GitCommit))
	rootCmd.AddCommand(commands.NewGenerateCommand())
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewInitCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
