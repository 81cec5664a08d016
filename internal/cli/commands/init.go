package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const configTemplate = `# namedgen configuration
# Source roots searched for .ngo files.
src:
  - .

# Suffix of generated files: example.ngo -> example_named.go
suffix: _named

# Max directories processed concurrently.
jobs: 4
`

const exampleTemplate = `package example

import "fmt"

//named:defaults(greeting = "hello", name = "world")
func greet(greeting string, name string) string {
	return fmt.Sprintf("%s, %s!", greeting, name)
}

func Demo() {
	fmt.Println(greet!())
	fmt.Println(greet!(greeting = "hi"))
	fmt.Println(greet!(name = "gopher"))
	fmt.Println(greet!(greeting = "hey", name = "you"))
}
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a namedgen project",
		Long: `Create a namedgen.yaml configuration file, and optionally a worked
example .ngo source demonstrating directives and invocations.`,
		Example: `  # Initialize in the current directory
  namedgen init

  # Initialize with a worked example
  namedgen init --example

  # Initialize in a new directory
  namedgen init my-project --example`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force, example)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&example, "example", false, "Also create an example .ngo source")
	return cmd
}

func runInit(cmd *cobra.Command, dir string, force, example bool) error {
	cmdCtx := NewCommandContext(cmd)

	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "namedgen.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("namedgen.yaml already exists. Use --force to overwrite")
	}
	if err := os.WriteFile(configPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}
	cmdCtx.Renderer.Successf("Created %s", configPath)

	if example {
		exampleDir := filepath.Join(dir, "example")
		if err := os.MkdirAll(exampleDir, 0750); err != nil {
			return fmt.Errorf("failed to create %s: %w", exampleDir, err)
		}
		examplePath := filepath.Join(exampleDir, "greet.ngo")
		if err := os.WriteFile(examplePath, []byte(exampleTemplate), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", examplePath, err)
		}
		cmdCtx.Renderer.Successf("Created %s", examplePath)
		cmdCtx.Renderer.Infof("Run `namedgen generate %s` to compile it.", exampleDir)
	}
	return nil
}
