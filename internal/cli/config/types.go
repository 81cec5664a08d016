// Package config provides configuration for the namedgen CLI.
package config

// Default configuration values.
const (
	DefaultSuffix = "_named"
	DefaultJobs   = 4
)

// Config holds all CLI configuration options.
type Config struct {
	Src     []string `koanf:"src"`     // source roots searched for .ngo files
	Suffix  string   `koanf:"suffix"`  // generated file suffix
	Header  string   `koanf:"header"`  // override for the generated-file header
	Jobs    int      `koanf:"jobs"`    // max directories processed concurrently
	Verbose bool     `koanf:"verbose"`
	NoColor bool     `koanf:"no_color"`

	// ProjectRoot is the directory relative paths resolve against. It
	// is derived, not configured.
	ProjectRoot string `koanf:"-"`
}
