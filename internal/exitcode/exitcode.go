// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// Retriable indicates a failure the caller may work around, or a usage error.
	Retriable = 1

	// Terminal indicates a failure that must be reported, not retried.
	Terminal = 2

	// ConfigError indicates a configuration or backend construction error.
	ConfigError = 3
)

// Usage is returned for bad flags, arguments and unknown subcommands.
const Usage = Retriable
