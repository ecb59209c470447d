package log

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for logging configuration, allowing callers to
// customize flag names while keeping sensible defaults.
type Flags struct {
	Level  string
	Format string
}

// Config holds CLI flag values for logging configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewHandler] to build a handler.
type Config struct {
	Flags  Flags
	Level  string
	Format string
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	return &Config{
		Flags: Flags{
			Level:  "log-level",
			Format: "log-format",
		},
	}
}

// RegisterFlags adds logging flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, c.Flags.Level, "warn",
		"log level (error, warn, info, debug)")
	flags.StringVar(&c.Format, c.Flags.Format, string(FormatText),
		"log format (text, logfmt, json)")
}

// RegisterCompletions registers shell completions for logging flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Level,
		cobra.FixedCompletions(
			[]string{"error", "warn", "info", "debug"},
			cobra.ShellCompDirectiveNoFileComp,
		))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Level, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Format,
		cobra.FixedCompletions(
			[]string{string(FormatText), string(FormatLogfmt), string(FormatJSON)},
			cobra.ShellCompDirectiveNoFileComp,
		))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Format, err)
	}

	return nil
}

// NewHandler creates a [slog.Handler] using this [Config].
func (c *Config) NewHandler(w io.Writer) (slog.Handler, error) {
	return NewHandlerWithStrings(w, c.Level, c.Format)
}
