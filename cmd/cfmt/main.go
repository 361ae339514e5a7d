package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cfmt/internal/diagfmt"
	"cfmt/internal/logging"
	"cfmt/internal/version"
)

// newRootCommand builds the command tree. Every call returns fresh commands
// and flags.
func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cfmt",
		Short: "Formatter for C sources",
		Long: `cfmt rewrites C sources in a consistent layout configured by .clang-format
files. Preprocessor conditionals are followed branch by branch and code the
formatter cannot parse is kept as written.`,
		Version:           version.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupGlobals,
	}

	rootCmd.AddCommand(newFmtCommand())
	rootCmd.AddCommand(newTokenizeCommand())
	rootCmd.AddCommand(newDocCommand())
	rootCmd.AddCommand(newStyleCommand())
	rootCmd.AddCommand(newVersionCommand())

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show per file")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to this file")
	return rootCmd
}

// setupGlobals installs the logger and color mode picked by the persistent
// flags.
func setupGlobals(cmd *cobra.Command, _ []string) error {
	level, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return err
	}
	logger := logging.NewWriter(cmd.ErrOrStderr(), level)
	logging.SetDefault(logger)
	cmd.SetContext(logging.WithLogger(cmd.Context(), logger))

	mode, err := readColorMode(cmd)
	if err != nil {
		return err
	}
	color.NoColor = !diagfmt.ColorEnabled(mode, cmd.OutOrStdout())
	return startProfiling(cmd)
}

func readColorMode(cmd *cobra.Command) (string, error) {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return "", err
	}
	switch mode {
	case "auto", "on", "off":
		return mode, nil
	default:
		return "", usageErrorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if perr := stopProfiling(); perr != nil {
		fmt.Fprintf(os.Stderr, "cfmt: %v\n", perr)
	}
	os.Exit(exitCode(err))
}

// exitCode reports err on stderr and maps it to the process status.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			fmt.Fprintf(os.Stderr, "cfmt: %v\n", exit.err)
		}
		return exit.code
	}
	fmt.Fprintf(os.Stderr, "cfmt: %v\n", err)
	return ExitUsage
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}
