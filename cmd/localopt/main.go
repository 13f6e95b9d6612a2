// Package main implements the localopt CLI.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"localopt/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "localopt",
	Short:         "Local peephole optimizer for integer IR",
	Long:          `localopt rewrites straight-line integer IR with algebraic identities and strength reduction`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupColor(cmd); err != nil {
			return err
		}
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, cleanup)
		return nil
	},
}

// cleanups run after the command finishes, in reverse order.
var cleanups []func(failed bool)

func main() {
	os.Exit(execute(rootCmd))
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.AddCommand(optCmd, evalCmd, checkCmd, cleanCmd, versionCmd)

	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("timings", false, "show timing information")
	pf.String("config", "", "path to localopt.toml (default: search upwards from the working directory)")

	pf.String("trace", "", "trace output file (\"-\" for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")

	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")
}

func execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i](err != nil)
	}
	cleanups = nil
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("error:"), err)
		return 1
	}
	return 0
}

func setupColor(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
