package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vmfkit/internal/version"
)

// errReported means diagnostics were already printed; main only sets the
// exit code.
var errReported = errors.New("errors reported")

var rootCmd = &cobra.Command{
	Use:           "vmfkit",
	Short:         "Inspect Valve Map Format files",
	Long:          `vmfkit tokenizes, parses and summarizes VMF map sources written by Hammer`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		stopProfiling, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		stopTracing, err := setupTracing(cmd)
		if err != nil {
			stopProfiling()
			return err
		}
		cleanup = func() {
			stopTracing()
			stopProfiling()
		}
		return nil
	},
}

// cleanup flushes the tracer and stops profilers after the command ran.
var cleanup = func() {}

// main registers subcommands and persistent flags, runs the root command
// and exits with status 1 on any error.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Get().Version

	// Добавляем команды
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("encoding", "auto", "file encoding (auto|utf8|windows-1252)")
	rootCmd.PersistentFlags().String("config", "", "path to vmfkit.toml (default: search upwards)")
	rootCmd.PersistentFlags().String("trace", "", "write trace events to PATH (- for stderr, .ndjson for JSON lines)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to PATH")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to PATH on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to PATH")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	cleanup()
	stop()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "vmfkit: %v\n", err) //nolint:errcheck
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}
