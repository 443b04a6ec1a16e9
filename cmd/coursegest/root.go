package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "coursegest",
	Short: "Parse generated course material into assessment and chapter records",
	Long: `Coursegest turns heading-delimited course text into typed assessment
or chapter records.

Commands:
  parse     parse a file and print the record with images and diagnostics
  validate  check a JSON record against the embedded schema
  serve     run the HTTP API`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "json", "output format: json or yaml",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "log at debug level to stderr",
	)

	rootCmd.AddCommand(parseCmd, validateCmd, serveCmd)
}

// newLogger writes text logs to stderr so stdout stays machine readable.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
