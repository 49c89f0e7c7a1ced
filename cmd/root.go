package cmd

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/caryhaynie/opentk/logging"
)

var (
	verbose  bool
	quiet    bool
	logLevel string
	logFile  string

	logger  = logging.Discard()
	closers []io.Closer
)

var rootCmd = &cobra.Command{
	Use:          "bind",
	Short:        "Specification-driven native API binding generator",
	Long:         "bind generates native (C++) and managed (C#) bindings for a native API from a single YAML specification of its enums, delegates and functions.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logLevel
		switch {
		case quiet:
			level = "error"
		case verbose && !cmd.Flags().Changed("log-level"):
			level = "debug"
		}
		l, c, err := logging.SetupLogger(level, logFile)
		if err != nil {
			return err
		}
		logger, closers = l, c
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this file")
}

func Execute() error {
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()
	return rootCmd.Execute()
}
