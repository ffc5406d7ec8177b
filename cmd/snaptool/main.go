// Command snaptool exercises the snapshot delta codec from the command
// line: build a snap from a JSON item fixture, diff two snaps, round-trip
// a delta back onto its base, or benchmark the codec against random data.
package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/FlyyToMoon/libtw2/log"
)

var (
	logLevel string
	logger   log.Logger
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "snaptool",
		Short: "Inspect and exercise the snapshot delta codec",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			viper.SetEnvPrefix("SNAPTOOL")
			viper.AutomaticEnv()
			level, err := log.LevelFromString(strings.ToUpper(logLevel))
			if err != nil {
				level = log.InfoLevel
			}
			logger = log.NewLogger(level, os.Stderr)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error, fatal")
	viper.BindPFlag("log-level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(buildCmd())
	root.AddCommand(diffCmd())
	root.AddCommand(roundtripCmd())
	root.AddCommand(benchCmd())
	return root
}
