package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flaglog/flaglog/pkg/color"
	"github.com/flaglog/flaglog/pkg/config"
	"github.com/flaglog/flaglog/pkg/logging"
)

var (
	jsonOutput bool
	noColor    bool
	configPath string
	rootCmd    = &cobra.Command{
		Use:   "flaglog",
		Short: "flaglog - durable flag recording for interactive demos",
		Long: `flaglog records user-flagged samples to a row-oriented log file,
optionally encrypted, and can mirror the log to a remote versioned
dataset repository with one commit per flag.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "flaglog.yaml", "path to the config file")
	cobra.OnInitialize(func() { color.Init(noColor) })
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.Error(err.Error()))
		os.Exit(1)
	}
}

// loadConfig loads the configured config file and applies the log level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logging.SetGlobal(logging.NewLogger(logging.Level(cfg.Logging.Level)))
	return cfg, nil
}

// outputJSON prints v as JSON if --json flag is set, otherwise does nothing.
func outputJSON(v any) error {
	if !jsonOutput {
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fmtErr(format string, args ...any) {
	fmt.Fprintln(os.Stderr, color.Error(fmt.Sprintf(format, args...)))
}
