package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flaglog/flaglog/pkg/color"
	"github.com/flaglog/flaglog/pkg/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default flaglog config file",
	Long: `Write a default configuration file at the --config path.

Edit the file afterwards to declare your components, the flagging
directory, an optional encryption key file, and an optional remote
dataset target.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s", configPath)
		}
		if err := config.Save(configPath, config.Default()); err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(map[string]any{"config": configPath})
		}
		fmt.Printf("Wrote default config to %s\n", color.Success(configPath))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
