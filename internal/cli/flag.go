package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flaglog/flaglog/internal/flagging"
	"github.com/flaglog/flaglog/pkg/color"
)

var (
	flagLabel string
	flagUser  string
)

var flagCmd = &cobra.Command{
	Use:   "flag <value>...",
	Short: "Record one flagged sample",
	Long: `Record one flagged sample: one value per configured component,
with an optional categorical label and acting user.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cb, err := buildCallback(cfg)
		if err != nil {
			return err
		}

		values := make([]any, len(args))
		for i, a := range args {
			values[i] = a
		}

		n, err := cb.Flag(cmd.Context(), flagging.Request{
			Values:   values,
			Label:    flagLabel,
			Username: flagUser,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]any{"rows": n})
		}
		fmt.Printf("Recorded flag %s\n", color.Successf("#%d", n))
		return nil
	},
}

func init() {
	flagCmd.Flags().StringVar(&flagLabel, "label", "", "categorical label for the flag")
	flagCmd.Flags().StringVar(&flagUser, "user", "", "acting username")
	rootCmd.AddCommand(flagCmd)
}
