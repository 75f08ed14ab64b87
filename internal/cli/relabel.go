package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/flaglog/flaglog/pkg/color"
)

var relabelCmd = &cobra.Command{
	Use:   "relabel <row> <label>",
	Short: "Change the flag label of an existing row",
	Long: `Overwrite the flag cell of the row at the given zero-based index.
The log file is rewritten atomically; all other cells stay untouched.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		row, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("row index must be an integer: %s", args[0])
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, err := buildStore(cfg)
		if err != nil {
			return err
		}

		n, err := s.UpdateFlag(row, args[1])
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]any{"row": row, "label": args[1], "rows": n})
		}
		fmt.Printf("Relabeled row %s to %s\n", color.Highlight(args[0]), color.Success(args[1]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(relabelCmd)
}
