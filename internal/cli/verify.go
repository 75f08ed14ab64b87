package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flaglog/flaglog/pkg/color"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that the log file decodes cleanly",
	Long: `Decode the whole log file and report its header and row count.
Fails with E_CORRUPT_LOG when the file is unreadable or undecryptable.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, err := buildStore(cfg)
		if err != nil {
			return err
		}

		header, rows, err := s.Snapshot()
		if err != nil {
			return err
		}
		if header == nil {
			if jsonOutput {
				return outputJSON(map[string]any{"exists": false})
			}
			fmt.Println(color.Warning("no log file yet"))
			return nil
		}

		if jsonOutput {
			return outputJSON(map[string]any{"exists": true, "header": header, "rows": len(rows)})
		}
		fmt.Printf("%s: %d rows, header %v\n", color.Success("ok"), len(rows), []string(header))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
