// ABOUTME: sync subcommand running one production-to-sandbox copy
// ABOUTME: Prints the per-type outcome aggregate as JSON
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Copy all entities from production into sandbox",
	Long: `Runs one best-effort sync: every entity type is copied in dependency
order and relationship ids are translated to their sandbox counterparts.
The run is not transactional; re-running after a failure creates duplicate
sandbox records.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := buildEngine()
		if err != nil {
			return err
		}

		result, runErr := eng.syncer.Run(cmd.Context())
		if result != nil {
			if err := printJSON(result); err != nil {
				return err
			}
		}
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "sync ended early: %v\n", runErr)
			return runErr
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
