// ABOUTME: dictionary subcommand fetching cached reference data
// ABOUTME: Supports forcing a refresh past the cache TTL
package cli

import (
	"github.com/spf13/cobra"

	"github.com/recrutech/boondsync/models"
)

var (
	dictionaryEnv     string
	dictionaryRefresh bool
)

var dictionaryCmd = &cobra.Command{
	Use:   "dictionary",
	Short: "Fetch the reference pick-list data for one environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := models.ParseEnvironment(dictionaryEnv)
		if err != nil {
			return err
		}

		eng, err := buildEngine()
		if err != nil {
			return err
		}

		snap, err := eng.dict.Get(cmd.Context(), env, dictionaryRefresh)
		if err != nil {
			return err
		}
		return printJSON(snap)
	},
}

func init() {
	dictionaryCmd.Flags().StringVar(&dictionaryEnv, "env", "production", "environment to read from")
	dictionaryCmd.Flags().BoolVar(&dictionaryRefresh, "refresh", false, "bypass the cache TTL")
	rootCmd.AddCommand(dictionaryCmd)
}
