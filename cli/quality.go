// ABOUTME: quality subcommand analyzing one environment's entities
// ABOUTME: Prints issues, duplicate groups, and the summary as JSON
package cli

import (
	"github.com/spf13/cobra"

	"github.com/recrutech/boondsync/models"
)

var qualityEnv string

var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Analyze one environment for field defects and duplicates",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := models.ParseEnvironment(qualityEnv)
		if err != nil {
			return err
		}

		eng, err := buildEngine()
		if err != nil {
			return err
		}

		analysis, err := eng.analyzer.Analyze(cmd.Context(), env)
		if err != nil {
			return err
		}
		return printJSON(analysis)
	},
}

func init() {
	qualityCmd.Flags().StringVar(&qualityEnv, "env", "production", "environment to analyze")
	rootCmd.AddCommand(qualityCmd)
}
