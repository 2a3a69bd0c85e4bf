// ABOUTME: export subcommand writing entity snapshots to a file
// ABOUTME: JSON or CSV, optionally cleaned with the analyzer's normalizations
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/recrutech/boondsync/export"
	"github.com/recrutech/boondsync/models"
)

var (
	exportEnv    string
	exportFormat string
	exportClean  bool
	exportEntity string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export an entity snapshot to JSON or CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := models.ParseEnvironment(exportEnv)
		if err != nil {
			return err
		}
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		types := models.AllEntityTypes()
		if exportEntity != "" {
			t, err := models.ParseEntityType(exportEntity)
			if err != nil {
				return err
			}
			types = []models.EntityType{t}
		}

		eng, err := buildEngine()
		if err != nil {
			return err
		}

		client := eng.clients[env]
		snapshot := make(map[models.EntityType][]models.Entity, len(types))
		for _, t := range types {
			entities, err := client.List(cmd.Context(), t)
			if err != nil {
				return fmt.Errorf("list %s from %s: %w", t, env, err)
			}
			snapshot[t] = entities
		}

		path := exportOut
		if path == "" {
			path = export.Filename(exportEntity, env, format, time.Now().UTC())
		}
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer file.Close()

		if err := export.Export(file, snapshot, format, exportClean); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "exported to %s\n", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportEnv, "env", "production", "environment to export from")
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format (json or csv)")
	exportCmd.Flags().BoolVar(&exportClean, "clean", false, "apply field normalization before export")
	exportCmd.Flags().StringVar(&exportEntity, "entity", "", "restrict to one entity type")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default derived from parameters)")
	rootCmd.AddCommand(exportCmd)
}
