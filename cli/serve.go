// ABOUTME: serve subcommand starting the HTTP API
// ABOUTME: Fronts sync, quality, export, and dictionary over gin
package cli

import (
	"github.com/spf13/cobra"

	"github.com/recrutech/boondsync/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := buildEngine()
		if err != nil {
			return err
		}

		addr := serveAddr
		if addr == "" {
			addr = eng.cfg.ListenAddr
		}

		srv := server.New(server.Deps{
			Sync:       eng.syncer,
			Analyzer:   eng.analyzer,
			Dictionary: eng.dict,
			Clients:    eng.clients,
		})
		return srv.Run(addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from LISTEN_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
