// ABOUTME: Root cobra command and shared engine wiring
// ABOUTME: Builds per-environment clients and the engine components
package cli

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/recrutech/boondsync/boond"
	"github.com/recrutech/boondsync/config"
	"github.com/recrutech/boondsync/dictionary"
	"github.com/recrutech/boondsync/models"
	"github.com/recrutech/boondsync/quality"
	"github.com/recrutech/boondsync/syncer"
)

var rootCmd = &cobra.Command{
	Use:   "boondsync",
	Short: "Sync and data-quality engine for the BoondManager back office",
	Long: `boondsync copies CRM entities from the production tenant into the
sandbox tenant, analyzes entity sets for field-level defects and duplicates,
and exports snapshots for offline cleansing.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// engine bundles the wired components the subcommands share.
type engine struct {
	cfg      *config.Config
	clients  map[models.Environment]boond.API
	syncer   *syncer.Engine
	analyzer *quality.Analyzer
	dict     *dictionary.Cache
}

// buildEngine loads configuration and wires every component.
func buildEngine() (*engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	clients := make(map[models.Environment]boond.API, 2)
	for _, env := range []models.Environment{models.Production, models.Sandbox} {
		endpoint := cfg.EndpointFor(env)
		client, err := boond.NewClient(boond.Config{
			Env:         env,
			BaseURL:     endpoint.BaseURL,
			UserToken:   endpoint.UserToken,
			ClientToken: endpoint.ClientToken,
			MaxAttempts: cfg.MaxAttempts,
			BackoffSlot: cfg.BackoffSlot,
			BackoffMax:  cfg.BackoffMax,
			PageSize:    cfg.PageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("build %s client: %w", env, err)
		}
		clients[env] = client
	}

	sync, err := syncer.NewEngine(clients[models.Production], clients[models.Sandbox], cfg.SyncWorkers)
	if err != nil {
		return nil, err
	}

	return &engine{
		cfg:      cfg,
		clients:  clients,
		syncer:   sync,
		analyzer: quality.NewAnalyzer(clients),
		dict:     dictionary.New(clients, cfg.DictionaryTTL),
	}, nil
}

// printJSON renders a result to stdout; logs stay on stderr.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
