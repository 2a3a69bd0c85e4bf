// ABOUTME: Entry point for the boondsync engine
// ABOUTME: Initializes zap logging and dispatches to the CLI
package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/recrutech/boondsync/cli"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if err := cli.Execute(); err != nil {
		zap.S().Errorw("command failed", "error", err)
		os.Exit(1)
	}
}
