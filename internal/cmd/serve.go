package cmd

import (
	"fmt"

	"github.com/DRSN-tech/bakery-orders/internal/app"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP API, gRPC health and the outbox worker",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	config, log, err := loadConfig()
	if err != nil {
		return err
	}

	application, err := app.NewApp(config, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		return fmt.Errorf("failed to initialize app: %w", err)
	}

	return application.Run()
}
