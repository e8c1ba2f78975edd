package cmd

import (
	"github.com/DRSN-tech/bakery-orders/internal/app"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, log, err := loadConfig()
		if err != nil {
			return err
		}

		return app.Migrate(config, log)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
