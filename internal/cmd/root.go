package cmd

import (
	"fmt"
	"os"

	"github.com/DRSN-tech/bakery-orders/internal/cfg"
	"github.com/DRSN-tech/bakery-orders/pkg/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bakery-orders",
	Short: "Bakery order service",
	Long: `Сервис заказов пекарни: черновик заказа с извлечением полей из диктовки и фото,
заказы, каталог, статистика и напоминания о доставке.

Без подкоманды запускается serve.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute запускает CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*cfg.Config, logger.Logger, error) {
	log := logger.NewSlogLogger()

	config, err := cfg.Load(log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	return config, log, nil
}
