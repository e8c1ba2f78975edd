package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DRSN-tech/bakery-orders/internal/app"
	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/spf13/cobra"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Send delivery reminders once",
	Long: `Отправляет напоминания по недоставленным заказам, дата доставки которых приходится
на день через REMINDER_LEAD от текущего момента. Флаг --now подменяет текущий момент (RFC3339
или YYYY-MM-DD), отчёт печатается в stdout в JSON.`,
	RunE: runRemind,
}

var (
	remindNow     string
	remindTimeout time.Duration
)

func init() {
	remindCmd.Flags().StringVar(&remindNow, "now", "", "override current time (RFC3339 or YYYY-MM-DD)")
	remindCmd.Flags().DurationVar(&remindTimeout, "timeout", 2*time.Minute, "run timeout")
	rootCmd.AddCommand(remindCmd)
}

func runRemind(cmd *cobra.Command, args []string) error {
	now, err := parseNow(remindNow)
	if err != nil {
		return err
	}

	config, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), remindTimeout)
	defer cancel()

	report, err := app.RunReminders(ctx, config, log, now)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func parseNow(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(domain.DateLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid --now %q", s)
}
