package app

import (
	"context"
	"time"

	"github.com/DRSN-tech/bakery-orders/internal/cfg"
	"github.com/DRSN-tech/bakery-orders/internal/metrics"
	"github.com/DRSN-tech/bakery-orders/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/bakery-orders/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/bakery-orders/internal/usecase"
	"github.com/DRSN-tech/bakery-orders/pkg/e"
	"github.com/DRSN-tech/bakery-orders/pkg/logger"
	"github.com/DRSN-tech/bakery-orders/pkg/postgres"
	"github.com/jimlawless/whereami"
)

// Migrate применяет миграции и завершается.
func Migrate(cfg *cfg.Config, log logger.Logger) error {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer db.Close()

	if err := db.RunMigrations(log); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// RunReminders выполняет один прогон напоминаний. Рассчитан на запуск из cron.
func RunReminders(ctx context.Context, cfg *cfg.Config, log logger.Logger, now time.Time) (*usecase.ReminderReport, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer db.Close()

	notifier, err := newNotifier(cfg.Reminder, log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	orderRepo := pgdb.NewOrderRepo(db.Pool, pgdbConv.OrderConverterImpl{})
	uc := usecase.NewReminderUC(orderRepo, notifier, cfg.Reminder.Lead, cfg.Reminder.Location, metrics.NewRegistry(), log)

	report, err := uc.Run(ctx, now)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return report, nil
}
