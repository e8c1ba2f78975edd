package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/DRSN-tech/bakery-orders/pkg/e"
	"github.com/DRSN-tech/bakery-orders/pkg/logger"
	"github.com/google/uuid"
)

// ReminderUseCase напоминает о заказах, которые нужно доставить через lead.
type ReminderUseCase struct {
	orderRepo OrderRepository
	notifier  Notifier // nil, если отправка не настроена
	lead      time.Duration
	loc       *time.Location
	metrics   Metrics
	logger    logger.Logger
}

func NewReminderUC(
	orderRepo OrderRepository,
	notifier Notifier,
	lead time.Duration,
	loc *time.Location,
	metrics Metrics,
	logger logger.Logger,
) *ReminderUseCase {
	if loc == nil {
		loc = time.UTC
	}

	return &ReminderUseCase{
		orderRepo: orderRepo,
		notifier:  notifier,
		lead:      lead,
		loc:       loc,
		metrics:   metrics,
		logger:    logger,
	}
}

// Run находит недоставленные заказы на календарный день now+lead и отправляет по
// напоминанию на каждый. Ошибка отправки одного напоминания не прерывает прогон.
func (r *ReminderUseCase) Run(ctx context.Context, now time.Time) (*ReminderReport, error) {
	const op = "ReminderUseCase.Run"

	target := now.In(r.loc).Add(r.lead)
	day := domain.Date(target.Year(), target.Month(), target.Day())

	orders, err := r.orderRepo.ListUndeliveredBetween(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	report := &ReminderReport{
		DeliveryDate: day,
		Found:        len(orders),
		OrderIDs:     make([]uuid.UUID, 0, len(orders)),
		Dispatched:   r.notifier != nil,
	}
	for _, o := range orders {
		report.OrderIDs = append(report.OrderIDs, o.ID)
	}

	r.logger.Infof("Found %d orders to remind about for %s", len(orders), domain.FormatDate(day))
	if r.notifier == nil {
		r.logger.Warnf("reminder notifier not configured, nothing sent")
		return report, nil
	}

	for _, o := range orders {
		if err := r.notifier.Notify(ctx, ReminderMessage(o)); err != nil {
			r.logger.Warnf("reminder for order %s failed: %v", o.ID, e.Wrap(op, err))
			r.metrics.IncReminder("failed")
			report.Failures = append(report.Failures, ReminderFailure{OrderID: o.ID, Error: err.Error()})
			continue
		}

		r.metrics.IncReminder("sent")
		report.Sent++
	}

	return report, nil
}

// ReminderMessage — текст напоминания на французском, как его читают в пекарне.
func ReminderMessage(o domain.Order) string {
	var b strings.Builder
	b.WriteString("🔔 Rappel de livraison\n\n")
	fmt.Fprintf(&b, "Commande pour: %s\n", o.CustomerName)
	fmt.Fprintf(&b, "Téléphone: %s\n", o.PhoneNumber)
	fmt.Fprintf(&b, "Montant: %s DH\n", o.Total.String())
	if o.DeliveryDate != nil {
		fmt.Fprintf(&b, "Livraison prévue: %s\n", frenchLongDate(*o.DeliveryDate))
	}
	b.WriteString("\nN'oubliez pas de préparer cette commande!")

	return b.String()
}

var (
	frenchWeekdays = [...]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"}
	frenchMonths   = [...]string{"janvier", "février", "mars", "avril", "mai", "juin",
		"juillet", "août", "septembre", "octobre", "novembre", "décembre"}
)

// frenchLongDate: "samedi 14 février 2026".
func frenchLongDate(t time.Time) string {
	return fmt.Sprintf("%s %d %s %d", frenchWeekdays[t.Weekday()], t.Day(), frenchMonths[t.Month()-1], t.Year())
}
