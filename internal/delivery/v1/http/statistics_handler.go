package http

import (
	"net/http"
	"time"

	"github.com/DRSN-tech/bakery-orders/internal/usecase"
	"github.com/DRSN-tech/bakery-orders/pkg/logger"
)

type StatisticsHandler struct {
	statisticsUsecase usecase.StatisticsUC
	logger            logger.Logger
}

func NewStatisticsHandler(statisticsUsecase usecase.StatisticsUC, logger logger.Logger) *StatisticsHandler {
	return &StatisticsHandler{statisticsUsecase: statisticsUsecase, logger: logger}
}

// productStats
//
//	@Summary	Продажи по товарам
//	@Tags		statistics
//	@Produce	json
//	@Success	200	{array}	ProductStatsDTO
//	@Router		/statistics/products [get]
func (s *StatisticsHandler) productStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.statisticsUsecase.ProductStats(r.Context())
	if err != nil {
		s.logger.Errorf(err, "product stats")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newProductStatsDTOs(stats))
}

// customerStats
//
//	@Summary	Клиенты по сумме заказов
//	@Tags		statistics
//	@Produce	json
//	@Success	200	{array}	CustomerStatsDTO
//	@Router		/statistics/customers [get]
func (s *StatisticsHandler) customerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.statisticsUsecase.CustomerStats(r.Context())
	if err != nil {
		s.logger.Errorf(err, "customer stats")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newCustomerStatsDTOs(stats))
}

type ReminderHandler struct {
	reminderUsecase usecase.ReminderUC
	logger          logger.Logger
	now             func() time.Time
}

func NewReminderHandler(reminderUsecase usecase.ReminderUC, logger logger.Logger) *ReminderHandler {
	return &ReminderHandler{reminderUsecase: reminderUsecase, logger: logger, now: time.Now}
}

// runReminders
//
//	@Summary		Прогон напоминаний о доставке
//	@Description	Отправляет напоминания по недоставленным заказам на день через заданный интервал
//	@Tags			reminders
//	@Produce		json
//	@Success		200	{object}	ReminderReportDTO
//	@Router			/reminders/run [post]
func (h *ReminderHandler) runReminders(w http.ResponseWriter, r *http.Request) {
	report, err := h.reminderUsecase.Run(r.Context(), h.now())
	if err != nil {
		h.logger.Errorf(err, "reminder run")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newReminderReportDTO(report))
}
