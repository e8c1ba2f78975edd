package http

import (
	"net/http"
	"time"

	_ "github.com/DRSN-tech/bakery-orders/docs" // регистрация swagger-спецификации
	"github.com/DRSN-tech/bakery-orders/internal/usecase"
	"github.com/DRSN-tech/bakery-orders/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// UseCases — сценарии, которые обслуживает HTTP API.
type UseCases struct {
	Draft      usecase.DraftUC
	Orders     usecase.OrderUC
	Products   usecase.ProductUC
	Statistics usecase.StatisticsUC
	Reminders  usecase.ReminderUC
}

// Options — необязательные части роутера.
type Options struct {
	Metrics    http.Handler // обработчик /metrics, может быть nil
	SyncSecret string       // секрет webhook /orders/sync
}

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

// Init регистрирует маршруты /api/v1, /metrics и /swagger.
func (r *Router) Init(ucs UseCases, opts Options) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.RealIP)
	r.router.Use(middleware.Recoverer)
	r.router.Use(r.logRequests)

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	if opts.Metrics != nil {
		r.router.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerDraftRoutes(v1, NewDraftHandler(ucs.Draft, r.logger))
		registerProductRoutes(v1, NewProductHandler(ucs.Products, r.logger))
		registerOrderRoutes(v1, NewOrderHandler(ucs.Orders, r.logger), NewSyncHandler(ucs.Orders, opts.SyncSecret, r.logger))
		registerStatisticsRoutes(v1, NewStatisticsHandler(ucs.Statistics, r.logger))
		registerReminderRoutes(v1, NewReminderHandler(ucs.Reminders, r.logger))
	})
}

func (r *Router) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, req)
		r.logger.Debugf("%s %s %d %s", req.Method, req.URL.Path, ww.Status(), time.Since(start))
	})
}

func registerDraftRoutes(router chi.Router, h *DraftHandler) {
	router.Route("/draft", func(dr chi.Router) {
		dr.Get("/", h.getDraft)
		dr.Patch("/", h.patchDraft)
		dr.Delete("/", h.discardDraft)
		dr.Post("/transcript", h.applyTranscript)
		dr.Post("/scans", h.applyScans)
		dr.Post("/submit", h.submitDraft)
	})
}

func registerProductRoutes(router chi.Router, h *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.listProducts)
		pr.Post("/", h.upsertProduct)
		pr.Delete("/{id}", h.deleteProduct)
	})
}

func registerOrderRoutes(router chi.Router, h *OrderHandler, sync *SyncHandler) {
	router.Route("/orders", func(or chi.Router) {
		or.With(sync.requireSecret).Post("/sync", sync.syncOrder)
		or.Get("/", h.listOrders)
		or.Get("/{id}", h.getOrder)
		or.Patch("/{id}", h.editOrder)
		or.Delete("/{id}", h.deleteOrder)
		or.Post("/{id}/delivered", h.markDelivered)
	})
}

func registerStatisticsRoutes(router chi.Router, h *StatisticsHandler) {
	router.Route("/statistics", func(st chi.Router) {
		st.Get("/products", h.productStats)
		st.Get("/customers", h.customerStats)
	})
}

func registerReminderRoutes(router chi.Router, h *ReminderHandler) {
	router.Post("/reminders/run", h.runReminders)
}
