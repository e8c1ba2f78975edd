package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DRSN-tech/bakery-orders/internal/cfg"
	v1Grpc "github.com/DRSN-tech/bakery-orders/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/bakery-orders/internal/delivery/v1/http"
	"github.com/DRSN-tech/bakery-orders/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/bakery-orders/internal/infrastructure/minio"
	"github.com/DRSN-tech/bakery-orders/internal/infrastructure/telegram"
	"github.com/DRSN-tech/bakery-orders/internal/metrics"
	s3Repo "github.com/DRSN-tech/bakery-orders/internal/repository/minio"
	pebbleRepo "github.com/DRSN-tech/bakery-orders/internal/repository/pebble"
	pebbleConv "github.com/DRSN-tech/bakery-orders/internal/repository/pebble/converter"
	"github.com/DRSN-tech/bakery-orders/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/bakery-orders/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/bakery-orders/internal/repository/redis"
	redisConv "github.com/DRSN-tech/bakery-orders/internal/repository/redis/converter"
	"github.com/DRSN-tech/bakery-orders/internal/usecase"
	"github.com/DRSN-tech/bakery-orders/pkg/clients"
	"github.com/DRSN-tech/bakery-orders/pkg/closer"
	"github.com/DRSN-tech/bakery-orders/pkg/e"
	"github.com/DRSN-tech/bakery-orders/pkg/logger"
	"github.com/DRSN-tech/bakery-orders/pkg/postgres"
	"github.com/DRSN-tech/bakery-orders/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	shutdownTimeout = 15 * time.Second
	initTimeout     = 10 * time.Second
)

// App — собранный сервис: HTTP API, gRPC health и воркер outbox.
type App struct {
	cfg    *cfg.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv      *v1Http.Server
	grpcSrv      *v1Grpc.GRPCServer
	outboxWorker *kafka.OutboxWorker

	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

// NewApp поднимает все зависимости. При ошибке уже открытые ресурсы закрываются.
func NewApp(cfg *cfg.Config, log logger.Logger) (_ *App, err error) {
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())
	a := &App{
		cfg:            cfg,
		logger:         log,
		closer:         closer.NewCloser(5 * time.Second),
		shutdownCtx:    shutdownCtx,
		shutdownCancel: shutdownCancel,
	}

	defer func() {
		if err != nil {
			shutdownCancel()
			if cerr := a.closer.Close(context.Background()); cerr != nil {
				log.Warnf("close after failed init: %v", cerr)
			}
		}
	}()

	db, err := initPGDB(log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.AddSimple("postgres", func() error { db.Close(); return nil })

	redisClient := clients.NewRedisClient(cfg.Redis)
	a.closer.AddSimple("redis", redisClient.Close)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), initTimeout)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	draftDB, err := clients.NewPebbleDB(cfg.Draft)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.AddSimple("pebble", draftDB.Close)

	minioClient, err := clients.NewMinIOClient(cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	minioCtx, minioCancel := context.WithTimeout(context.Background(), initTimeout)
	defer minioCancel()
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.AddSimple("kafka producer", producer.Close)
	if err := producer.EnsureTopic(initTimeout); err != nil {
		// топик может создать и сам брокер при первой записи
		log.Warnf("kafka topic %s not ensured: %v", cfg.Kafka.Topic, err)
	}

	reg := metrics.NewRegistry()
	txManager := tr.NewManager(db.Pool)

	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.ProductConverterImpl{})
	orderRepo := pgdb.NewOrderRepo(db.Pool, pgdbConv.OrderConverterImpl{})
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.OutboxEventConverterImpl{})
	statsRepo := pgdb.NewStatisticsRepo(db.Pool)
	cacheRepo := redis.NewCatalogCacheRepo(redisClient, redisConv.NewCatalogConverter(), cfg.Redis, log)
	draftRepo := pebbleRepo.NewDraftRepo(draftDB, pebbleConv.NewDraftConverter(), log)
	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)

	imagesInfra := minioInfra.NewMinioInfrastructure(imageRepo, log, shutdownCtx)
	a.closer.Add("minio cleanup", imagesInfra.WaitForCleanup)

	notifier, err := newNotifier(cfg.Reminder, log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	productUC := usecase.NewProductUC(productRepo, cacheRepo, log)
	ucs := v1Http.UseCases{
		Draft:      usecase.NewDraftUC(draftRepo, productUC, orderRepo, outboxRepo, txManager, reg, log),
		Orders:     usecase.NewOrderUC(orderRepo, outboxRepo, imagesInfra, txManager, draftRepo, reg, log),
		Products:   productUC,
		Statistics: usecase.NewStatisticsUC(statsRepo),
		Reminders:  usecase.NewReminderUC(orderRepo, notifier, cfg.Reminder.Lead, cfg.Reminder.Location, reg, log),
	}

	if cfg.Http.SyncSecret == "" {
		log.Warnf("SYNC_WEBHOOK_SECRET is not set, order sync webhook rejects all requests")
	}
	r := chi.NewRouter()
	v1Http.NewRouter(r, log).Init(ucs, v1Http.Options{
		Metrics:    reg.Handler(),
		SyncSecret: cfg.Http.SyncSecret,
	})
	a.httpSrv = v1Http.NewServer(r, cfg.Http)
	a.grpcSrv = v1Grpc.NewGRPCServer(cfg.Grpc, log)
	a.outboxWorker = kafka.NewOutboxWorker(outboxRepo, log, producer, cfg.Outbox, db.Dsn)

	return a, nil
}

// Run запускает серверы и воркер и блокируется до сигнала остановки или фатальной ошибки.
func (a *App) Run() error {
	errCh := make(chan error, 2)

	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			errCh <- e.Wrap("gRPC server", err)
		}
	}()

	go func() {
		a.logger.Infof("HTTP server started on %s", a.httpSrv.Addr())
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- e.Wrap("HTTP server", err)
		}
	}()

	a.outboxWorker.Start(a.shutdownCtx)

	// порядок LIFO: сначала перестаём принимать запросы, затем останавливаем воркер
	a.closer.AddSimple("outbox worker", func() error { a.outboxWorker.Stop(); return nil })
	a.closer.Add("gRPC server", a.grpcSrv.Stop)
	a.closer.Add("HTTP server", a.httpSrv.Stop)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "server fatal error")
	case sig := <-shutdown:
		a.logger.Infof("Received %s, stopping gracefully...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	closeErr := a.closer.Close(ctx)
	a.shutdownCancel()
	if closeErr != nil {
		a.logger.Errorf(closeErr, "shutdown")
	}

	a.logger.Infof("Application shutdown complete")
	return errors.Join(appErr, closeErr)
}

// newNotifier возвращает nil, если отправка напоминаний не настроена.
func newNotifier(cfg *cfg.ReminderCfg, log logger.Logger) (usecase.Notifier, error) {
	if !cfg.Enabled() {
		log.Warnf("telegram reminders are not configured, reminder runs will only report orders")
		return nil, nil
	}

	bot, err := clients.NewTelegramBot(cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return telegram.NewNotifier(bot, cfg.ChatID, log), nil
}

func initPGDB(logger logger.Logger, cfg *cfg.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
