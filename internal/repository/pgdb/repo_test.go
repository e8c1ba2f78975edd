package pgdb

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/DRSN-tech/bakery-orders/internal/cfg"
	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/DRSN-tech/bakery-orders/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/bakery-orders/internal/usecase"
	"github.com/DRSN-tech/bakery-orders/pkg/e"
	"github.com/DRSN-tech/bakery-orders/pkg/logger"
	"github.com/DRSN-tech/bakery-orders/pkg/postgres"
	"github.com/DRSN-tech/bakery-orders/pkg/tr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// getPool подключается к POSTGRES_DSN, накатывает миграции и очищает таблицы.
func getPool(t *testing.T) *pgxpool.Pool {
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Skipf("Postgres not available: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("Postgres not available: %v", err)
	}
	t.Cleanup(pool.Close)

	db := postgres.NewPgDatabase(pool, &cfg.PGDBCfg{MigrationsURL: "file://../../../db/migrations"}, dsn)
	if err := db.RunMigrations(logger.NewNopLogger()); err != nil {
		t.Fatalf("migrations: %v", err)
	}

	if _, err := pool.Exec(ctx, `TRUNCATE outbox_events, order_items, orders, products RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	return pool
}

func TestProductRepo_UpsertListArchive(t *testing.T) {
	pool := getPool(t)
	repo := NewProductRepo(pool, converter.ProductConverterImpl{})
	ctx := context.Background()

	res, err := repo.Upsert(ctx, domain.NewProduct("Tarte", decimal.RequireFromString("12.50")))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if res.NoChanges {
		t.Error("first upsert must create the product")
	}

	again, err := repo.Upsert(ctx, domain.NewProduct("Tarte", decimal.RequireFromString("12.5")))
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if !again.NoChanges || again.Product.ID != res.Product.ID {
		t.Errorf("same price must be a no-op, got %+v", again)
	}

	if _, err := repo.Upsert(ctx, domain.NewProduct("Pain", decimal.RequireFromString("2"))); err != nil {
		t.Fatalf("upsert pain: %v", err)
	}

	products, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(products) != 2 || products[0].Name != "Pain" {
		t.Errorf("list must be ordered by price, got %+v", products)
	}

	if err := repo.Archive(ctx, res.Product.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if err := repo.Archive(ctx, res.Product.ID); !errors.Is(err, e.ErrProductNotFound) {
		t.Errorf("second archive err = %v, want ErrProductNotFound", err)
	}

	products, _ = repo.List(ctx)
	if len(products) != 1 {
		t.Errorf("archived product still listed: %+v", products)
	}

	restored, err := repo.Upsert(ctx, domain.NewProduct("Tarte", decimal.RequireFromString("12.50")))
	if err != nil || restored.NoChanges || restored.Product.IsArchived {
		t.Errorf("upsert must restore archived product: %+v, %v", restored, err)
	}
}

func TestOrderRepo_Lifecycle(t *testing.T) {
	pool := getPool(t)
	orders := NewOrderRepo(pool, converter.OrderConverterImpl{})
	outbox := NewOutboxEventRepo(pool, converter.OutboxEventConverterImpl{})
	txm := tr.NewManager(pool)
	ctx := context.Background()

	date := domain.Date(2026, 10, 21)
	draft := domain.OrderDraft{
		CustomerName: "Karim",
		PhoneNumber:  "0612345678",
		DeliveryDate: &date,
		Items: []domain.OrderItem{
			domain.NewOrderItem("Tarte", 2, decimal.RequireFromString("12.50")),
			domain.NewOrderItem("Pain", 3, decimal.RequireFromString("2")),
		},
	}
	draft.Recalculate()
	order := domain.NewOrder(draft, domain.OrderSourceAdmin)

	if _, err := orders.Create(ctx, order); !errors.Is(err, e.ErrTransactionNotFound) {
		t.Fatalf("create without tx err = %v", err)
	}

	err := txm.Do(ctx, func(ctx context.Context) error {
		if _, err := orders.Create(ctx, order); err != nil {
			return err
		}
		_, err := outbox.Create(ctx, usecase.NewOutboxEvent(domain.NewOrderEvent(domain.OrderCreated, order, time.Now()), []byte(`{"ok":true}`)))
		return err
	})
	if err != nil {
		t.Fatalf("create in tx: %v", err)
	}

	got, err := orders.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Items) != 2 || got.Items[0].Product != "Tarte" || !got.Total.Equal(decimal.RequireFromString("31")) {
		t.Errorf("stored order = %+v", got)
	}

	found, err := orders.ListUndeliveredBetween(ctx, date, date.AddDate(0, 0, 1))
	if err != nil || len(found) != 1 {
		t.Errorf("undelivered on %s: %d, %v", domain.FormatDate(date), len(found), err)
	}

	if _, err := orders.MarkDelivered(ctx, order.ID, "photo.jpg"); err != nil {
		t.Fatalf("mark delivered: %v", err)
	}

	delivered := true
	list, err := orders.List(ctx, usecase.OrderFilter{Delivered: &delivered})
	if err != nil || len(list) != 1 || list[0].DeliveryImageKey != "photo.jpg" {
		t.Errorf("delivered list = %+v, %v", list, err)
	}

	events, err := outbox.GetAndMarkAsProcessing(ctx, 10)
	if err != nil || len(events) != 1 || events[0].OrderID != order.ID {
		t.Fatalf("outbox events = %+v, %v", events, err)
	}
	if err := outbox.MarkAsPending(ctx, events[0].ID); err != nil {
		t.Fatalf("mark pending: %v", err)
	}
	events, _ = outbox.GetAndMarkAsProcessing(ctx, 10)
	if len(events) != 1 {
		t.Fatalf("requeued event not fetched again")
	}
	if err := outbox.MarkAsProcessed(ctx, events[0].ID); err != nil {
		t.Fatalf("mark processed: %v", err)
	}

	ps, err := NewStatisticsRepo(pool).ProductStats(ctx)
	if err != nil || len(ps) != 2 || ps[0].Product != "Pain" || ps[0].TotalQuantity != 3 {
		t.Errorf("product stats = %+v, %v", ps, err)
	}
	cs, err := NewStatisticsRepo(pool).CustomerStats(ctx)
	if err != nil || len(cs) != 1 || !cs[0].TotalSpent.Equal(decimal.RequireFromString("31")) {
		t.Errorf("customer stats = %+v, %v", cs, err)
	}

	if err := orders.Delete(ctx, order.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := orders.Get(ctx, order.ID); !errors.Is(err, e.ErrOrderNotFound) {
		t.Errorf("get after delete err = %v", err)
	}
	if err := orders.Delete(ctx, uuid.New()); !errors.Is(err, e.ErrOrderNotFound) {
		t.Errorf("delete unknown err = %v", err)
	}
}
