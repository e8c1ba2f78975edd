package pgdb

import (
	"context"
	"errors"
	"time"

	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/DRSN-tech/bakery-orders/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/bakery-orders/internal/usecase"
	"github.com/DRSN-tech/bakery-orders/pkg/e"
	"github.com/DRSN-tech/bakery-orders/pkg/tr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const orderColumns = `
	id, customer_name, phone_number, delivery_address, delivery_date,
	total, delivered, delivery_image_key, source, created_at, updated_at
`

// OrderRepo реализует репозиторий заказов поверх PostgreSQL.
type OrderRepo struct {
	pool *pgxpool.Pool
	conv converter.OrderConverter
}

func NewOrderRepo(pool *pgxpool.Pool, conv converter.OrderConverter) *OrderRepo {
	return &OrderRepo{
		pool: pool,
		conv: conv,
	}
}

// Create сохраняет заказ со строками. Требует транзакцию в контексте.
func (o *OrderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := o.conv.ToModel(order)
	query := `
		INSERT INTO orders (
			id, customer_name, phone_number, delivery_address, delivery_date,
			total, delivered, delivery_image_key, source
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	if err := tx.QueryRow(ctx, query,
		model.ID,
		model.CustomerName,
		model.PhoneNumber,
		model.DeliveryAddress,
		model.DeliveryDate,
		model.Total,
		model.Delivered,
		model.DeliveryImageKey,
		model.Source,
	).Scan(&model.CreatedAt); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := o.insertItems(ctx, tx, model.Items); err != nil {
		return nil, err
	}

	return o.conv.ToEntity(model), nil
}

// Update перезаписывает поля заказа и полностью заменяет его строки. Требует транзакцию в контексте.
func (o *OrderRepo) Update(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := o.conv.ToModel(order)
	query := `
		UPDATE orders SET
			customer_name = $2,
			phone_number = $3,
			delivery_address = $4,
			delivery_date = $5,
			total = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + orderColumns

	updated, err := scanOrder(tx.QueryRow(ctx, query,
		model.ID,
		model.CustomerName,
		model.PhoneNumber,
		model.DeliveryAddress,
		model.DeliveryDate,
		model.Total,
	))
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, model.ID); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := o.insertItems(ctx, tx, model.Items); err != nil {
		return nil, err
	}
	updated.Items = model.Items

	return o.conv.ToEntity(updated), nil
}

// MarkDelivered отмечает заказ доставленным и запоминает ключ фото.
func (o *OrderRepo) MarkDelivered(ctx context.Context, id uuid.UUID, imageKey string) (*domain.Order, error) {
	q := conn(ctx, o.pool)

	query := `
		UPDATE orders SET
			delivered = true,
			delivery_image_key = CASE WHEN $2 = '' THEN delivery_image_key ELSE $2 END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + orderColumns

	model, err := scanOrder(q.QueryRow(ctx, query, id, imageKey))
	if err != nil {
		return nil, err
	}

	items, err := o.loadItems(ctx, q, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	model.Items = items[id]

	return o.conv.ToEntity(model), nil
}

func (o *OrderRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	q := conn(ctx, o.pool)

	model, err := scanOrder(q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	items, err := o.loadItems(ctx, q, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	model.Items = items[id]

	return o.conv.ToEntity(model), nil
}

// List возвращает заказы: ближайшие доставки первыми, заказы без даты в конце.
func (o *OrderRepo) List(ctx context.Context, filter usecase.OrderFilter) ([]domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE ($1::boolean IS NULL OR delivered = $1)
		ORDER BY delivery_date ASC NULLS LAST, created_at DESC
	`

	return o.listOrders(ctx, query, filter.Delivered)
}

// ListUndeliveredBetween возвращает недоставленные заказы с датой доставки в [from, to).
func (o *OrderRepo) ListUndeliveredBetween(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE NOT delivered
		  AND delivery_date >= $1
		  AND delivery_date < $2
		ORDER BY delivery_date, created_at
	`

	return o.listOrders(ctx, query, from, to)
}

func (o *OrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, o.pool).Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrOrderNotFound)
	}

	return nil
}

func (o *OrderRepo) listOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	q := conn(ctx, o.pool)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var models []*converter.OrderModel
	for rows.Next() {
		model, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		models = append(models, model)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	ids := make([]uuid.UUID, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ID)
	}

	items, err := o.loadItems(ctx, q, ids)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Order, 0, len(models))
	for _, m := range models {
		m.Items = items[m.ID]
		result = append(result, *o.conv.ToEntity(m))
	}

	return result, nil
}

func (o *OrderRepo) insertItems(ctx context.Context, tx pgx.Tx, items []converter.OrderItemModel) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (order_id, position, product, quantity, unit_price, total)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(query, it.OrderID, it.Position, it.Product, it.Quantity, it.UnitPrice, it.Total)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (o *OrderRepo) loadItems(ctx context.Context, q querier, ids []uuid.UUID) (map[uuid.UUID][]converter.OrderItemModel, error) {
	result := make(map[uuid.UUID][]converter.OrderItemModel, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `
		SELECT order_id, position, product, quantity, unit_price, total
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	for rows.Next() {
		var it converter.OrderItemModel
		if err := rows.Scan(&it.OrderID, &it.Position, &it.Product, &it.Quantity, &it.UnitPrice, &it.Total); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result[it.OrderID] = append(result[it.OrderID], it)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func scanOrder(row pgx.Row) (*converter.OrderModel, error) {
	var m converter.OrderModel
	err := row.Scan(
		&m.ID, &m.CustomerName, &m.PhoneNumber, &m.DeliveryAddress, &m.DeliveryDate,
		&m.Total, &m.Delivered, &m.DeliveryImageKey, &m.Source, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrOrderNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &m, nil
}
