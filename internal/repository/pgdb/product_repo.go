package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/DRSN-tech/bakery-orders/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/bakery-orders/internal/usecase"
	"github.com/DRSN-tech/bakery-orders/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// List возвращает активные товары, отсортированные по цене.
func (p *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, price, created_at, updated_at, is_archived
		FROM products
		WHERE NOT is_archived
		ORDER BY price, id
	`

	rows, err := conn(ctx, p.pool).Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		var model converter.ProductModel
		if err := rows.Scan(
			&model.ID, &model.Name, &model.Price,
			&model.CreatedAt, &model.UpdatedAt, &model.IsArchived,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *p.conv.ToEntity(&model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

// Upsert идемпотентно создаёт или обновляет продукт по уникальному имени.
// Запись обновляется только при изменении цены или если товар был в архиве.
func (p *ProductRepo) Upsert(ctx context.Context, product *domain.Product) (*usecase.UpsertProductRes, error) {
	model := p.conv.ToModel(product)

	// VALUES ($1, $2) name, price
	query := `
		WITH upsert AS (
		INSERT INTO products (name, price)
		VALUES ($1, $2)
		ON CONFLICT (name)
		DO UPDATE SET
			price = EXCLUDED.price,
			is_archived = false,
			updated_at = NOW()
		WHERE
			products.price IS DISTINCT FROM EXCLUDED.price OR
			products.is_archived
		RETURNING
			id, name, price, created_at, updated_at, is_archived
		)
		SELECT
			id, name, price, created_at, updated_at, is_archived,
			false AS no_changes
		FROM upsert

		UNION ALL

		SELECT
			id, name, price, created_at, updated_at, is_archived,
			true AS no_changes
		FROM products
		WHERE name = $1
		  AND NOT EXISTS (SELECT 1 FROM upsert);
	`

	var noChanges bool
	err := conn(ctx, p.pool).QueryRow(ctx, query, model.Name, model.Price).
		Scan(
			&model.ID, &model.Name, &model.Price,
			&model.CreatedAt, &model.UpdatedAt, &model.IsArchived, &noChanges,
		)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return usecase.NewUpsertProductRes(p.conv.ToEntity(model), noChanges), nil
}

// Archive скрывает товар из каталога, не трогая историю заказов.
func (p *ProductRepo) Archive(ctx context.Context, id int64) error {
	query := `
		UPDATE products
		SET is_archived = true, updated_at = NOW()
		WHERE id = $1 AND NOT is_archived
		RETURNING id
	`

	var archivedID int64
	if err := conn(ctx, p.pool).QueryRow(ctx, query, id).Scan(&archivedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
