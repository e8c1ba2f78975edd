package pgdb

import (
	"context"

	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/DRSN-tech/bakery-orders/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/bakery-orders/pkg/e"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// StatisticsRepo агрегирует продажи по товарам и клиентам.
type StatisticsRepo struct {
	pool *pgxpool.Pool
}

func NewStatisticsRepo(pool *pgxpool.Pool) *StatisticsRepo {
	return &StatisticsRepo{pool: pool}
}

func (s *StatisticsRepo) ProductStats(ctx context.Context) ([]domain.ProductStats, error) {
	query := `
		SELECT product,
		       SUM(quantity)::bigint   AS total_quantity,
		       SUM(total)::bigint      AS total_revenue,
		       COUNT(DISTINCT order_id) AS order_count
		FROM order_items
		GROUP BY product
		ORDER BY total_quantity DESC, product
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.ProductStats, 0)
	for rows.Next() {
		var (
			st      domain.ProductStats
			revenue int64
		)
		if err := rows.Scan(&st.Product, &st.TotalQuantity, &revenue, &st.OrderCount); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		st.TotalRevenue = converter.FromCents(revenue)
		result = append(result, st)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

// CustomerStats группирует заказы по паре (имя, телефон).
func (s *StatisticsRepo) CustomerStats(ctx context.Context) ([]domain.CustomerStats, error) {
	query := `
		SELECT customer_name,
		       phone_number,
		       COUNT(*)           AS order_count,
		       SUM(total)::bigint AS total_spent,
		       MAX(delivery_date) AS last_order_date
		FROM orders
		GROUP BY customer_name, phone_number
		ORDER BY total_spent DESC, customer_name
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.CustomerStats, 0)
	for rows.Next() {
		var (
			st    domain.CustomerStats
			spent int64
		)
		if err := rows.Scan(&st.CustomerName, &st.PhoneNumber, &st.OrderCount, &spent, &st.LastOrderDate); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		st.TotalSpent = converter.FromCents(spent)
		result = append(result, st)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
