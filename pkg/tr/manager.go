package tr

import (
	"context"
	"fmt"

	"github.com/DRSN-tech/bakery-orders/pkg/e"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

// Manager открывает транзакцию pgx и передаёт её репозиториям через контекст.
type Manager struct {
	db transaction.Transactional
}

func NewManager(db transaction.Transactional) *Manager {
	return &Manager{db: db}
}

// Do выполняет fn в транзакции: коммит при успехе, откат при ошибке или панике.
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	const op = "Manager.Do"

	txCtx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, m.db)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(txCtx)
			panic(p)
		}
		if err != nil && tx.IsActive() {
			_ = tx.Rollback(txCtx)
		}
	}()

	pgxTx, ok := tx.Transaction().(pgx.Tx)
	if !ok {
		return e.Wrap(op, fmt.Errorf("unexpected transaction type %T", tx.Transaction()))
	}

	if err = fn(WithTx(txCtx, pgxTx)); err != nil {
		return err
	}

	if err = tx.Commit(txCtx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}
