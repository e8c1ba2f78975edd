package clients

import (
	"path/filepath"

	"github.com/DRSN-tech/bakery-orders/internal/cfg"
	"github.com/DRSN-tech/bakery-orders/pkg/e"
	"github.com/cockroachdb/pebble"
	"github.com/jimlawless/whereami"
)

// NewPebbleDB открывает локальную базу черновика. Записей в ней единицы, поэтому
// используются настройки Pebble по умолчанию.
func NewPebbleDB(cfg *cfg.DraftCfg) (*pebble.DB, error) {
	db, err := pebble.Open(filepath.Clean(cfg.Dir), &pebble.Options{})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
