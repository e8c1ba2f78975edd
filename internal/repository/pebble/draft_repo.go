package pebble

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/DRSN-tech/bakery-orders/internal/repository/pebble/converter"
	"github.com/DRSN-tech/bakery-orders/pkg/e"
	"github.com/DRSN-tech/bakery-orders/pkg/logger"
	pdb "github.com/cockroachdb/pebble"
	"github.com/jimlawless/whereami"
)

// draftKey — единственный слот черновика: одновременно заполняется только одна форма.
var draftKey = []byte("order_draft")

type DraftRepo struct {
	db     *pdb.DB
	conv   converter.DraftConverter
	logger logger.Logger
}

func NewDraftRepo(db *pdb.DB, conv converter.DraftConverter, logger logger.Logger) *DraftRepo {
	return &DraftRepo{
		db:     db,
		conv:   conv,
		logger: logger,
	}
}

// Save перезаписывает слот черновика.
func (r *DraftRepo) Save(_ context.Context, draft domain.OrderDraft) error {
	data, err := json.Marshal(r.conv.ToModel(draft))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := r.db.Set(draftKey, data, pdb.Sync); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Load читает черновик. Отсутствующий или повреждённый слот даёт false, ошибка только логируется.
func (r *DraftRepo) Load(_ context.Context) (*domain.OrderDraft, bool) {
	value, closer, err := r.db.Get(draftKey)
	if err != nil {
		if !errors.Is(err, pdb.ErrNotFound) {
			r.logger.Warnf("draft read failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, false
	}
	data := append([]byte(nil), value...)
	_ = closer.Close()

	draft, err := r.decode(data)
	if err != nil {
		r.logger.Warnf("stored draft is corrupt, starting empty: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, false
	}

	return &draft, true
}

// Clear удаляет слот черновика.
func (r *DraftRepo) Clear(_ context.Context) error {
	if err := r.db.Delete(draftKey, pdb.Sync); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (r *DraftRepo) decode(data []byte) (domain.OrderDraft, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return domain.OrderDraft{}, fmt.Errorf("draft is not a JSON object")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var model converter.DraftModel
	if err := dec.Decode(&model); err != nil {
		return domain.OrderDraft{}, err
	}

	return r.conv.ToDomain(model)
}
