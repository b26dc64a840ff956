package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/repository"
)

type Transactions struct {
	s *Store
}

func (r *Transactions) Insert(ctx context.Context, t *model.Transaction) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.transactions.rows[t.ID]; ok {
		return fmt.Errorf("Transactions.Insert: %w", repository.ErrDuplicate)
	}
	r.s.transactions.put(ctx, *t)
	return nil
}

func (r *Transactions) GetByID(ctx context.Context, id string) (*model.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.transactions.get(id)
	if !ok {
		return nil, fmt.Errorf("Transactions.GetByID: %w", repository.ErrNotFound)
	}
	return t, nil
}

func transactionMatch(f repository.TransactionFilter) func(*model.Transaction) bool {
	return func(t *model.Transaction) bool {
		if f.UserID != "" && t.UserID != f.UserID {
			return false
		}
		if f.Type != "" && t.Type != f.Type {
			return false
		}
		if f.Status != "" && t.Status != f.Status {
			return false
		}
		return true
	}
}

func (r *Transactions) List(ctx context.Context, f repository.TransactionFilter) ([]model.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := r.s.transactions.filter(transactionMatch(f))
	sortNewest(out, func(t *model.Transaction) (time.Time, string) { return t.CreatedAt, t.ID })
	return paginate(out, f.Page), nil
}

func (r *Transactions) Count(ctx context.Context, f repository.TransactionFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.transactions.filter(transactionMatch(f)))), nil
}

func (r *Transactions) Transition(ctx context.Context, c repository.StatusChange) (*model.Transaction, error) {
	defer r.s.lock(ctx)()

	t, ok := r.s.transactions.rows[c.ID]
	if !ok {
		return nil, fmt.Errorf("Transactions.Transition: %w", repository.ErrNotFound)
	}
	if t.Type != c.Type || t.Status != c.From {
		return nil, fmt.Errorf("Transactions.Transition: %w", repository.ErrStateConflict)
	}
	t.Status = c.To
	t.UpdatedAt = c.At
	if c.AdminNotes != "" {
		t.AdminNotes = c.AdminNotes
	}
	switch c.To {
	case model.TxCompleted:
		at := c.At
		t.CompletedAt = &at
	case model.TxPending:
		t.CompletedAt = nil
	}
	r.s.transactions.put(ctx, t)
	out := cloneTransaction(t)
	return &out, nil
}
