package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/repository"
)

// Tickets stands in for the PostgreSQL ticket repository when no
// DATABASE_URL is configured.
type Tickets struct {
	s *Store
}

func (r *Tickets) Create(ctx context.Context, t *model.Ticket) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.tickets.rows[t.ID]; ok {
		return fmt.Errorf("Tickets.Create: %w", repository.ErrDuplicate)
	}
	r.s.tickets.put(ctx, *t)
	return nil
}

func (r *Tickets) GetByID(ctx context.Context, id string) (*model.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tickets.get(id)
	if !ok {
		return nil, fmt.Errorf("Tickets.GetByID: %w", repository.ErrNotFound)
	}
	return t, nil
}

func ticketMatch(f repository.TicketFilter) func(*model.Ticket) bool {
	return func(t *model.Ticket) bool {
		if f.Status != "" && t.Status != f.Status {
			return false
		}
		if f.Priority != "" && t.Priority != f.Priority {
			return false
		}
		return true
	}
}

func (r *Tickets) List(ctx context.Context, f repository.TicketFilter) ([]model.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := r.s.tickets.filter(ticketMatch(f))
	sortNewest(out, func(t *model.Ticket) (time.Time, string) { return t.CreatedAt, t.ID })
	return paginate(out, f.Page), nil
}

func (r *Tickets) Count(ctx context.Context, f repository.TicketFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.tickets.filter(ticketMatch(f)))), nil
}

func (r *Tickets) Update(ctx context.Context, t *model.Ticket) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.tickets.rows[t.ID]; !ok {
		return fmt.Errorf("Tickets.Update: %w", repository.ErrNotFound)
	}
	r.s.tickets.put(ctx, *t)
	return nil
}
