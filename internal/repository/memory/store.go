// Package memory is an in-process implementation of the repository
// interfaces. It backs tests and STORAGE=memory development runs.
package memory

import (
	"context"
	"sync"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/repository"
)

// Store holds every collection behind one RWMutex. Units of work are
// serialised by txMu and undone from an in-context log on failure.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	users        *table[model.User]
	transactions *table[model.Transaction]
	posts        *table[model.MemberPost]
	properties   *table[model.Property]
	lands        *table[model.Land]
	sims         *table[model.Sim]
	news         *table[model.NewsArticle]
	tickets      *table[model.Ticket]
}

func New() *Store {
	return &Store{
		users:        newTable(func(u *model.User) string { return u.ID }, cloneUser),
		transactions: newTable(func(t *model.Transaction) string { return t.ID }, cloneTransaction),
		posts:        newTable(func(p *model.MemberPost) string { return p.ID }, cloneMemberPost),
		properties:   newTable(func(p *model.Property) string { return p.ID }, cloneProperty),
		lands:        newTable(func(l *model.Land) string { return l.ID }, cloneLand),
		sims:         newTable(func(s *model.Sim) string { return s.ID }, cloneSim),
		news:         newTable(func(a *model.NewsArticle) string { return a.ID }, cloneNews),
		tickets:      newTable(func(t *model.Ticket) string { return t.ID }, func(t model.Ticket) model.Ticket { return t }),
	}
}

// Set exposes the store through the repository interfaces.
func (s *Store) Set() repository.Set {
	return repository.Set{
		Users:        &Users{s: s},
		Transactions: &Transactions{s: s},
		MemberPosts:  &MemberPosts{s: s},
		Properties:   NewPropertyStore(s),
		Lands:        NewLandStore(s),
		Sims:         NewSimStore(s),
		News:         NewNewsStore(s),
		Tickets:      &Tickets{s: s},
		Tx:           s,
	}
}

type undoKey struct{}

type undoLog struct {
	ops []func()
}

func (u *undoLog) add(op func()) {
	u.ops = append(u.ops, op)
}

func undoFrom(ctx context.Context) *undoLog {
	u, _ := ctx.Value(undoKey{}).(*undoLog)
	return u
}

// WithinTx runs fn as a unit of work. Writes made through ctx are rolled
// back when fn returns an error. Nested calls join the outer unit.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if undoFrom(ctx) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	u := &undoLog{}
	if err := fn(context.WithValue(ctx, undoKey{}, u)); err != nil {
		s.mu.Lock()
		for i := len(u.ops) - 1; i >= 0; i-- {
			u.ops[i]()
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// lock takes the write lock and returns its release. Writes outside a unit
// of work also wait on txMu, so a rollback never restores a row over them.
func (s *Store) lock(ctx context.Context) func() {
	if undoFrom(ctx) != nil {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

// table is a keyed collection. Callers hold Store.mu.
type table[T any] struct {
	rows  map[string]T
	id    func(*T) string
	clone func(T) T
}

func newTable[T any](id func(*T) string, clone func(T) T) *table[T] {
	return &table[T]{rows: map[string]T{}, id: id, clone: clone}
}

func (t *table[T]) get(id string) (*T, bool) {
	v, ok := t.rows[id]
	if !ok {
		return nil, false
	}
	c := t.clone(v)
	return &c, true
}

func (t *table[T]) put(ctx context.Context, v T) {
	id := t.id(&v)
	prev, had := t.rows[id]
	t.rows[id] = t.clone(v)
	if u := undoFrom(ctx); u != nil {
		u.add(func() {
			if had {
				t.rows[id] = prev
			} else {
				delete(t.rows, id)
			}
		})
	}
}

func (t *table[T]) remove(ctx context.Context, id string) bool {
	prev, had := t.rows[id]
	if !had {
		return false
	}
	delete(t.rows, id)
	if u := undoFrom(ctx); u != nil {
		u.add(func() { t.rows[id] = prev })
	}
	return true
}

func (t *table[T]) filter(match func(*T) bool) []T {
	out := []T{}
	for _, v := range t.rows {
		if match(&v) {
			out = append(out, t.clone(v))
		}
	}
	return out
}
