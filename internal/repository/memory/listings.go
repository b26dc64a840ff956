package memory

import (
	"context"
	"fmt"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/repository"
)

// ListingStore implements repository.Store over one table of the Store.
type ListingStore[T any, F any] struct {
	name  string
	s     *Store
	tbl   *table[T]
	match func(F, *T) bool
	order func(F) (repository.Sort, repository.Page)
	keys  func(*T) sortKeys
	view  func(*T)
}

func NewPropertyStore(s *Store) *ListingStore[model.Property, repository.PropertyFilter] {
	return &ListingStore[model.Property, repository.PropertyFilter]{
		name:  "PropertyStore",
		s:     s,
		tbl:   s.properties,
		match: propertyMatch,
		order: func(f repository.PropertyFilter) (repository.Sort, repository.Page) { return f.Sort, f.Page },
		keys: func(p *model.Property) sortKeys {
			return sortKeys{id: p.ID, created: p.CreatedAt, price: p.Price, area: p.Area, views: p.Views}
		},
		view: func(p *model.Property) { p.Views++ },
	}
}

func NewLandStore(s *Store) *ListingStore[model.Land, repository.LandFilter] {
	return &ListingStore[model.Land, repository.LandFilter]{
		name:  "LandStore",
		s:     s,
		tbl:   s.lands,
		match: landMatch,
		order: func(f repository.LandFilter) (repository.Sort, repository.Page) { return f.Sort, f.Page },
		keys: func(l *model.Land) sortKeys {
			return sortKeys{id: l.ID, created: l.CreatedAt, price: l.Price, area: l.Area, views: l.Views}
		},
		view: func(l *model.Land) { l.Views++ },
	}
}

func NewSimStore(s *Store) *ListingStore[model.Sim, repository.SimFilter] {
	return &ListingStore[model.Sim, repository.SimFilter]{
		name:  "SimStore",
		s:     s,
		tbl:   s.sims,
		match: simMatch,
		order: func(f repository.SimFilter) (repository.Sort, repository.Page) { return f.Sort, f.Page },
		keys: func(m *model.Sim) sortKeys {
			return sortKeys{id: m.ID, created: m.CreatedAt, price: m.Price, views: m.Views}
		},
		view: func(m *model.Sim) { m.Views++ },
	}
}

func NewNewsStore(s *Store) *ListingStore[model.NewsArticle, repository.NewsFilter] {
	return &ListingStore[model.NewsArticle, repository.NewsFilter]{
		name:  "NewsStore",
		s:     s,
		tbl:   s.news,
		match: newsMatch,
		order: func(f repository.NewsFilter) (repository.Sort, repository.Page) { return repository.Sort{}, f.Page },
		keys: func(a *model.NewsArticle) sortKeys {
			return sortKeys{id: a.ID, created: a.CreatedAt, views: a.Views}
		},
		view: func(a *model.NewsArticle) { a.Views++ },
	}
}

func (l *ListingStore[T, F]) Insert(ctx context.Context, v *T) error {
	defer l.s.lock(ctx)()

	if _, ok := l.tbl.rows[l.tbl.id(v)]; ok {
		return fmt.Errorf("%s.Insert: %w", l.name, repository.ErrDuplicate)
	}
	l.tbl.put(ctx, *v)
	return nil
}

func (l *ListingStore[T, F]) Upsert(ctx context.Context, v *T) error {
	defer l.s.lock(ctx)()

	l.tbl.put(ctx, *v)
	return nil
}

func (l *ListingStore[T, F]) GetByID(ctx context.Context, id string) (*T, error) {
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()

	v, ok := l.tbl.get(id)
	if !ok {
		return nil, fmt.Errorf("%s.GetByID: %w", l.name, repository.ErrNotFound)
	}
	return v, nil
}

func (l *ListingStore[T, F]) View(ctx context.Context, id string) (*T, error) {
	defer l.s.lock(ctx)()

	v, ok := l.tbl.get(id)
	if !ok {
		return nil, fmt.Errorf("%s.View: %w", l.name, repository.ErrNotFound)
	}
	l.view(v)
	l.tbl.put(ctx, *v)
	return v, nil
}

func (l *ListingStore[T, F]) List(ctx context.Context, f F) ([]T, error) {
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()

	out := l.tbl.filter(func(v *T) bool { return l.match(f, v) })
	sort, page := l.order(f)
	sortListings(out, sort, l.keys)
	return paginate(out, page), nil
}

func (l *ListingStore[T, F]) Count(ctx context.Context, f F) (int64, error) {
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()
	return int64(len(l.tbl.filter(func(v *T) bool { return l.match(f, v) }))), nil
}

func (l *ListingStore[T, F]) Update(ctx context.Context, v *T) error {
	defer l.s.lock(ctx)()

	if _, ok := l.tbl.rows[l.tbl.id(v)]; !ok {
		return fmt.Errorf("%s.Update: %w", l.name, repository.ErrNotFound)
	}
	l.tbl.put(ctx, *v)
	return nil
}

func (l *ListingStore[T, F]) Delete(ctx context.Context, id string) error {
	defer l.s.lock(ctx)()

	if !l.tbl.remove(ctx, id) {
		return fmt.Errorf("%s.Delete: %w", l.name, repository.ErrNotFound)
	}
	return nil
}

func propertyMatch(f repository.PropertyFilter, p *model.Property) bool {
	switch {
	case f.PropertyType != "" && p.PropertyType != f.PropertyType:
		return false
	case f.Status != "" && p.Status != f.Status:
		return false
	case f.City != "" && !containsFold(p.City, f.City):
		return false
	case f.District != "" && !containsFold(p.District, f.District):
		return false
	case !inRange(p.Price, f.MinPrice, f.MaxPrice), !inRange(p.Area, f.MinArea, f.MaxArea):
		return false
	case f.Bedrooms != nil && p.Bedrooms != *f.Bedrooms:
		return false
	case f.Bathrooms != nil && p.Bathrooms != *f.Bathrooms:
		return false
	case f.Featured != nil && p.Featured != *f.Featured:
		return false
	}
	return true
}

func landMatch(f repository.LandFilter, l *model.Land) bool {
	switch {
	case f.LandType != "" && l.LandType != f.LandType:
		return false
	case f.Status != "" && l.Status != f.Status:
		return false
	case f.City != "" && !containsFold(l.City, f.City):
		return false
	case f.District != "" && !containsFold(l.District, f.District):
		return false
	case !inRange(l.Price, f.MinPrice, f.MaxPrice), !inRange(l.Area, f.MinArea, f.MaxArea):
		return false
	case f.Featured != nil && l.Featured != *f.Featured:
		return false
	}
	return true
}

func simMatch(f repository.SimFilter, s *model.Sim) bool {
	switch {
	case f.Network != "" && s.Network != f.Network:
		return false
	case f.SimType != "" && s.SimType != f.SimType:
		return false
	case f.IsVIP != nil && s.IsVIP != *f.IsVIP:
		return false
	case !inRange(s.Price, f.MinPrice, f.MaxPrice):
		return false
	case f.Featured != nil && s.Featured != *f.Featured:
		return false
	}
	return true
}

func newsMatch(f repository.NewsFilter, a *model.NewsArticle) bool {
	if f.Category != "" && a.Category != f.Category {
		return false
	}
	if f.Published != nil && a.Published != *f.Published {
		return false
	}
	return true
}
