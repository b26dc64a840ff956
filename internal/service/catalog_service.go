package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/repository"
)

// Catalog is the public browse surface of one listing store plus its admin
// CRUD. Per-type hooks fill ids, keep immutable fields and derive values.
type Catalog[T any, F any] struct {
	name  string
	store repository.Store[T, F]
	now   func() time.Time

	// init stamps a new record.
	init func(v *T, id string, now time.Time)
	// carry copies the fields an update must not change from prev to v.
	carry func(v, prev *T, now time.Time)
	// prepare validates v and recomputes derived fields.
	prepare func(v *T) error
}

func (c *Catalog[T, F]) List(ctx context.Context, f F) ([]T, error) {
	out, err := c.store.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s.List: %w", c.name, err)
	}
	return out, nil
}

func (c *Catalog[T, F]) Count(ctx context.Context, f F) (int64, error) {
	n, err := c.store.Count(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("%s.Count: %w", c.name, err)
	}
	return n, nil
}

// Get returns the record and counts the view.
func (c *Catalog[T, F]) Get(ctx context.Context, id string) (*T, error) {
	v, err := c.store.View(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s.Get: %w", c.name, err)
	}
	return v, nil
}

func (c *Catalog[T, F]) Create(ctx context.Context, v *T) (*T, error) {
	c.init(v, uuid.NewString(), c.now().UTC())
	if err := c.prepare(v); err != nil {
		return nil, err
	}
	if err := c.store.Insert(ctx, v); err != nil {
		return nil, fmt.Errorf("%s.Create: %w", c.name, err)
	}
	return v, nil
}

// Update applies patch to the stored record. Fields absent from the patch
// keep their values.
func (c *Catalog[T, F]) Update(ctx context.Context, id string, patch func(*T) error) (*T, error) {
	prev, err := c.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s.Update: %w", c.name, err)
	}
	next := *prev
	if err := patch(&next); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	c.carry(&next, prev, c.now().UTC())
	if err := c.prepare(&next); err != nil {
		return nil, err
	}
	if err := c.store.Update(ctx, &next); err != nil {
		return nil, fmt.Errorf("%s.Update: %w", c.name, err)
	}
	return &next, nil
}

func (c *Catalog[T, F]) Delete(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s.Delete: %w", c.name, err)
	}
	return nil
}

func NewPropertyCatalog(store repository.Properties) *Catalog[model.Property, repository.PropertyFilter] {
	return &Catalog[model.Property, repository.PropertyFilter]{
		name:  "PropertyCatalog",
		store: store,
		now:   time.Now,
		init: func(p *model.Property, id string, now time.Time) {
			p.ID, p.Views, p.CreatedAt, p.UpdatedAt = id, 0, now, now
		},
		carry: func(p, prev *model.Property, now time.Time) {
			p.ID, p.Views, p.CreatedAt, p.UpdatedAt = prev.ID, prev.Views, prev.CreatedAt, now
		},
		prepare: func(p *model.Property) error {
			p.Title = strings.TrimSpace(p.Title)
			if p.Title == "" {
				return invalid("title", "is required")
			}
			if !p.PropertyType.Valid() {
				return invalid("property_type", "unknown property type")
			}
			if p.Status == "" {
				p.Status = model.ForSale
			}
			if !p.Status.Valid() {
				return invalid("status", "unknown listing status")
			}
			if p.Price < 0 || p.Area < 0 {
				return invalid("price", "price and area must not be negative")
			}
			p.PricePerSqm = PricePerSqm(p.Price, p.Area)
			if p.Images == nil {
				p.Images = []string{}
			}
			return nil
		},
	}
}

func NewLandCatalog(store repository.Lands) *Catalog[model.Land, repository.LandFilter] {
	return &Catalog[model.Land, repository.LandFilter]{
		name:  "LandCatalog",
		store: store,
		now:   time.Now,
		init: func(l *model.Land, id string, now time.Time) {
			l.ID, l.Views, l.CreatedAt, l.UpdatedAt = id, 0, now, now
		},
		carry: func(l, prev *model.Land, now time.Time) {
			l.ID, l.Views, l.CreatedAt, l.UpdatedAt = prev.ID, prev.Views, prev.CreatedAt, now
		},
		prepare: func(l *model.Land) error {
			l.Title = strings.TrimSpace(l.Title)
			if l.Title == "" {
				return invalid("title", "is required")
			}
			if !l.LandType.Valid() {
				return invalid("land_type", "unknown land type")
			}
			if l.Status == "" {
				l.Status = model.ForSale
			}
			if !l.Status.Valid() {
				return invalid("status", "unknown listing status")
			}
			if l.Price < 0 || l.Area < 0 {
				return invalid("price", "price and area must not be negative")
			}
			l.PricePerSqm = PricePerSqm(l.Price, l.Area)
			if l.Images == nil {
				l.Images = []string{}
			}
			return nil
		},
	}
}

func NewSimCatalog(store repository.Sims) *Catalog[model.Sim, repository.SimFilter] {
	return &Catalog[model.Sim, repository.SimFilter]{
		name:  "SimCatalog",
		store: store,
		now:   time.Now,
		init: func(s *model.Sim, id string, now time.Time) {
			s.ID, s.Views, s.CreatedAt, s.UpdatedAt = id, 0, now, now
		},
		carry: func(s, prev *model.Sim, now time.Time) {
			s.ID, s.Views, s.CreatedAt, s.UpdatedAt = prev.ID, prev.Views, prev.CreatedAt, now
		},
		prepare: func(s *model.Sim) error {
			s.PhoneNumber = strings.TrimSpace(s.PhoneNumber)
			if s.PhoneNumber == "" {
				return invalid("phone_number", "is required")
			}
			if s.Network == "" {
				return invalid("network", "is required")
			}
			if s.Price < 0 {
				return invalid("price", "must not be negative")
			}
			if s.Status == "" {
				s.Status = model.SimAvailable
			}
			if s.Features == nil {
				s.Features = []string{}
			}
			return nil
		},
	}
}
