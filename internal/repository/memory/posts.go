package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/repository"
)

type MemberPosts struct {
	s *Store
}

func (r *MemberPosts) Insert(ctx context.Context, p *model.MemberPost) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.posts.rows[p.ID]; ok {
		return fmt.Errorf("MemberPosts.Insert: %w", repository.ErrDuplicate)
	}
	r.s.posts.put(ctx, *p)
	return nil
}

func (r *MemberPosts) GetByID(ctx context.Context, id string) (*model.MemberPost, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts.get(id)
	if !ok {
		return nil, fmt.Errorf("MemberPosts.GetByID: %w", repository.ErrNotFound)
	}
	return p, nil
}

func memberPostMatch(f repository.MemberPostFilter) func(*model.MemberPost) bool {
	return func(p *model.MemberPost) bool {
		if f.AuthorID != "" && p.AuthorID != f.AuthorID {
			return false
		}
		if f.Status != "" && p.Status != f.Status {
			return false
		}
		if f.PostType != "" && p.PostType != f.PostType {
			return false
		}
		return true
	}
}

func (r *MemberPosts) List(ctx context.Context, f repository.MemberPostFilter) ([]model.MemberPost, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := r.s.posts.filter(memberPostMatch(f))
	sortNewest(out, func(p *model.MemberPost) (time.Time, string) { return p.CreatedAt, p.ID })
	return paginate(out, f.Page), nil
}

func (r *MemberPosts) Count(ctx context.Context, f repository.MemberPostFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.posts.filter(memberPostMatch(f)))), nil
}

func (r *MemberPosts) check(id string, expect []model.PostStatus) error {
	cur, ok := r.s.posts.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	if len(expect) > 0 && !slices.Contains(expect, cur.Status) {
		return repository.ErrStateConflict
	}
	return nil
}

func (r *MemberPosts) Update(ctx context.Context, p *model.MemberPost, expect ...model.PostStatus) error {
	defer r.s.lock(ctx)()

	if err := r.check(p.ID, expect); err != nil {
		return fmt.Errorf("MemberPosts.Update: %w", err)
	}
	r.s.posts.put(ctx, *p)
	return nil
}

func (r *MemberPosts) Delete(ctx context.Context, id string, expect ...model.PostStatus) error {
	defer r.s.lock(ctx)()

	if err := r.check(id, expect); err != nil {
		return fmt.Errorf("MemberPosts.Delete: %w", err)
	}
	r.s.posts.remove(ctx, id)
	return nil
}
