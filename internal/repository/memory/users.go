package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/repository"
)

type Users struct {
	s *Store
}

func (r *Users) Create(ctx context.Context, u *model.User) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.users.rows[u.ID]; ok {
		return fmt.Errorf("Users.Create: %w", repository.ErrDuplicate)
	}
	if r.taken(u) {
		return fmt.Errorf("Users.Create: %w", repository.ErrDuplicate)
	}
	r.s.users.put(ctx, *u)
	return nil
}

// taken reports whether another user already owns u's username or email.
func (r *Users) taken(u *model.User) bool {
	for id, other := range r.s.users.rows {
		if id == u.ID {
			continue
		}
		if other.Username == u.Username || strings.EqualFold(other.Email, u.Email) {
			return true
		}
	}
	return false
}

func (r *Users) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users.get(id)
	if !ok {
		return nil, fmt.Errorf("Users.GetByID: %w", repository.ErrNotFound)
	}
	return u, nil
}

func (r *Users) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne("GetByUsername", func(u *model.User) bool { return u.Username == username })
}

func (r *Users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne("GetByEmail", func(u *model.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *Users) findOne(op string, match func(*model.User) bool) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	found := r.s.users.filter(match)
	if len(found) == 0 {
		return nil, fmt.Errorf("Users.%s: %w", op, repository.ErrNotFound)
	}
	return &found[0], nil
}

func (r *Users) GetMany(ctx context.Context, ids []string) (map[string]*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[string]*model.User, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users.get(id); ok {
			out[id] = u
		}
	}
	return out, nil
}

func userMatch(f repository.UserFilter) func(*model.User) bool {
	return func(u *model.User) bool {
		if f.Role != "" && u.Role != f.Role {
			return false
		}
		if f.Status != "" && u.Status != f.Status {
			return false
		}
		return true
	}
}

func (r *Users) List(ctx context.Context, f repository.UserFilter) ([]model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := r.s.users.filter(userMatch(f))
	sortNewest(users, func(u *model.User) (time.Time, string) { return u.CreatedAt, u.ID })
	return paginate(users, f.Page), nil
}

func (r *Users) Count(ctx context.Context, f repository.UserFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.users.filter(userMatch(f)))), nil
}

func (r *Users) Update(ctx context.Context, u *model.User) error {
	defer r.s.lock(ctx)()

	cur, ok := r.s.users.rows[u.ID]
	if !ok {
		return fmt.Errorf("Users.Update: %w", repository.ErrNotFound)
	}
	if r.taken(u) {
		return fmt.Errorf("Users.Update: %w", repository.ErrDuplicate)
	}
	next := *u
	next.WalletBalance = cur.WalletBalance
	next.CreatedAt = cur.CreatedAt
	if next.LastLogin == nil {
		next.LastLogin = cur.LastLogin
	}
	r.s.users.put(ctx, next)
	return nil
}

func (r *Users) TouchLogin(ctx context.Context, id string, at time.Time) error {
	defer r.s.lock(ctx)()

	u, ok := r.s.users.rows[id]
	if !ok {
		return fmt.Errorf("Users.TouchLogin: %w", repository.ErrNotFound)
	}
	u.LastLogin = &at
	u.UpdatedAt = at
	r.s.users.put(ctx, u)
	return nil
}

func (r *Users) Debit(ctx context.Context, id string, amount float64) (float64, error) {
	defer r.s.lock(ctx)()

	u, ok := r.s.users.rows[id]
	if !ok {
		return 0, fmt.Errorf("Users.Debit: %w", repository.ErrNotFound)
	}
	if u.WalletBalance < amount {
		return u.WalletBalance, fmt.Errorf("Users.Debit: %w", repository.ErrInsufficientFunds)
	}
	u.WalletBalance -= amount
	u.UpdatedAt = time.Now().UTC()
	r.s.users.put(ctx, u)
	return u.WalletBalance, nil
}

func (r *Users) Credit(ctx context.Context, id string, amount float64) (float64, error) {
	defer r.s.lock(ctx)()

	u, ok := r.s.users.rows[id]
	if !ok {
		return 0, fmt.Errorf("Users.Credit: %w", repository.ErrNotFound)
	}
	u.WalletBalance += amount
	u.UpdatedAt = time.Now().UTC()
	r.s.users.put(ctx, u)
	return u.WalletBalance, nil
}
