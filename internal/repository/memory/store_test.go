package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/repository"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, set repository.Set, id string, balance float64) {
	t.Helper()
	require.NoError(t, set.Users.Create(context.Background(), &model.User{
		ID: id, Username: id, Email: id + "@example.com",
		Role: model.RoleMember, Status: model.UserActive, WalletBalance: balance, CreatedAt: t0,
	}))
}

func TestWithinTxRollsBackEveryWrite(t *testing.T) {
	ctx := context.Background()
	set := New().Set()
	seedUser(t, set, "u1", 100)
	require.NoError(t, set.MemberPosts.Insert(ctx, &model.MemberPost{ID: "old", Status: model.PostPending}))

	boom := errors.New("boom")
	err := set.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := set.Users.Debit(ctx, "u1", 40); err != nil {
			return err
		}
		if err := set.MemberPosts.Insert(ctx, &model.MemberPost{ID: "new", Status: model.PostPending}); err != nil {
			return err
		}
		if err := set.MemberPosts.Delete(ctx, "old"); err != nil {
			return err
		}
		if err := set.Properties.Upsert(ctx, &model.Property{ID: "new"}); err != nil {
			return err
		}
		// nested units join the outer one
		return set.Tx.WithinTx(ctx, func(ctx context.Context) error {
			if _, err := set.Users.Credit(ctx, "u1", 5); err != nil {
				return err
			}
			return boom
		})
	})
	require.ErrorIs(t, err, boom)

	u, err := set.Users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 100.0, u.WalletBalance)
	_, err = set.MemberPosts.GetByID(ctx, "new")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = set.MemberPosts.GetByID(ctx, "old")
	assert.NoError(t, err)
	_, err = set.Properties.GetByID(ctx, "new")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRollbackKeepsConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	set := New().Set()
	seedUser(t, set, "u1", 100)
	u, err := set.Users.GetByID(ctx, "u1")
	require.NoError(t, err)

	started, release := make(chan struct{}), make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = set.Tx.WithinTx(ctx, func(ctx context.Context) error {
			if _, err := set.Users.Debit(ctx, "u1", 40); err != nil {
				return err
			}
			close(started)
			<-release
			return errors.New("abort")
		})
	}()
	<-started

	updated := make(chan struct{})
	go func() {
		u.Status = model.UserSuspended
		assert.NoError(t, set.Users.Update(context.Background(), u))
		close(updated)
	}()
	assert.Never(t, func() bool {
		select {
		case <-updated:
			return true
		default:
			return false
		}
	}, 50*time.Millisecond, 5*time.Millisecond)

	close(release)
	wg.Wait()
	<-updated

	got, err := set.Users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.UserSuspended, got.Status)
	assert.Equal(t, 100.0, got.WalletBalance)
}

func TestWithinTxCommits(t *testing.T) {
	ctx := context.Background()
	set := New().Set()
	seedUser(t, set, "u1", 100)

	require.NoError(t, set.Tx.WithinTx(ctx, func(ctx context.Context) error {
		_, err := set.Users.Debit(ctx, "u1", 60)
		return err
	}))
	u, err := set.Users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 40.0, u.WalletBalance)
}

func TestDebitIsConditional(t *testing.T) {
	ctx := context.Background()
	set := New().Set()
	seedUser(t, set, "u1", 30)

	bal, err := set.Users.Debit(ctx, "u1", 50)
	assert.ErrorIs(t, err, repository.ErrInsufficientFunds)
	assert.Equal(t, 30.0, bal)

	bal, err = set.Users.Debit(ctx, "u1", 30)
	require.NoError(t, err)
	assert.Zero(t, bal)

	_, err = set.Users.Debit(ctx, "ghost", 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserUpdateNeverTouchesBalance(t *testing.T) {
	ctx := context.Background()
	set := New().Set()
	seedUser(t, set, "u1", 75)

	u, err := set.Users.GetByID(ctx, "u1")
	require.NoError(t, err)
	u.WalletBalance = 1e9
	u.FullName = "Changed"
	require.NoError(t, set.Users.Update(ctx, u))

	got, err := set.Users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 75.0, got.WalletBalance)
	assert.Equal(t, "Changed", got.FullName)
}

func TestUsersRejectDuplicates(t *testing.T) {
	ctx := context.Background()
	set := New().Set()
	seedUser(t, set, "u1", 0)

	err := set.Users.Create(ctx, &model.User{ID: "u2", Username: "u1", Email: "x@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	err = set.Users.Create(ctx, &model.User{ID: "u3", Username: "u3", Email: "U1@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	many, err := set.Users.GetMany(ctx, []string{"u1", "missing"})
	require.NoError(t, err)
	assert.Len(t, many, 1)
}

func TestTransitionChecksTypeAndStatus(t *testing.T) {
	ctx := context.Background()
	set := New().Set()
	require.NoError(t, set.Transactions.Insert(ctx, &model.Transaction{
		ID: "d1", UserID: "u1", Amount: 10, Type: model.TxDeposit, Status: model.TxPending, CreatedAt: t0,
	}))

	change := repository.StatusChange{ID: "d1", Type: model.TxDeposit, From: model.TxPending, To: model.TxCompleted, At: t0}
	got, err := set.Transactions.Transition(ctx, change)
	require.NoError(t, err)
	assert.Equal(t, model.TxCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)

	_, err = set.Transactions.Transition(ctx, change)
	assert.ErrorIs(t, err, repository.ErrStateConflict)

	change.Type = model.TxRefund
	_, err = set.Transactions.Transition(ctx, change)
	assert.ErrorIs(t, err, repository.ErrStateConflict)
}

func TestMemberPostExpectedStatus(t *testing.T) {
	ctx := context.Background()
	set := New().Set()
	p := &model.MemberPost{ID: "p1", Status: model.PostApproved}
	require.NoError(t, set.MemberPosts.Insert(ctx, p))

	p.Title = "edit"
	assert.ErrorIs(t, set.MemberPosts.Update(ctx, p, model.PostPending, model.PostRejected), repository.ErrStateConflict)
	assert.ErrorIs(t, set.MemberPosts.Delete(ctx, "p1", model.PostPending), repository.ErrStateConflict)
	assert.NoError(t, set.MemberPosts.Update(ctx, p, model.PostApproved))
	assert.NoError(t, set.MemberPosts.Delete(ctx, "p1"))
	assert.ErrorIs(t, set.MemberPosts.Delete(ctx, "p1"), repository.ErrNotFound)
}

func TestPropertyFiltersAndSorting(t *testing.T) {
	ctx := context.Background()
	set := New().Set()
	rows := []model.Property{
		{ID: "a", Title: "A", City: "Hồ Chí Minh", Price: 300, Area: 30, Status: model.ForSale, Bedrooms: 2, CreatedAt: t0},
		{ID: "b", Title: "B", City: "Hà Nội", Price: 100, Area: 50, Status: model.ForRent, Bedrooms: 3, CreatedAt: t0.Add(time.Hour)},
		{ID: "c", Title: "C", City: "hồ chí minh", Price: 200, Area: 70, Status: model.ForSale, Featured: true, CreatedAt: t0.Add(2 * time.Hour)},
	}
	for i := range rows {
		require.NoError(t, set.Properties.Insert(ctx, &rows[i]))
	}

	ids := func(ps []model.Property) []string {
		out := make([]string, 0, len(ps))
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	all, err := set.Properties.List(ctx, repository.PropertyFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(all))

	byPrice, err := set.Properties.List(ctx, repository.PropertyFilter{Sort: repository.Sort{Field: "price", Asc: true}})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, ids(byPrice))

	lo, hi := 150.0, 350.0
	hcm, err := set.Properties.List(ctx, repository.PropertyFilter{City: "HỒ CHÍ", MinPrice: &lo, MaxPrice: &hi})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, ids(hcm))

	featured := true
	n, err := set.Properties.Count(ctx, repository.PropertyFilter{Featured: &featured})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	page, err := set.Properties.List(ctx, repository.PropertyFilter{Page: repository.Page{Skip: 1, Limit: 1}})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(page))

	beyond, err := set.Properties.List(ctx, repository.PropertyFilter{Page: repository.Page{Skip: 10}})
	require.NoError(t, err)
	assert.NotNil(t, beyond)
	assert.Empty(t, beyond)
}
