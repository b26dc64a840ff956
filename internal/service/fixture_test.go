package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/repository"
	"github.com/mrleocoder/coderbds/internal/repository/memory"
)

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *recordingNotifier) Notify(format string, args ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, fmt.Sprintf(format, args...))
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.msgs)
}

type fixture struct {
	ctx        context.Context
	repos      repository.Set
	notifier   *recordingNotifier
	posting    *PostingService
	moderation *ModerationService
	wallet     *WalletService
	admin      *model.User
}

func newFixture(t *testing.T, fee float64) *fixture {
	t.Helper()
	return newFixtureWith(t, fee, nil)
}

// newFixtureWith lets a test swap stores or the transactor before the
// services are built.
func newFixtureWith(t *testing.T, fee float64, wrap func(*repository.Set)) *fixture {
	t.Helper()
	repos := memory.New().Set()
	if wrap != nil {
		wrap(&repos)
	}
	n := &recordingNotifier{}
	f := &fixture{
		ctx:        context.Background(),
		repos:      repos,
		notifier:   n,
		posting:    NewPostingService(repos, fee, 30*24*time.Hour, n),
		moderation: NewModerationService(repos, n),
		wallet:     NewWalletService(repos, n),
	}
	f.posting.now = func() time.Time { return fixedNow }
	f.moderation.now = func() time.Time { return fixedNow.Add(time.Hour) }
	f.wallet.now = func() time.Time { return fixedNow }
	f.admin = f.addUser(t, "admin", model.RoleAdmin, 0)
	return f
}

func (f *fixture) addUser(t *testing.T, username string, role model.Role, balance float64) *model.User {
	t.Helper()
	u := &model.User{
		ID:            uuid.NewString(),
		Username:      username,
		Email:         username + "@example.com",
		FullName:      "Full " + username,
		Role:          role,
		Status:        model.UserActive,
		WalletBalance: balance,
		CreatedAt:     fixedNow,
		UpdatedAt:     fixedNow,
	}
	require.NoError(t, f.repos.Users.Create(f.ctx, u))
	return u
}

func (f *fixture) balance(t *testing.T, u *model.User) float64 {
	t.Helper()
	got, err := f.repos.Users.GetByID(f.ctx, u.ID)
	require.NoError(t, err)
	return got.WalletBalance
}

func (f *fixture) ledger(t *testing.T, u *model.User) []model.Transaction {
	t.Helper()
	txs, err := f.repos.Transactions.List(f.ctx, repository.TransactionFilter{UserID: u.ID})
	require.NoError(t, err)
	return txs
}

func propertyDraft(title string) model.PostDraft {
	return model.PostDraft{
		Title:        title,
		Description:  "2 bedrooms near the river",
		PostType:     model.PostProperty,
		Price:        2500000000,
		Area:         75,
		Bedrooms:     2,
		Bathrooms:    2,
		District:     "Quận 7",
		City:         "Hồ Chí Minh",
		ContactPhone: "0901234567",
		Images:       []string{"https://img.example.com/1.jpg"},
	}
}
