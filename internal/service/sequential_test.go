package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/repository"
)

// These tests run the services on repository.Sequential, the transactor
// used against MongoDB without replica-set transactions.

var errWrite = errors.New("write timeout")

type flakyPosts struct {
	repository.MemberPosts
	insertErr error
	updateErr error
}

func (p *flakyPosts) Insert(ctx context.Context, post *model.MemberPost) error {
	if p.insertErr != nil {
		return p.insertErr
	}
	return p.MemberPosts.Insert(ctx, post)
}

func (p *flakyPosts) Update(ctx context.Context, post *model.MemberPost, expect ...model.PostStatus) error {
	if p.updateErr != nil {
		return p.updateErr
	}
	return p.MemberPosts.Update(ctx, post, expect...)
}

type flakyTransactions struct {
	repository.Transactions
	insertErr error
}

func (t *flakyTransactions) Insert(ctx context.Context, tx *model.Transaction) error {
	if t.insertErr != nil {
		return t.insertErr
	}
	return t.Transactions.Insert(ctx, tx)
}

type flakyProperties struct {
	repository.Properties
	upsertErr error
}

func (p *flakyProperties) Upsert(ctx context.Context, v *model.Property) error {
	if p.upsertErr != nil {
		return p.upsertErr
	}
	return p.Properties.Upsert(ctx, v)
}

type flakyUsers struct {
	repository.Users
	creditErr error
}

func (u *flakyUsers) Credit(ctx context.Context, id string, amount float64) (float64, error) {
	if u.creditErr != nil {
		return 0, u.creditErr
	}
	return u.Users.Credit(ctx, id, amount)
}

type flakyStores struct {
	users      *flakyUsers
	posts      *flakyPosts
	txs        *flakyTransactions
	properties *flakyProperties
}

func newSequentialFixture(t *testing.T, fee float64) (*fixture, *flakyStores) {
	t.Helper()
	fl := &flakyStores{}
	f := newFixtureWith(t, fee, func(set *repository.Set) {
		fl.users = &flakyUsers{Users: set.Users}
		fl.posts = &flakyPosts{MemberPosts: set.MemberPosts}
		fl.txs = &flakyTransactions{Transactions: set.Transactions}
		fl.properties = &flakyProperties{Properties: set.Properties}
		set.Users = fl.users
		set.MemberPosts = fl.posts
		set.Transactions = fl.txs
		set.Properties = fl.properties
		set.Tx = repository.Sequential{}
	})
	return f, fl
}

func (f *fixture) ownPosts(t *testing.T, u *model.User) []model.MemberPost {
	t.Helper()
	posts, err := f.posting.ListOwn(f.ctx, u, "", repository.Page{})
	require.NoError(t, err)
	return posts
}

func TestSequentialSubmitCharges(t *testing.T) {
	f, _ := newSequentialFixture(t, 50000)
	u := f.addUser(t, "lan", model.RoleMember, 100000)

	post, err := f.posting.Submit(f.ctx, u, propertyDraft("Nhà phố"))
	require.NoError(t, err)
	assert.Equal(t, 50000.0, f.balance(t, u))
	txs := f.ledger(t, u)
	require.Len(t, txs, 1)
	assert.Equal(t, post.ID, txs[0].ReferenceID)
}

func TestSequentialSubmitRefundsWhenPostInsertFails(t *testing.T) {
	f, fl := newSequentialFixture(t, 50000)
	u := f.addUser(t, "lan", model.RoleMember, 100000)
	fl.posts.insertErr = errWrite

	_, err := f.posting.Submit(f.ctx, u, propertyDraft("Nhà phố"))
	require.ErrorIs(t, err, errWrite)

	assert.Equal(t, 100000.0, f.balance(t, u))
	assert.Empty(t, f.ledger(t, u))
	assert.Empty(t, f.ownPosts(t, u))
}

func TestSequentialSubmitUndoesWhenLedgerInsertFails(t *testing.T) {
	f, fl := newSequentialFixture(t, 50000)
	u := f.addUser(t, "lan", model.RoleMember, 100000)
	fl.txs.insertErr = errWrite

	_, err := f.posting.Submit(f.ctx, u, propertyDraft("Nhà phố"))
	require.ErrorIs(t, err, errWrite)

	assert.Equal(t, 100000.0, f.balance(t, u))
	assert.Empty(t, f.ownPosts(t, u))

	fl.txs.insertErr = nil
	_, err = f.posting.Submit(f.ctx, u, propertyDraft("Nhà phố"))
	require.NoError(t, err)
	assert.Equal(t, 50000.0, f.balance(t, u))
	assert.Len(t, f.ledger(t, u), 1)
}

func TestSequentialApproveRetriesAfterListingFailure(t *testing.T) {
	f, fl := newSequentialFixture(t, 0)
	u := f.addUser(t, "seller", model.RoleMember, 0)
	post, err := f.posting.Submit(f.ctx, u, propertyDraft("Căn hộ"))
	require.NoError(t, err)

	fl.properties.upsertErr = errWrite
	_, _, err = f.moderation.Decide(f.ctx, f.admin, post.ID, Decision{Status: model.PostApproved})
	require.ErrorIs(t, err, errWrite)

	cur, err := f.repos.MemberPosts.GetByID(f.ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PostPending, cur.Status)

	fl.properties.upsertErr = nil
	got, changed, err := f.moderation.Decide(f.ctx, f.admin, post.ID, Decision{Status: model.PostApproved})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, model.PostApproved, got.Status)
	_, err = f.repos.Properties.GetByID(f.ctx, post.ID)
	assert.NoError(t, err)
}

func TestSequentialApproveRemovesListingWhenStatusWriteFails(t *testing.T) {
	f, fl := newSequentialFixture(t, 0)
	u := f.addUser(t, "seller", model.RoleMember, 0)
	post, err := f.posting.Submit(f.ctx, u, propertyDraft("Căn hộ"))
	require.NoError(t, err)

	fl.posts.updateErr = errWrite
	_, _, err = f.moderation.Decide(f.ctx, f.admin, post.ID, Decision{Status: model.PostApproved})
	require.ErrorIs(t, err, errWrite)

	_, err = f.repos.Properties.GetByID(f.ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	cur, err := f.repos.MemberPosts.GetByID(f.ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PostPending, cur.Status)
}

func TestSequentialDepositReopensWhenCreditFails(t *testing.T) {
	f, fl := newSequentialFixture(t, 0)
	u := f.addUser(t, "payer", model.RoleMember, 0)
	receipt, err := f.wallet.RequestDeposit(f.ctx, u, 200000, "")
	require.NoError(t, err)

	fl.users.creditErr = errWrite
	_, err = f.wallet.ApproveDeposit(f.ctx, f.admin, receipt.TransactionID, "")
	require.ErrorIs(t, err, errWrite)

	tx, err := f.repos.Transactions.GetByID(f.ctx, receipt.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, model.TxPending, tx.Status)
	assert.Nil(t, tx.CompletedAt)
	assert.Zero(t, f.balance(t, u))

	fl.users.creditErr = nil
	done, err := f.wallet.ApproveDeposit(f.ctx, f.admin, receipt.TransactionID, "")
	require.NoError(t, err)
	assert.Equal(t, model.TxCompleted, done.Status)
	assert.Equal(t, 200000.0, f.balance(t, u))
}
