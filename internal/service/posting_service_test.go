package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/repository"
)

func TestSubmitChargesFeeAndQueuesPost(t *testing.T) {
	f := newFixture(t, 50000)
	u := f.addUser(t, "lan", model.RoleMember, 100000)

	post, err := f.posting.Submit(f.ctx, u, propertyDraft("Căn hộ Sunrise City"))
	require.NoError(t, err)

	assert.Equal(t, model.PostPending, post.Status)
	assert.Equal(t, u.ID, post.AuthorID)
	assert.Equal(t, model.PropertyApartment, post.PropertyType)
	assert.Equal(t, model.ForSale, post.PropertyStatus)
	assert.Equal(t, fixedNow.AddDate(0, 0, 30), post.ExpiresAt)
	assert.Equal(t, 50000.0, f.balance(t, u))

	txs := f.ledger(t, u)
	require.Len(t, txs, 1)
	assert.Equal(t, model.TxPostFee, txs[0].Type)
	assert.Equal(t, model.TxCompleted, txs[0].Status)
	assert.Equal(t, 50000.0, txs[0].Amount)
	assert.Equal(t, post.ID, txs[0].ReferenceID)
	assert.NotNil(t, txs[0].CompletedAt)
	assert.Equal(t, 1, f.notifier.count())
}

func TestSubmitInsufficientBalanceWritesNothing(t *testing.T) {
	f := newFixture(t, 50000)
	u := f.addUser(t, "minh", model.RoleMember, 20000)

	_, err := f.posting.Submit(f.ctx, u, propertyDraft("Nhà phố"))

	var ib *InsufficientBalanceError
	require.ErrorAs(t, err, &ib)
	assert.Equal(t, 50000.0, ib.Required)
	assert.Equal(t, 20000.0, ib.Available)
	assert.Equal(t, 20000.0, f.balance(t, u))
	assert.Empty(t, f.ledger(t, u))

	n, err := f.repos.MemberPosts.Count(f.ctx, repository.MemberPostFilter{AuthorID: u.ID})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSubmitRejectsInactiveAccount(t *testing.T) {
	f := newFixture(t, 50000)
	u := f.addUser(t, "hoa", model.RoleMember, 100000)
	u.Status = model.UserSuspended

	_, err := f.posting.Submit(f.ctx, u, propertyDraft("x"))
	assert.ErrorIs(t, err, ErrAccountInactive)
	assert.Equal(t, 100000.0, f.balance(t, u))
}

func TestSubmitValidatesDraft(t *testing.T) {
	f := newFixture(t, 0)
	u := f.addUser(t, "tuan", model.RoleMember, 0)

	cases := map[string]func(d *model.PostDraft){
		"blank title":     func(d *model.PostDraft) { d.Title = "   " },
		"unknown type":    func(d *model.PostDraft) { d.PostType = "boat" },
		"negative price":  func(d *model.PostDraft) { d.Price = -1 },
		"zero area":       func(d *model.PostDraft) { d.Area = 0 },
		"missing city":    func(d *model.PostDraft) { d.City = "" },
		"bad listing":     func(d *model.PostDraft) { d.PropertyStatus = "gone" },
		"bad property ty": func(d *model.PostDraft) { d.PropertyType = "castle" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			d := propertyDraft("Valid title")
			mutate(&d)
			_, err := f.posting.Submit(f.ctx, u, d)
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}

	t.Run("sim needs a number", func(t *testing.T) {
		_, err := f.posting.Submit(f.ctx, u, model.PostDraft{Title: "Sim đẹp", PostType: model.PostSim})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "phone_number", ve.Field)
	})
}

func TestSubmitWithZeroFeeSkipsLedger(t *testing.T) {
	f := newFixture(t, 0)
	u := f.addUser(t, "free", model.RoleMember, 0)

	_, err := f.posting.Submit(f.ctx, u, propertyDraft("Free post"))
	require.NoError(t, err)
	assert.Zero(t, f.balance(t, u))
	assert.Empty(t, f.ledger(t, u))
}

// Balance 100k, fee 50k: two submissions succeed, the third is refused.
func TestSubmitApproveScenario(t *testing.T) {
	f := newFixture(t, 50000)
	u := f.addUser(t, "scenario", model.RoleMember, 100000)

	first, err := f.posting.Submit(f.ctx, u, propertyDraft("First"))
	require.NoError(t, err)
	assert.Equal(t, 50000.0, f.balance(t, u))

	_, changed, err := f.moderation.Decide(f.ctx, f.admin, first.ID, Decision{Status: model.PostApproved, Featured: true})
	require.NoError(t, err)
	assert.True(t, changed)
	prop, err := f.repos.Properties.GetByID(f.ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, prop.Featured)

	_, err = f.posting.Submit(f.ctx, u, propertyDraft("Second"))
	require.NoError(t, err)
	assert.Zero(t, f.balance(t, u))

	_, err = f.posting.Submit(f.ctx, u, propertyDraft("Third"))
	var ib *InsufficientBalanceError
	require.ErrorAs(t, err, &ib)
	assert.Zero(t, f.balance(t, u))
	assert.Len(t, f.ledger(t, u), 2)
}

func TestConcurrentSubmitsNeverOverdraw(t *testing.T) {
	f := newFixture(t, 50000)
	u := f.addUser(t, "racer", model.RoleMember, 150000)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.posting.Submit(f.ctx, u, propertyDraft("Race"))
			mu.Lock()
			defer mu.Unlock()
			var ib *InsufficientBalanceError
			switch {
			case err == nil:
				ok++
			case errors.As(err, &ib):
				fail++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, ok)
	assert.Equal(t, 5, fail)
	assert.Zero(t, f.balance(t, u))
	assert.Len(t, f.ledger(t, u), 3)
}

func TestOwnershipIsHidden(t *testing.T) {
	f := newFixture(t, 0)
	owner := f.addUser(t, "owner", model.RoleMember, 0)
	other := f.addUser(t, "other", model.RoleMember, 0)

	post, err := f.posting.Submit(f.ctx, owner, propertyDraft("Mine"))
	require.NoError(t, err)

	_, err = f.posting.GetOwn(f.ctx, other, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.posting.UpdateOwn(f.ctx, other, post.ID, propertyDraft("Theirs"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.posting.DeleteOwn(f.ctx, other, post.ID), ErrNotFound)

	list, err := f.posting.ListOwn(f.ctx, other, "", repository.Page{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdateOwnResubmitsRejectedPost(t *testing.T) {
	f := newFixture(t, 0)
	u := f.addUser(t, "editor", model.RoleMember, 0)
	post, err := f.posting.Submit(f.ctx, u, propertyDraft("Draft"))
	require.NoError(t, err)

	_, _, err = f.moderation.Decide(f.ctx, f.admin, post.ID, Decision{
		Status: model.PostRejected, RejectionReason: "blurry photos", AdminNotes: "retake",
	})
	require.NoError(t, err)

	updated, err := f.posting.UpdateOwn(f.ctx, u, post.ID, propertyDraft("Draft v2"))
	require.NoError(t, err)
	assert.Equal(t, model.PostPending, updated.Status)
	assert.Equal(t, "Draft v2", updated.Title)
	assert.Empty(t, updated.RejectionReason)
	assert.Empty(t, updated.AdminNotes)
}

func TestApprovedPostsAreLocked(t *testing.T) {
	f := newFixture(t, 0)
	u := f.addUser(t, "locked", model.RoleMember, 0)
	post, err := f.posting.Submit(f.ctx, u, propertyDraft("Approved soon"))
	require.NoError(t, err)
	_, _, err = f.moderation.Decide(f.ctx, f.admin, post.ID, Decision{Status: model.PostApproved})
	require.NoError(t, err)

	_, err = f.posting.UpdateOwn(f.ctx, u, post.ID, propertyDraft("Sneaky edit"))
	assert.ErrorIs(t, err, ErrPostLocked)
	assert.ErrorIs(t, f.posting.DeleteOwn(f.ctx, u, post.ID), ErrPostUndeletable)

	stored, err := f.repos.MemberPosts.GetByID(f.ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Approved soon", stored.Title)
}

func TestDeleteOwnDoesNotRefund(t *testing.T) {
	f := newFixture(t, 50000)
	u := f.addUser(t, "quitter", model.RoleMember, 50000)
	post, err := f.posting.Submit(f.ctx, u, propertyDraft("Short lived"))
	require.NoError(t, err)

	require.NoError(t, f.posting.DeleteOwn(f.ctx, u, post.ID))
	_, err = f.posting.GetOwn(f.ctx, u, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, f.balance(t, u))
	assert.Len(t, f.ledger(t, u), 1)
}
