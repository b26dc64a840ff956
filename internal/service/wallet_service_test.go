package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/repository"
)

func TestDepositApprovalCreditsOnce(t *testing.T) {
	f := newFixture(t, 50000)
	u := f.addUser(t, "saver", model.RoleMember, 0)

	receipt, err := f.wallet.RequestDeposit(f.ctx, u, 200000, "  ")
	require.NoError(t, err)
	assert.Zero(t, f.balance(t, u))

	pending, err := f.repos.Transactions.GetByID(f.ctx, receipt.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, model.TxPending, pending.Status)
	assert.Equal(t, "Wallet deposit", pending.Description)

	done, err := f.wallet.ApproveDeposit(f.ctx, f.admin, receipt.TransactionID, "bank ref 123")
	require.NoError(t, err)
	assert.Equal(t, model.TxCompleted, done.Status)
	assert.Equal(t, "bank ref 123", done.AdminNotes)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, 200000.0, f.balance(t, u))

	_, err = f.wallet.ApproveDeposit(f.ctx, f.admin, receipt.TransactionID, "")
	assert.ErrorIs(t, err, ErrConflict)
	_, err = f.wallet.RejectDeposit(f.ctx, f.admin, receipt.TransactionID, "")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 200000.0, f.balance(t, u))
}

func TestDepositRejectionLeavesBalance(t *testing.T) {
	f := newFixture(t, 50000)
	u := f.addUser(t, "unlucky", model.RoleMember, 10000)

	receipt, err := f.wallet.RequestDeposit(f.ctx, u, 90000, "chuyển khoản")
	require.NoError(t, err)

	got, err := f.wallet.RejectDeposit(f.ctx, f.admin, receipt.TransactionID, "no payment received")
	require.NoError(t, err)
	assert.Equal(t, model.TxFailed, got.Status)
	assert.Nil(t, got.CompletedAt)
	assert.Equal(t, 10000.0, f.balance(t, u))

	_, err = f.wallet.ApproveDeposit(f.ctx, f.admin, receipt.TransactionID, "")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestOnlyDepositsCanBeApproved(t *testing.T) {
	f := newFixture(t, 50000)
	u := f.addUser(t, "payer", model.RoleMember, 50000)
	_, err := f.posting.Submit(f.ctx, u, propertyDraft("Fee"))
	require.NoError(t, err)
	fee := f.ledger(t, u)[0]

	_, err = f.wallet.ApproveDeposit(f.ctx, f.admin, fee.ID, "")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Zero(t, f.balance(t, u))

	_, err = f.wallet.ApproveDeposit(f.ctx, f.admin, "missing", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRequestDepositValidatesAmount(t *testing.T) {
	f := newFixture(t, 0)
	u := f.addUser(t, "zero", model.RoleMember, 0)
	for _, amount := range []float64{0, -5} {
		_, err := f.wallet.RequestDeposit(f.ctx, u, amount, "")
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	}
}

func TestLedgerListingsAndExport(t *testing.T) {
	f := newFixture(t, 50000)
	u := f.addUser(t, "ledger", model.RoleMember, 0)
	other := f.addUser(t, "bystander", model.RoleMember, 0)

	r1, err := f.wallet.RequestDeposit(f.ctx, u, 100000, "")
	require.NoError(t, err)
	_, err = f.wallet.ApproveDeposit(f.ctx, f.admin, r1.TransactionID, "")
	require.NoError(t, err)
	_, err = f.posting.Submit(f.ctx, u, propertyDraft("Paid"))
	require.NoError(t, err)
	_, err = f.wallet.RequestDeposit(f.ctx, other, 30000, "")
	require.NoError(t, err)

	own, err := f.wallet.ListOwn(f.ctx, u, model.TxPostFee, repository.Page{})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, 50000.0, own[0].Amount)

	all, err := f.wallet.ListAll(f.ctx, repository.TransactionFilter{Type: model.TxDeposit})
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, e := range all {
		assert.NotEmpty(t, e.Username)
		assert.Contains(t, e.Email, "@example.com")
	}

	bal, err := f.wallet.Balance(f.ctx, u)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, bal.Balance)
	assert.Equal(t, u.ID, bal.UserID)

	var buf bytes.Buffer
	require.NoError(t, f.wallet.Export(f.ctx, repository.TransactionFilter{UserID: u.ID}, &buf))
	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows("Transactions")
	require.NoError(t, err)
	// header, two entries, blank, two totals
	assert.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, "ledger", rows[1][1])
}
