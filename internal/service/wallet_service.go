package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/report"
	"github.com/mrleocoder/coderbds/internal/repository"
	"github.com/mrleocoder/coderbds/pkg/logger"
)

// EnrichedTransaction is a ledger entry with its owner resolved.
type EnrichedTransaction struct {
	model.Transaction
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Balance struct {
	Balance float64 `json:"balance"`
	UserID  string  `json:"user_id"`
}

type DepositReceipt struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
}

// exportLimit caps a single spreadsheet export.
const exportLimit = 10000

// WalletService covers member deposits and the admin side of the ledger.
type WalletService struct {
	users    repository.Users
	txs      repository.Transactions
	tx       repository.Transactor
	notifier Notifier
	now      func() time.Time
	log      *logger.Logger
}

func NewWalletService(repos repository.Set, n Notifier) *WalletService {
	return &WalletService{
		users:    repos.Users,
		txs:      repos.Transactions,
		tx:       repos.Tx,
		notifier: orNop(n),
		now:      time.Now,
		log:      logger.New("wallet"),
	}
}

func (s *WalletService) Balance(ctx context.Context, user *model.User) (*Balance, error) {
	u, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("WalletService.Balance: %w", err)
	}
	return &Balance{Balance: u.WalletBalance, UserID: u.ID}, nil
}

// RequestDeposit records a pending deposit. The balance only moves when an
// admin approves it.
func (s *WalletService) RequestDeposit(ctx context.Context, user *model.User, amount float64, description string) (*DepositReceipt, error) {
	if amount <= 0 {
		return nil, invalid("amount", "must be positive")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		description = "Wallet deposit"
	}
	now := s.now().UTC()
	t := &model.Transaction{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Amount:      amount,
		Type:        model.TxDeposit,
		Status:      model.TxPending,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.txs.Insert(ctx, t); err != nil {
		return nil, fmt.Errorf("WalletService.RequestDeposit: %w", err)
	}
	s.log.Infof("deposit %s of %.0f requested by %s", t.ID, amount, user.Username)
	s.notifier.Notify("💰 Deposit request from <b>%s</b>: %.0f VND", user.Username, amount)
	return &DepositReceipt{TransactionID: t.ID, Amount: amount}, nil
}

func (s *WalletService) ListOwn(ctx context.Context, user *model.User, txType model.TransactionType, page repository.Page) ([]model.Transaction, error) {
	out, err := s.txs.List(ctx, repository.TransactionFilter{UserID: user.ID, Type: txType, Page: page})
	if err != nil {
		return nil, fmt.Errorf("WalletService.ListOwn: %w", err)
	}
	return out, nil
}

func (s *WalletService) ListAll(ctx context.Context, f repository.TransactionFilter) ([]EnrichedTransaction, error) {
	txs, err := s.txs.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("WalletService.ListAll: %w", err)
	}
	return s.enrich(ctx, txs)
}

func (s *WalletService) enrich(ctx context.Context, txs []model.Transaction) ([]EnrichedTransaction, error) {
	ids := make([]string, 0, len(txs))
	for _, t := range txs {
		ids = append(ids, t.UserID)
	}
	owners, err := s.users.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("WalletService.enrich: %w", err)
	}
	out := make([]EnrichedTransaction, 0, len(txs))
	for _, t := range txs {
		e := EnrichedTransaction{Transaction: t}
		if u, ok := owners[t.UserID]; ok {
			e.Username = u.Username
			e.Email = u.Email
		}
		out = append(out, e)
	}
	return out, nil
}

// ApproveDeposit completes a pending deposit and credits the member in one
// unit of work. The conditional transition makes a second approval fail
// before any credit happens.
func (s *WalletService) ApproveDeposit(ctx context.Context, admin *model.User, id, notes string) (*model.Transaction, error) {
	var done *model.Transaction
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.txs.Transition(ctx, repository.StatusChange{
			ID:         id,
			Type:       model.TxDeposit,
			From:       model.TxPending,
			To:         model.TxCompleted,
			AdminNotes: notes,
			At:         s.now().UTC(),
		})
		if err != nil {
			return err
		}
		repository.OnRollback(ctx, func(ctx context.Context) error {
			_, err := s.txs.Transition(ctx, repository.StatusChange{
				ID:   id,
				Type: model.TxDeposit,
				From: model.TxCompleted,
				To:   model.TxPending,
				At:   s.now().UTC(),
			})
			return err
		})
		if _, err := s.users.Credit(ctx, t.UserID, t.Amount); err != nil {
			return err
		}
		done = t
		return nil
	})
	if errors.Is(err, repository.ErrStateConflict) {
		return nil, conflict("transaction is not a pending deposit")
	}
	if err != nil {
		return nil, fmt.Errorf("WalletService.ApproveDeposit: %w", err)
	}
	s.log.Infof("deposit %s approved by %s, credited %.0f to %s", done.ID, admin.Username, done.Amount, done.UserID)
	return done, nil
}

func (s *WalletService) RejectDeposit(ctx context.Context, admin *model.User, id, notes string) (*model.Transaction, error) {
	t, err := s.txs.Transition(ctx, repository.StatusChange{
		ID:         id,
		Type:       model.TxDeposit,
		From:       model.TxPending,
		To:         model.TxFailed,
		AdminNotes: notes,
		At:         s.now().UTC(),
	})
	if errors.Is(err, repository.ErrStateConflict) {
		return nil, conflict("transaction is not a pending deposit")
	}
	if err != nil {
		return nil, fmt.Errorf("WalletService.RejectDeposit: %w", err)
	}
	s.log.Infof("deposit %s rejected by %s", t.ID, admin.Username)
	return t, nil
}

// Export writes the filtered ledger as an .xlsx workbook.
func (s *WalletService) Export(ctx context.Context, f repository.TransactionFilter, w io.Writer) error {
	f.Page = repository.Page{Limit: exportLimit}
	txs, err := s.ListAll(ctx, f)
	if err != nil {
		return err
	}
	rows := make([]report.LedgerRow, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, report.LedgerRow{Transaction: t.Transaction, Username: t.Username, Email: t.Email})
	}
	if err := report.WriteLedger(w, rows); err != nil {
		return fmt.Errorf("WalletService.Export: %w", err)
	}
	return nil
}
