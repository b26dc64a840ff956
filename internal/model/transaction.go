package model

import "time"

type TransactionType string

const (
	TxDeposit  TransactionType = "deposit"
	TxWithdraw TransactionType = "withdraw"
	TxPostFee  TransactionType = "post_fee"
	TxRefund   TransactionType = "refund"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TxDeposit, TxWithdraw, TxPostFee, TxRefund:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxFailed    TransactionStatus = "failed"
	TxCancelled TransactionStatus = "cancelled"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TxPending, TxCompleted, TxFailed, TxCancelled:
		return true
	}
	return false
}

// Transaction is one wallet ledger entry. Amount is always a positive
// magnitude; the direction follows from Type.
type Transaction struct {
	ID          string            `bson:"_id" json:"id"`
	UserID      string            `bson:"user_id" json:"user_id"`
	Amount      float64           `bson:"amount" json:"amount"`
	Type        TransactionType   `bson:"transaction_type" json:"transaction_type"`
	Status      TransactionStatus `bson:"status" json:"status"`
	Description string            `bson:"description" json:"description"`
	ReferenceID string            `bson:"reference_id,omitempty" json:"reference_id,omitempty"`
	AdminNotes  string            `bson:"admin_notes,omitempty" json:"admin_notes,omitempty"`
	CreatedAt   time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `bson:"updated_at" json:"updated_at"`
	CompletedAt *time.Time        `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// Credits reports whether a completed transaction of this type adds to the balance.
func (t TransactionType) Credits() bool {
	return t == TxDeposit || t == TxRefund
}
