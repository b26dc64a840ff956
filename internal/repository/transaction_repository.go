package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mrleocoder/coderbds/internal/model"
)

type TransactionRepository struct {
	coll *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{coll: db.Collection(CollTransactions)}
}

func (r *TransactionRepository) Insert(ctx context.Context, t *model.Transaction) error {
	if _, err := r.coll.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("TransactionRepository.Insert: %w", err)
	}
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*model.Transaction, error) {
	var t model.Transaction
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, fmt.Errorf("TransactionRepository.GetByID: %w", notFound(err))
	}
	return &t, nil
}

func transactionQuery(f TransactionFilter) bson.M {
	q := bson.M{}
	if f.UserID != "" {
		q["user_id"] = f.UserID
	}
	if f.Type != "" {
		q["transaction_type"] = f.Type
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	return q
}

func (r *TransactionRepository) List(ctx context.Context, f TransactionFilter) ([]model.Transaction, error) {
	out, err := findAll[model.Transaction](ctx, r.coll, transactionQuery(f), findOptions(Sort{}, f.Page))
	if err != nil {
		return nil, fmt.Errorf("TransactionRepository.List: %w", err)
	}
	return out, nil
}

func (r *TransactionRepository) Count(ctx context.Context, f TransactionFilter) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, transactionQuery(f))
	if err != nil {
		return 0, fmt.Errorf("TransactionRepository.Count: %w", err)
	}
	return n, nil
}

func (r *TransactionRepository) Transition(ctx context.Context, c StatusChange) (*model.Transaction, error) {
	q := bson.M{"_id": c.ID, "transaction_type": c.Type, "status": c.From}
	set := bson.M{
		"status":     c.To,
		"updated_at": c.At,
	}
	if c.AdminNotes != "" {
		set["admin_notes"] = c.AdminNotes
	}
	update := bson.M{"$set": set}
	switch c.To {
	case model.TxCompleted:
		set["completed_at"] = c.At
	case model.TxPending:
		update["$unset"] = bson.M{"completed_at": ""}
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var t model.Transaction
	err := r.coll.FindOneAndUpdate(ctx, q, update, opts).Decode(&t)
	if err == nil {
		return &t, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("TransactionRepository.Transition: %w", err)
	}
	if _, err := r.GetByID(ctx, c.ID); err != nil {
		return nil, fmt.Errorf("TransactionRepository.Transition: %w", err)
	}
	return nil, fmt.Errorf("TransactionRepository.Transition: %w", ErrStateConflict)
}
