package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mrleocoder/coderbds/internal/model"
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(CollUsers)}
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("UserRepository.Create: %w", ErrDuplicate)
		}
		return fmt.Errorf("UserRepository.Create: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, "GetByID", bson.M{"_id": id})
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, "GetByUsername", bson.M{"username": username})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "GetByEmail", bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, op string, q bson.M) (*model.User, error) {
	var u model.User
	if err := r.coll.FindOne(ctx, q).Decode(&u); err != nil {
		return nil, fmt.Errorf("UserRepository.%s: %w", op, notFound(err))
	}
	return &u, nil
}

func (r *UserRepository) GetMany(ctx context.Context, ids []string) (map[string]*model.User, error) {
	out := make(map[string]*model.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := findAll[model.User](ctx, r.coll, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
	if err != nil {
		return nil, fmt.Errorf("UserRepository.GetMany: %w", err)
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

func userQuery(f UserFilter) bson.M {
	q := bson.M{}
	if f.Role != "" {
		q["role"] = f.Role
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	return q
}

func (r *UserRepository) List(ctx context.Context, f UserFilter) ([]model.User, error) {
	users, err := findAll[model.User](ctx, r.coll, userQuery(f), findOptions(Sort{}, f.Page))
	if err != nil {
		return nil, fmt.Errorf("UserRepository.List: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Count(ctx context.Context, f UserFilter) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, userQuery(f))
	if err != nil {
		return 0, fmt.Errorf("UserRepository.Count: %w", err)
	}
	return n, nil
}

func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	set := bson.M{
		"username":        u.Username,
		"email":           u.Email,
		"hashed_password": u.PasswordHash,
		"full_name":       u.FullName,
		"phone":           u.Phone,
		"address":         u.Address,
		"role":            u.Role,
		"status":          u.Status,
		"email_verified":  u.EmailVerified,
		"admin_notes":     u.AdminNotes,
		"updated_at":      u.UpdatedAt,
	}
	if u.LastLogin != nil {
		set["last_login"] = u.LastLogin
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": u.ID}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("UserRepository.Update: %w", ErrDuplicate)
		}
		return fmt.Errorf("UserRepository.Update: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("UserRepository.Update: %w", ErrNotFound)
	}
	return nil
}

// TouchLogin stamps last_login and nothing else.
func (r *UserRepository) TouchLogin(ctx context.Context, id string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"last_login": at, "updated_at": at}})
	if err != nil {
		return fmt.Errorf("UserRepository.TouchLogin: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("UserRepository.TouchLogin: %w", ErrNotFound)
	}
	return nil
}

// Debit is a single conditional update, so two concurrent debits can never
// take the balance below zero.
func (r *UserRepository) Debit(ctx context.Context, id string, amount float64) (float64, error) {
	q := bson.M{"_id": id, "wallet_balance": bson.M{"$gte": amount}}
	u, err := r.adjust(ctx, q, -amount)
	if err == nil {
		return u.WalletBalance, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return 0, fmt.Errorf("UserRepository.Debit: %w", err)
	}
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("UserRepository.Debit: %w", err)
	}
	return current.WalletBalance, fmt.Errorf("UserRepository.Debit: %w", ErrInsufficientFunds)
}

func (r *UserRepository) Credit(ctx context.Context, id string, amount float64) (float64, error) {
	u, err := r.adjust(ctx, bson.M{"_id": id}, amount)
	if err != nil {
		return 0, fmt.Errorf("UserRepository.Credit: %w", err)
	}
	return u.WalletBalance, nil
}

func (r *UserRepository) adjust(ctx context.Context, q bson.M, delta float64) (*model.User, error) {
	update := bson.M{
		"$inc": bson.M{"wallet_balance": delta},
		"$set": bson.M{"updated_at": now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u model.User
	if err := r.coll.FindOneAndUpdate(ctx, q, update, opts).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}
