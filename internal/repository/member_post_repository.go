package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mrleocoder/coderbds/internal/model"
)

type MemberPostRepository struct {
	coll *mongo.Collection
}

func NewMemberPostRepository(db *mongo.Database) *MemberPostRepository {
	return &MemberPostRepository{coll: db.Collection(CollMemberPosts)}
}

func (r *MemberPostRepository) Insert(ctx context.Context, p *model.MemberPost) error {
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("MemberPostRepository.Insert: %w", ErrDuplicate)
		}
		return fmt.Errorf("MemberPostRepository.Insert: %w", err)
	}
	return nil
}

func (r *MemberPostRepository) GetByID(ctx context.Context, id string) (*model.MemberPost, error) {
	var p model.MemberPost
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, fmt.Errorf("MemberPostRepository.GetByID: %w", notFound(err))
	}
	return &p, nil
}

func memberPostQuery(f MemberPostFilter) bson.M {
	q := bson.M{}
	if f.AuthorID != "" {
		q["author_id"] = f.AuthorID
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.PostType != "" {
		q["post_type"] = f.PostType
	}
	return q
}

func (r *MemberPostRepository) List(ctx context.Context, f MemberPostFilter) ([]model.MemberPost, error) {
	out, err := findAll[model.MemberPost](ctx, r.coll, memberPostQuery(f), findOptions(Sort{}, f.Page))
	if err != nil {
		return nil, fmt.Errorf("MemberPostRepository.List: %w", err)
	}
	return out, nil
}

func (r *MemberPostRepository) Count(ctx context.Context, f MemberPostFilter) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, memberPostQuery(f))
	if err != nil {
		return 0, fmt.Errorf("MemberPostRepository.Count: %w", err)
	}
	return n, nil
}

func withStatus(id string, expect []model.PostStatus) bson.M {
	q := bson.M{"_id": id}
	if len(expect) > 0 {
		q["status"] = bson.M{"$in": expect}
	}
	return q
}

func (r *MemberPostRepository) Update(ctx context.Context, p *model.MemberPost, expect ...model.PostStatus) error {
	res, err := r.coll.ReplaceOne(ctx, withStatus(p.ID, expect), p)
	if err != nil {
		return fmt.Errorf("MemberPostRepository.Update: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("MemberPostRepository.Update: %w", r.missOrConflict(ctx, p.ID))
	}
	return nil
}

func (r *MemberPostRepository) Delete(ctx context.Context, id string, expect ...model.PostStatus) error {
	res, err := r.coll.DeleteOne(ctx, withStatus(id, expect))
	if err != nil {
		return fmt.Errorf("MemberPostRepository.Delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("MemberPostRepository.Delete: %w", r.missOrConflict(ctx, id))
	}
	return nil
}

func (r *MemberPostRepository) missOrConflict(ctx context.Context, id string) error {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrStateConflict
}
