package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mrleocoder/coderbds/internal/model"
)

const (
	CollUsers        = "users"
	CollTransactions = "transactions"
	CollMemberPosts  = "member_posts"
	CollProperties   = "properties"
	CollLands        = "lands"
	CollSims         = "sims"
	CollNews         = "news_articles"
)

// MongoStore implements Store for one collection whose documents are keyed
// by a string _id.
type MongoStore[T any, F any] struct {
	name  string
	coll  *mongo.Collection
	id    func(*T) string
	query func(F) (bson.M, Sort, Page)
}

func NewPropertyRepository(db *mongo.Database) *MongoStore[model.Property, PropertyFilter] {
	return &MongoStore[model.Property, PropertyFilter]{
		name:  "PropertyRepository",
		coll:  db.Collection(CollProperties),
		id:    func(p *model.Property) string { return p.ID },
		query: propertyQuery,
	}
}

func NewLandRepository(db *mongo.Database) *MongoStore[model.Land, LandFilter] {
	return &MongoStore[model.Land, LandFilter]{
		name:  "LandRepository",
		coll:  db.Collection(CollLands),
		id:    func(l *model.Land) string { return l.ID },
		query: landQuery,
	}
}

func NewSimRepository(db *mongo.Database) *MongoStore[model.Sim, SimFilter] {
	return &MongoStore[model.Sim, SimFilter]{
		name:  "SimRepository",
		coll:  db.Collection(CollSims),
		id:    func(s *model.Sim) string { return s.ID },
		query: simQuery,
	}
}

func NewNewsRepository(db *mongo.Database) *MongoStore[model.NewsArticle, NewsFilter] {
	return &MongoStore[model.NewsArticle, NewsFilter]{
		name:  "NewsRepository",
		coll:  db.Collection(CollNews),
		id:    func(a *model.NewsArticle) string { return a.ID },
		query: newsQuery,
	}
}

func (s *MongoStore[T, F]) Insert(ctx context.Context, v *T) error {
	if _, err := s.coll.InsertOne(ctx, v); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s.Insert: %w", s.name, ErrDuplicate)
		}
		return fmt.Errorf("%s.Insert: %w", s.name, err)
	}
	return nil
}

func (s *MongoStore[T, F]) Upsert(ctx context.Context, v *T) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": s.id(v)}, v, opts); err != nil {
		return fmt.Errorf("%s.Upsert: %w", s.name, err)
	}
	return nil
}

func (s *MongoStore[T, F]) GetByID(ctx context.Context, id string) (*T, error) {
	var v T
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		return nil, fmt.Errorf("%s.GetByID: %w", s.name, notFound(err))
	}
	return &v, nil
}

func (s *MongoStore[T, F]) View(ctx context.Context, id string) (*T, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var v T
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}}, opts).Decode(&v)
	if err != nil {
		return nil, fmt.Errorf("%s.View: %w", s.name, notFound(err))
	}
	return &v, nil
}

func (s *MongoStore[T, F]) List(ctx context.Context, f F) ([]T, error) {
	q, sort, page := s.query(f)
	out, err := findAll[T](ctx, s.coll, q, findOptions(sort, page))
	if err != nil {
		return nil, fmt.Errorf("%s.List: %w", s.name, err)
	}
	return out, nil
}

func (s *MongoStore[T, F]) Count(ctx context.Context, f F) (int64, error) {
	q, _, _ := s.query(f)
	n, err := s.coll.CountDocuments(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("%s.Count: %w", s.name, err)
	}
	return n, nil
}

func (s *MongoStore[T, F]) Update(ctx context.Context, v *T) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": s.id(v)}, v)
	if err != nil {
		return fmt.Errorf("%s.Update: %w", s.name, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s.Update: %w", s.name, ErrNotFound)
	}
	return nil
}

func (s *MongoStore[T, F]) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("%s.Delete: %w", s.name, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s.Delete: %w", s.name, ErrNotFound)
	}
	return nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, q bson.M, opts *options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func findOptions(sort Sort, page Page) *options.FindOptions {
	field := sort.Field
	if field == "" {
		field = "created_at"
	}
	dir := -1
	if sort.Asc {
		dir = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}).
		SetSkip(page.Skip)
	if page.Limit > 0 {
		opts.SetLimit(page.Limit)
	}
	return opts
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func containsFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func numberRange(q bson.M, field string, lo, hi *float64) {
	r := bson.M{}
	if lo != nil {
		r["$gte"] = *lo
	}
	if hi != nil {
		r["$lte"] = *hi
	}
	if len(r) > 0 {
		q[field] = r
	}
}

func propertyQuery(f PropertyFilter) (bson.M, Sort, Page) {
	q := bson.M{}
	if f.PropertyType != "" {
		q["property_type"] = f.PropertyType
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.City != "" {
		q["city"] = containsFold(f.City)
	}
	if f.District != "" {
		q["district"] = containsFold(f.District)
	}
	numberRange(q, "price", f.MinPrice, f.MaxPrice)
	numberRange(q, "area", f.MinArea, f.MaxArea)
	if f.Bedrooms != nil {
		q["bedrooms"] = *f.Bedrooms
	}
	if f.Bathrooms != nil {
		q["bathrooms"] = *f.Bathrooms
	}
	if f.Featured != nil {
		q["featured"] = *f.Featured
	}
	return q, f.Sort, f.Page
}

func landQuery(f LandFilter) (bson.M, Sort, Page) {
	q := bson.M{}
	if f.LandType != "" {
		q["land_type"] = f.LandType
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.City != "" {
		q["city"] = containsFold(f.City)
	}
	if f.District != "" {
		q["district"] = containsFold(f.District)
	}
	numberRange(q, "price", f.MinPrice, f.MaxPrice)
	numberRange(q, "area", f.MinArea, f.MaxArea)
	if f.Featured != nil {
		q["featured"] = *f.Featured
	}
	return q, f.Sort, f.Page
}

func simQuery(f SimFilter) (bson.M, Sort, Page) {
	q := bson.M{}
	if f.Network != "" {
		q["network"] = f.Network
	}
	if f.SimType != "" {
		q["sim_type"] = f.SimType
	}
	if f.IsVIP != nil {
		q["is_vip"] = *f.IsVIP
	}
	numberRange(q, "price", f.MinPrice, f.MaxPrice)
	if f.Featured != nil {
		q["featured"] = *f.Featured
	}
	return q, f.Sort, f.Page
}

func newsQuery(f NewsFilter) (bson.M, Sort, Page) {
	q := bson.M{}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Published != nil {
		q["published"] = *f.Published
	}
	return q, Sort{}, f.Page
}

func now() time.Time {
	return time.Now().UTC()
}
