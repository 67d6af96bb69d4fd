package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo implements Repository over a MongoDB collection.
type Mongo[T any] struct {
	col *mongo.Collection
}

// NewMongo wraps col and ensures a unique index for every Unique field.
func NewMongo[T any](ctx context.Context, col *mongo.Collection, opts ...Option) (*Mongo[T], error) {
	o := buildOptions(opts)
	for _, field := range o.unique {
		idx := mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}, Options: options.Index().SetUnique(true)}
		if _, err := col.Indexes().CreateOne(ctx, idx); err != nil {
			return nil, fmt.Errorf("create unique index %s.%s: %w", col.Name(), field, err)
		}
	}
	return &Mongo[T]{col: col}, nil
}

func (m *Mongo[T]) Name() string { return m.col.Name() }

func (m *Mongo[T]) Insert(ctx context.Context, doc *T) error {
	b := base(doc)
	b.ID = primitive.NewObjectID()
	b.Version = 0
	b.Touch(now())
	if _, err := m.col.InsertOne(ctx, doc); err != nil {
		return mapWriteErr(err)
	}
	return nil
}

func (m *Mongo[T]) InsertMany(ctx context.Context, docs []*T) error {
	if len(docs) == 0 {
		return nil
	}
	ts := now()
	batch := make([]interface{}, 0, len(docs))
	for _, d := range docs {
		b := base(d)
		b.ID = primitive.NewObjectID()
		b.Version = 0
		b.Touch(ts)
		batch = append(batch, d)
	}
	if _, err := m.col.InsertMany(ctx, batch); err != nil {
		return mapWriteErr(err)
	}
	return nil
}

func (m *Mongo[T]) Get(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return m.findOne(ctx, bson.M{"_id": id}, nil)
}

func (m *Mongo[T]) FindOne(ctx context.Context, f Filter) (*T, error) {
	return m.findOne(ctx, toBSON(f), options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
}

func (m *Mongo[T]) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*T, error) {
	var out T
	var err error
	if opts != nil {
		err = m.col.FindOne(ctx, filter, opts).Decode(&out)
	} else {
		err = m.col.FindOne(ctx, filter).Decode(&out)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (m *Mongo[T]) List(ctx context.Context, lo ListOptions) ([]*T, int64, error) {
	filter := toBSON(lo.Filter)
	fo := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if lo.Limit > 0 {
		page := lo.Page
		if page < 1 {
			page = 1
		}
		fo.SetLimit(lo.Limit).SetSkip((page - 1) * lo.Limit)
	}
	cur, err := m.col.Find(ctx, filter, fo)
	if err != nil {
		return nil, 0, err
	}
	out := []*T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	total, err := m.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (m *Mongo[T]) Replace(ctx context.Context, doc *T) error {
	b := base(doc)
	prev := b.Version
	b.Version = prev + 1
	b.UpdatedAt = now()
	filter := bson.M{"_id": b.ID, "__v": prev}
	if prev == 0 {
		// documents written by other tools may lack __v entirely
		filter["__v"] = bson.M{"$in": bson.A{0, nil}}
	}
	res, err := m.col.ReplaceOne(ctx, filter, doc)
	if err != nil {
		b.Version = prev
		return mapWriteErr(err)
	}
	if res.MatchedCount == 0 {
		b.Version = prev
		n, err := m.col.CountDocuments(ctx, bson.M{"_id": b.ID})
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return ErrConflict
	}
	return nil
}

func (m *Mongo[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo[T]) DeleteAll(ctx context.Context) (int64, error) {
	res, err := m.col.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (m *Mongo[T]) Count(ctx context.Context, f Filter) (int64, error) {
	return m.col.CountDocuments(ctx, toBSON(f))
}

// EnsureDefault relies on an upsert with $setOnInsert, so concurrent first
// reads race only inside the server rather than across two round trips.
func (m *Mongo[T]) EnsureDefault(ctx context.Context, def *T) (*T, error) {
	b := base(def)
	b.ID = primitive.NilObjectID
	b.Version = 0
	b.CreatedAt = now()
	b.UpdatedAt = b.CreatedAt
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	var out T
	if err := m.col.FindOneAndUpdate(ctx, bson.M{}, bson.M{"$setOnInsert": def}, opts).Decode(&out); err != nil {
		return nil, fmt.Errorf("ensure default %s: %w", m.col.Name(), err)
	}
	return &out, nil
}

func toBSON(f Filter) bson.M {
	if f == nil {
		return bson.M{}
	}
	return bson.M(f)
}

func mapWriteErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
