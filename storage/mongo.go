package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/minus-twelve/docsession/types"
)

// MongoBackend stores one document per session, keyed by _id.
type MongoBackend struct {
	client *mongo.Client
}

func NewMongoBackend(ctx context.Context, cfg types.MongoConfig) (*MongoBackend, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return NewMongoBackendFromClient(client), nil
}

// NewMongoBackendFromClient wraps a connected client; Close disconnects it.
func NewMongoBackendFromClient(client *mongo.Client) *MongoBackend {
	return &MongoBackend{client: client}
}

func (b *MongoBackend) Collection(database, name string) types.Collection {
	return &MongoStore{coll: b.client.Database(database).Collection(name)}
}

func (b *MongoBackend) Close(ctx context.Context) error {
	return b.client.Disconnect(ctx)
}

type MongoStore struct {
	coll *mongo.Collection
}

func byID(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

func (s *MongoStore) FindOne(ctx context.Context, id string) (*types.Record, error) {
	var rec types.Record
	if err := s.coll.FindOne(ctx, byID(id)).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// UpsertOne replaces the whole document so optional fields absent from rec are
// removed from the stored one.
func (s *MongoStore) UpsertOne(ctx context.Context, id string, rec types.Record) error {
	rec.ID = id
	_, err := s.coll.ReplaceOne(ctx, byID(id), rec, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) DeleteOne(ctx context.Context, id string) error {
	_, err := s.coll.DeleteOne(ctx, byID(id))
	return err
}

func (s *MongoStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.D{
		{Key: "last_activity", Value: bson.D{{Key: "$lt", Value: cutoff}}},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.D{{Key: "user_id", Value: userID}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) CreateTTLIndex(ctx context.Context, field string, afterSeconds int32) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(afterSeconds),
	})
	return err
}

func (s *MongoStore) NativeTTL() bool {
	return true
}
