package types

//go:generate mockgen -source=collection.go -destination=../mocks/mock_collection.go -package=mocks

import (
	"context"
	"time"
)

// Collection is a handle on the set of session records keyed by id. Every method is a
// single operation on the backing store; implementations must make UpsertOne and
// DeleteOne atomic per record.
type Collection interface {
	// FindOne returns nil and no error when no record has the id.
	FindOne(ctx context.Context, id string) (*Record, error)
	// UpsertOne creates the record or replaces every stored field of an existing one.
	UpsertOne(ctx context.Context, id string, rec Record) error
	// DeleteOne is a no-op for an unknown id.
	DeleteOne(ctx context.Context, id string) error
	// DeleteBefore removes records whose last activity precedes cutoff.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
	// DeleteByUser removes records stored for the given user id.
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	// CreateTTLIndex asks the store to drop records once field is afterSeconds in the past.
	CreateTTLIndex(ctx context.Context, field string, afterSeconds int32) error
}

// Backend owns the connection to a store and hands out collections from it.
type Backend interface {
	Collection(database, name string) Collection
	Close(ctx context.Context) error
}

// NativeTTL is implemented by collections whose store removes expired records on its own.
type NativeTTL interface {
	NativeTTL() bool
}
