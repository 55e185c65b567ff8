package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/minus-twelve/docsession/types"
)

// RedisBackend stores each record as a JSON value whose key expires with the record.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

func NewRedisBackend(ctx context.Context, cfg types.RedisConfig) (*RedisBackend, error) {
	if cfg.Prefix == "" {
		cfg.Prefix = "sess:"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewRedisBackendFromClient(client, cfg.Prefix), nil
}

// NewRedisBackendFromClient wraps an existing client; Close closes it.
func NewRedisBackendFromClient(client *redis.Client, prefix string) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix}
}

func (b *RedisBackend) Collection(database, name string) types.Collection {
	return &RedisStore{
		client: b.client,
		prefix: b.prefix + database + ":" + name + ":",
	}
}

func (b *RedisBackend) Close(ctx context.Context) error {
	return b.client.Close()
}

type RedisStore struct {
	client *redis.Client
	prefix string
}

func (r *RedisStore) sessionKey(id string) string {
	return r.prefix + "session:" + id
}

func (r *RedisStore) userKey(userID string) string {
	return r.prefix + "user_sessions:" + userID
}

func (r *RedisStore) FindOne(ctx context.Context, id string) (*types.Record, error) {
	data, err := r.client.Get(ctx, r.sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var rec types.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RedisStore) UpsertOne(ctx context.Context, id string, rec types.Record) error {
	rec.ID = id
	ttl := rec.Expire.Sub(rec.LastActivity)
	if ttl <= 0 {
		return r.client.Del(ctx, r.sessionKey(id)).Err()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.SetEx(ctx, r.sessionKey(id), data, ttl)
	if rec.UserID != nil {
		pipe.SAdd(ctx, r.userKey(*rec.UserID), id)
		pipe.Expire(ctx, r.userKey(*rec.UserID), ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// DeleteOne leaves the id in its user set; DeleteByUser checks ownership before deleting.
func (r *RedisStore) DeleteOne(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.sessionKey(id)).Err()
}

func (r *RedisStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	iter := r.client.Scan(ctx, 0, r.sessionKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		deleted, err := r.deleteIf(ctx, iter.Val(), func(rec *types.Record) bool {
			return rec.LastActivity.Before(cutoff)
		})
		if err != nil {
			return n, err
		}
		if deleted {
			n++
		}
	}
	return n, iter.Err()
}

func (r *RedisStore) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	ids, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil {
		return 0, err
	}

	var n int64
	for _, id := range ids {
		deleted, err := r.deleteIf(ctx, r.sessionKey(id), func(rec *types.Record) bool {
			return rec.UserID != nil && *rec.UserID == userID
		})
		if err != nil {
			return n, err
		}
		if deleted {
			n++
		}
	}
	return n, r.client.Del(ctx, r.userKey(userID)).Err()
}

// CreateTTLIndex has nothing to set up: every key is written with its own expiry.
func (r *RedisStore) CreateTTLIndex(ctx context.Context, field string, afterSeconds int32) error {
	return nil
}

func (r *RedisStore) NativeTTL() bool {
	return true
}

// deleteIf removes key when match holds for its current value. A concurrent write to
// the key aborts the delete.
func (r *RedisStore) deleteIf(ctx context.Context, key string, match func(*types.Record) bool) (bool, error) {
	deleted := false
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil
			}
			return err
		}
		var rec types.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		if !match(&rec) {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		if err == nil {
			deleted = true
		}
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	return deleted, err
}
