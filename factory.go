package docsession

import (
	"context"
	"errors"

	"github.com/minus-twelve/docsession/storage"
	"github.com/minus-twelve/docsession/types"
)

var ErrInvalidStoreType = errors.New("invalid store type")

// CreateBackend connects to the store named by cfg.StoreType. For postgres the table
// behind the configured collection is created when missing.
func CreateBackend(ctx context.Context, cfg types.Config) (Backend, error) {
	switch cfg.StoreType {
	case types.StoreMemory:
		return storage.NewMemoryBackend(cfg.Memory.MaxSessions), nil
	case types.StoreMongo:
		return storage.NewMongoBackend(ctx, cfg.Mongo)
	case types.StoreRedis:
		return storage.NewRedisBackend(ctx, cfg.Redis)
	case types.StorePostgres:
		b, err := storage.NewPostgresBackend(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		if err := b.Migrate(ctx, cfg.DatabaseName, cfg.CollectionName); err != nil {
			_ = b.Close(ctx)
			return nil, err
		}
		return b, nil
	default:
		return nil, ErrInvalidStoreType
	}
}
