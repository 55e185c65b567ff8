package docsession

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/minus-twelve/docsession/mocks"
	"github.com/minus-twelve/docsession/storage"
)

type ttlCollection struct {
	*mocks.MockCollection
}

func (ttlCollection) NativeTTL() bool { return true }

func TestManagerSweepsStoresWithoutNativeTTL(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	backend := storage.NewMemoryBackend(0)

	cfg := testConfig()
	cfg.SweepInterval = 5 * time.Millisecond

	m, err := NewManager(ctx, cfg,
		WithBackend(backend),
		WithLogger(zerolog.Nop()),
		WithHandlerOptions(WithClock(clock)),
	)
	require.NoError(t, err)
	defer m.Close(ctx)
	require.NotNil(t, m.sweeper)

	store := backend.Collection(cfg.DatabaseName, cfg.CollectionName).(*storage.MemoryStore)
	require.NoError(t, m.Handler().Write(ctx, "s1", []byte("X")))
	assert.Equal(t, 1, store.Len())

	clock.Advance(31 * time.Minute)
	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestManagerSkipsSweepForNativeTTL(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	coll := ttlCollection{mocks.NewMockCollection(ctrl)}
	cfg := testConfig()
	cfg.StoreType = "mongo"

	backend.EXPECT().Collection(cfg.DatabaseName, cfg.CollectionName).Return(coll)
	coll.EXPECT().CreateTTLIndex(gomock.Any(), ExpireField, int32(0)).Return(nil)
	backend.EXPECT().Close(gomock.Any()).Return(nil)

	m, err := NewManager(ctx, cfg, WithBackend(backend))
	require.NoError(t, err)
	assert.Nil(t, m.sweeper)
	assert.NoError(t, m.Close(ctx))
}

func TestManagerForceSweep(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	coll := ttlCollection{mocks.NewMockCollection(ctrl)}
	cfg := testConfig()
	cfg.ForceSweep = true
	cfg.SweepInterval = time.Hour

	backend.EXPECT().Collection(gomock.Any(), gomock.Any()).Return(coll)
	coll.EXPECT().CreateTTLIndex(gomock.Any(), ExpireField, int32(0)).Return(nil)
	backend.EXPECT().Close(gomock.Any()).Return(nil)

	m, err := NewManager(ctx, cfg, WithBackend(backend))
	require.NoError(t, err)
	assert.NotNil(t, m.sweeper)
	assert.NoError(t, m.Close(ctx))
}

func TestManagerAppliesDefaults(t *testing.T) {
	ctx := context.Background()
	m, err := NewManager(ctx, Config{LifetimeMinutes: 5})
	require.NoError(t, err)
	defer m.Close(ctx)

	cfg := m.Config()
	assert.Equal(t, "memory", cfg.StoreType)
	assert.Equal(t, DefaultDatabaseName, cfg.DatabaseName)
	assert.Equal(t, DefaultCollectionName, cfg.CollectionName)
	assert.Equal(t, 5*time.Minute, m.Handler().Lifetime())
}

func TestManagerRejectsInvalidConfig(t *testing.T) {
	ctx := context.Background()

	_, err := NewManager(ctx, Config{})
	assert.ErrorIs(t, err, ErrInvalidLifetime)

	_, err = NewManager(ctx, Config{StoreType: "sqlite", LifetimeMinutes: 5})
	assert.ErrorIs(t, err, ErrInvalidStoreType)
}
