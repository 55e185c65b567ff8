package docsession

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/minus-twelve/docsession/types"
)

// ExpireField is the record field the expiry index is built on.
const ExpireField = "expire"

// Handler maps the open/read/write/destroy/gc session lifecycle onto a Collection.
// Backend errors are returned as they come from the store.
type Handler struct {
	backend  Backend
	database string
	name     string
	lifetime time.Duration
	timeout  time.Duration
	clock    types.Clock
	identity IdentityResolver
	request  RequestResolver
	logger   zerolog.Logger

	once    sync.Once
	coll    Collection
	builder *PayloadBuilder
}

type HandlerOption func(*Handler)

func WithIdentityResolver(r IdentityResolver) HandlerOption {
	return func(h *Handler) { h.identity = r }
}

func WithRequestResolver(r RequestResolver) HandlerOption {
	return func(h *Handler) { h.request = r }
}

func WithClock(c types.Clock) HandlerOption {
	return func(h *Handler) { h.clock = c }
}

// WithHandlerLogger sets where EnsureExpiryIndex reports a failed index creation.
func WithHandlerLogger(l zerolog.Logger) HandlerOption {
	return func(h *Handler) { h.logger = l }
}

func NewHandler(backend Backend, cfg Config, opts ...HandlerOption) *Handler {
	h := &Handler{
		backend:  backend,
		database: cfg.DatabaseName,
		name:     cfg.CollectionName,
		lifetime: cfg.Lifetime(),
		timeout:  cfg.OperationTimeout,
		clock:    types.SystemClock,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.builder = NewPayloadBuilder(h.lifetime, h.clock, h.identity, h.request)
	return h
}

func (h *Handler) collection() Collection {
	h.once.Do(func() {
		h.coll = h.backend.Collection(h.database, h.name)
	})
	return h.coll
}

func (h *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout > 0 {
		return context.WithTimeout(ctx, h.timeout)
	}
	return ctx, func() {}
}

func (h *Handler) Lifetime() time.Duration {
	return h.lifetime
}

func (h *Handler) Open(savePath, name string) error {
	return nil
}

func (h *Handler) Close() error {
	return nil
}

// Read returns the stored payload, or an empty payload when the session is unknown or
// has expired.
func (h *Handler) Read(ctx context.Context, id string) ([]byte, error) {
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	rec, err := h.collection().FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.Expired(h.clock.Now(), h.lifetime) {
		return []byte{}, nil
	}
	return rec.Payload, nil
}

// Write replaces the session with data and fresh activity metadata.
func (h *Handler) Write(ctx context.Context, id string, data []byte) error {
	rec := h.builder.Build(ctx, id, data)

	ctx, cancel := h.withTimeout(ctx)
	defer cancel()
	return h.collection().UpsertOne(ctx, id, rec)
}

func (h *Handler) Destroy(ctx context.Context, id string) error {
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()
	return h.collection().DeleteOne(ctx, id)
}

// GC removes sessions whose last activity is older than lifetime and returns how many
// were removed.
func (h *Handler) GC(ctx context.Context, lifetime time.Duration) (int64, error) {
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()
	return h.collection().DeleteBefore(ctx, h.clock.Now().Add(-lifetime))
}

// DestroyUser removes every session written while userID was the resolved identity.
func (h *Handler) DestroyUser(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()
	return h.collection().DeleteByUser(ctx, userID)
}

// EnsureExpiryIndex asks the store to drop records once their expire time passes.
// Failure is ignored: Read never returns an expired session either way.
func (h *Handler) EnsureExpiryIndex(ctx context.Context) {
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()
	if err := h.collection().CreateTTLIndex(ctx, ExpireField, 0); err != nil {
		h.logger.Debug().Err(err).Str("collection", h.name).Msg("expiry index not created")
	}
}

// NativeTTL reports whether the store expires records without a sweep.
func (h *Handler) NativeTTL() bool {
	return hasNativeTTL(h.collection())
}
