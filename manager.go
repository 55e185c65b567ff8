package docsession

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/minus-twelve/docsession/internal/sweep"
)

// Manager owns a backend, the Handler over its session collection, and the expiry
// sweeper for stores that cannot expire records themselves.
type Manager struct {
	cfg     Config
	backend Backend
	handler *Handler
	sweeper *sweep.Sweeper
	logger  zerolog.Logger
}

type managerOptions struct {
	logger      zerolog.Logger
	backend     Backend
	handlerOpts []HandlerOption
}

type ManagerOption func(*managerOptions)

func WithLogger(l zerolog.Logger) ManagerOption {
	return func(o *managerOptions) { o.logger = l }
}

// WithBackend uses b instead of connecting to the store named in the config.
// Manager.Close still closes it.
func WithBackend(b Backend) ManagerOption {
	return func(o *managerOptions) { o.backend = b }
}

func WithHandlerOptions(opts ...HandlerOption) ManagerOption {
	return func(o *managerOptions) { o.handlerOpts = append(o.handlerOpts, opts...) }
}

func NewManager(ctx context.Context, cfg Config, opts ...ManagerOption) (*Manager, error) {
	o := managerOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	applyDefaults(&cfg)
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	logger := o.logger.With().Str("component", "docsession").Logger()

	backend := o.backend
	if backend == nil {
		var err error
		backend, err = CreateBackend(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	handlerOpts := append([]HandlerOption{WithHandlerLogger(logger)}, o.handlerOpts...)
	handler := NewHandler(backend, cfg, handlerOpts...)
	handler.EnsureExpiryIndex(ctx)

	m := &Manager{
		cfg:     cfg,
		backend: backend,
		handler: handler,
		logger:  logger,
	}

	if cfg.ForceSweep || !handler.NativeTTL() {
		m.sweeper = sweep.New(cfg.SweepInterval, func(ctx context.Context) (int64, error) {
			return handler.GC(ctx, handler.Lifetime())
		}, logger)
		m.sweeper.Start()
	}

	logger.Info().
		Str("store", cfg.StoreType).
		Str("collection", cfg.CollectionName).
		Dur("lifetime", cfg.Lifetime()).
		Bool("sweeping", m.sweeper != nil).
		Msg("session store ready")

	return m, nil
}

func (m *Manager) Handler() *Handler {
	return m.handler
}

func (m *Manager) Config() Config {
	return m.cfg
}

// Close stops the sweeper and closes the backend.
func (m *Manager) Close(ctx context.Context) error {
	if m.sweeper != nil {
		m.sweeper.Stop()
	}
	return m.backend.Close(ctx)
}
