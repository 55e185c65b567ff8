// Package sweep runs a periodic removal of expired records for stores that cannot
// expire them on their own.
package sweep

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Func removes expired records and reports how many were removed.
type Func func(ctx context.Context) (int64, error)

type Sweeper struct {
	interval time.Duration
	fn       Func
	logger   zerolog.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	shutdown  chan struct{}
	wg        sync.WaitGroup
}

func New(interval time.Duration, fn Func, logger zerolog.Logger) *Sweeper {
	return &Sweeper{
		interval: interval,
		fn:       fn,
		logger:   logger.With().Str("component", "sweeper").Logger(),
		shutdown: make(chan struct{}),
	}
}

// Start launches the sweep loop. Calling it more than once has no effect.
func (s *Sweeper) Start() {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.loop()
	})
}

// Stop ends the loop and waits for an in-flight sweep to return.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.shutdown)
	})
	s.wg.Wait()
}

func (s *Sweeper) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.run()
		case <-s.shutdown:
			return
		}
	}
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-s.shutdown:
			cancel()
		case <-ctx.Done():
		}
	}()

	n, err := s.fn(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("expired session sweep failed")
		return
	}
	if n > 0 {
		s.logger.Debug().Int64("removed", n).Msg("expired sessions removed")
	}
}
