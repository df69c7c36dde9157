package service

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultExpirerInterval = 10 * time.Minute
	defaultSessionIdleTTL  = 12 * time.Hour
)

// SessionExpirer dismisses sessions nobody has used for a while so their
// transcripts do not accumulate in a long-running server.
type SessionExpirer struct {
	sessions *SessionRegistry
	logger   *zap.Logger

	interval time.Duration
	idleTTL  time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewSessionExpirer(sessions *SessionRegistry, logger *zap.Logger) *SessionExpirer {
	return &SessionExpirer{
		sessions: sessions,
		logger:   logger,
		interval: defaultExpirerInterval,
		idleTTL:  defaultSessionIdleTTL,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

func (s *SessionExpirer) SetInterval(d time.Duration) {
	s.interval = d
}

func (s *SessionExpirer) SetIdleTTL(d time.Duration) {
	s.idleTTL = d
}

// Start runs the expirer on a periodic schedule in a background goroutine.
func (s *SessionExpirer) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("session expirer started",
			zap.Duration("interval", s.interval),
			zap.Duration("idle_ttl", s.idleTTL))

		for {
			select {
			case <-ticker.C:
				s.run()
			case <-s.stopCh:
				s.logger.Info("session expirer stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the expirer.
func (s *SessionExpirer) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *SessionExpirer) run() int {
	removed := s.sessions.Expire(s.now().Add(-s.idleTTL))
	if removed > 0 {
		s.logger.Info("expired idle sessions", zap.Int("count", removed), zap.Int("remaining", s.sessions.Len()))
	}
	return removed
}
