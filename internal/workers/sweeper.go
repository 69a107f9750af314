// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The devlinks Authors

package workers

import (
	"context"
	"time"

	"devlinks/internal/cache"
	"devlinks/internal/logger"
	"devlinks/internal/store"
)

// Sweeper periodically deletes expired guest users, sessions, and notice
// records, and drops expired cache entries. Expiry is lazy everywhere else
// in the system; the sweeper only reclaims storage, so a missed run is
// harmless.
type Sweeper struct {
	userRepository    store.UserRepository
	sessionRepository store.SessionRepository

	cache    *cache.TagCache
	interval time.Duration

	logger *logger.Logger
}

// NewSweeper constructs a Sweeper running every interval.
func NewSweeper(userRepository store.UserRepository, sessionRepository store.SessionRepository, tagCache *cache.TagCache, interval time.Duration, logger *logger.Logger) *Sweeper {
	return &Sweeper{
		userRepository:    userRepository,
		sessionRepository: sessionRepository,
		cache:             tagCache,
		interval:          interval,
		logger:            logger,
	}
}

// Run sweeps once at startup and then on every tick until ctx is
// cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Str("func", "Sweeper.Run").Msg("sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	now := time.Now()

	guests, err := s.userRepository.DeleteExpiredGuests(ctx, now)
	if err != nil {
		s.logger.Err(err).Str("func", "Sweeper.sweep").Msg("failed to delete expired guests")
	}

	sessions, err := s.sessionRepository.DeleteExpiredSessions(ctx, now)
	if err != nil {
		s.logger.Err(err).Str("func", "Sweeper.sweep").Msg("failed to delete expired sessions")
	}

	entries := s.cache.Sweep()

	s.cache.InvalidateTag(cache.TagExpiredSessions)

	s.logger.Info().
		Str("func", "Sweeper.sweep").
		Int64("guests_deleted", guests).
		Int64("sessions_deleted", sessions).
		Int("cache_entries_dropped", entries).
		Msg("sweep completed")
}
