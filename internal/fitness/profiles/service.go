package profiles

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/hoosfit/internal/fitness"
	"github.com/2beens/hoosfit/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const leaderboardCacheSize = 4 * 1024 * 1024 // bytes

type Store interface {
	Add(ctx context.Context, profile Profile) error
	GetByUsername(ctx context.Context, username string) (*Profile, error)
	ResetStaleStreak(ctx context.Context, accountID int, before time.Time) (bool, error)
	ResetStaleStreaks(ctx context.Context, before time.Time) (int64, error)
	ListByPoints(ctx context.Context, limit int) ([]Profile, error)
}

type Service struct {
	store          Store
	clock          fitness.Clock
	cache          *freecache.Cache
	leaderboardTTL time.Duration
}

// NewService creates the profile service. A zero leaderboardTTL disables
// leaderboard caching.
func NewService(store Store, clock fitness.Clock, leaderboardTTL time.Duration) *Service {
	return &Service{
		store:          store,
		clock:          clock,
		cache:          freecache.NewCache(leaderboardCacheSize),
		leaderboardTTL: leaderboardTTL,
	}
}

// OnAccountCreated creates the profile of a new account, with the last
// workout set to yesterday so the first workout starts a streak.
func (s *Service) OnAccountCreated(ctx context.Context, accountID int, username string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profiles.onAccountCreated")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := s.store.Add(ctx, Profile{
		AccountID:   accountID,
		Username:    username,
		LastWorkout: s.clock.Yesterday(),
	}); err != nil {
		return fmt.Errorf("create profile for %s: %w", username, err)
	}

	s.InvalidateLeaderboard()
	return nil
}

// View returns the profile for display, decaying a stale streak first.
func (s *Service) View(ctx context.Context, username string) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profiles.view")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	profile, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	if profile.Streak > 0 && profile.IsStale(today) {
		reset, err := s.store.ResetStaleStreak(ctx, profile.AccountID, today.AddDate(0, 0, -1))
		if err != nil {
			return nil, err
		}
		if reset {
			log.Debugf("streak of %s reset, last workout %s", username, profile.LastWorkout.Format(time.DateOnly))
			s.InvalidateLeaderboard()
		}
		profile.Streak = 0
	}

	span.SetAttributes(attribute.Int("streak", profile.Streak))
	return profile, nil
}

// DecayStreaks resets every stale streak in one sweep.
func (s *Service) DecayStreaks(ctx context.Context) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profiles.decayStreaks")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	reset, err := s.store.ResetStaleStreaks(ctx, s.clock.Yesterday())
	if err != nil {
		return 0, err
	}
	if reset > 0 {
		s.InvalidateLeaderboard()
	}
	return reset, nil
}

func leaderboardCacheKey(limit int) []byte {
	return []byte(fmt.Sprintf("leaderboard::%d", limit))
}

// Leaderboard returns profiles by points, highest first, served from the
// in-process cache when possible.
func (s *Service) Leaderboard(ctx context.Context, limit int) (_ []Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profiles.leaderboard")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	key := leaderboardCacheKey(limit)
	if s.leaderboardTTL > 0 {
		if cached, err := s.cache.Get(key); err == nil {
			var list []Profile
			jsonErr := json.Unmarshal(cached, &list)
			if jsonErr == nil {
				span.SetAttributes(attribute.Bool("cache.hit", true))
				return list, nil
			}
			log.Warnf("leaderboard cache entry corrupt: %s", jsonErr)
		}
	}

	list, err := s.store.ListByPoints(ctx, limit)
	if err != nil {
		return nil, err
	}

	if s.leaderboardTTL > 0 {
		if b, err := json.Marshal(list); err != nil {
			log.Errorf("marshal leaderboard for cache: %s", err)
		} else if err := s.cache.Set(key, b, int(s.leaderboardTTL.Seconds())); err != nil {
			log.Errorf("cache leaderboard: %s", err)
		}
	}

	span.SetAttributes(attribute.Bool("cache.hit", false))
	return list, nil
}

func (s *Service) InvalidateLeaderboard() {
	s.cache.Clear()
}
