package memstore

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/2beens/hoosfit/internal/fitness/profiles"
)

type ProfileRepo struct {
	s *Store
}

func (r *ProfileRepo) Add(_ context.Context, profile profiles.Profile) error {
	if err := r.s.checkFail("profile.add", profile.Username); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.st.profiles {
		if p.AccountID == profile.AccountID {
			return uniqueViolation("profile exists")
		}
	}
	r.s.st.profiles = append(r.s.st.profiles, profile)
	return nil
}

func (r *ProfileRepo) Get(_ context.Context, accountID int) (*profiles.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if i := r.index(accountID); i >= 0 {
		p := r.s.st.profiles[i]
		return &p, nil
	}
	return nil, profiles.ErrProfileNotFound
}

func (r *ProfileRepo) GetByUsername(_ context.Context, username string) (*profiles.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.st.profiles {
		if p.Username == username {
			return &p, nil
		}
	}
	return nil, profiles.ErrProfileNotFound
}

func (r *ProfileRepo) Update(_ context.Context, profile *profiles.Profile) error {
	if err := r.s.checkFail("profile.update", profile.Username); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.index(profile.AccountID)
	if i < 0 {
		return profiles.ErrProfileNotFound
	}
	r.s.st.profiles[i] = *profile
	return nil
}

func (r *ProfileRepo) ResetStaleStreak(_ context.Context, accountID int, before time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.index(accountID)
	if i < 0 {
		return false, nil
	}
	p := &r.s.st.profiles[i]
	if p.Streak > 0 && p.LastWorkout.Before(before) {
		p.Streak = 0
		return true, nil
	}
	return false, nil
}

func (r *ProfileRepo) ResetStaleStreaks(_ context.Context, before time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var reset int64
	for i := range r.s.st.profiles {
		p := &r.s.st.profiles[i]
		if p.Streak > 0 && p.LastWorkout.Before(before) {
			p.Streak = 0
			reset++
		}
	}
	return reset, nil
}

func (r *ProfileRepo) ListByPoints(_ context.Context, limit int) ([]profiles.Profile, error) {
	r.s.mu.Lock()
	list := slices.Clone(r.s.st.profiles)
	r.s.mu.Unlock()

	slices.SortStableFunc(list, func(a, b profiles.Profile) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		return cmp.Compare(a.Username, b.Username)
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// index expects the lock to be held.
func (r *ProfileRepo) index(accountID int) int {
	for i, p := range r.s.st.profiles {
		if p.AccountID == accountID {
			return i
		}
	}
	return -1
}
