package memstore

import (
	"context"

	"github.com/2beens/hoosfit/internal/accounts"
	"github.com/2beens/hoosfit/internal/fitness/awards"
	"github.com/2beens/hoosfit/internal/fitness/exercises"
	"github.com/2beens/hoosfit/internal/fitness/profiles"
	"github.com/2beens/hoosfit/internal/fitness/workouts"
)

type AccountRepo struct {
	s *Store
}

func (r *AccountRepo) Add(_ context.Context, account accounts.Account) (*accounts.Account, error) {
	if err := r.s.checkFail("account.add", account.Username); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.st.accounts {
		if a.Username == account.Username {
			return nil, accounts.ErrUsernameTaken
		}
	}
	account.ID = r.s.st.id()
	r.s.st.accounts = append(r.s.st.accounts, account)
	return &account, nil
}

func (r *AccountRepo) GetByUsername(_ context.Context, username string) (*accounts.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.st.accounts {
		if a.Username == username {
			return &a, nil
		}
	}
	return nil, accounts.ErrAccountNotFound
}

// Delete cascades to everything the account owns.
func (r *AccountRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st := r.s.st
	found := false
	for i, a := range st.accounts {
		if a.ID == id {
			st.accounts = append(st.accounts[:i], st.accounts[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return accounts.ErrAccountNotFound
	}

	st.profiles = filter(st.profiles, func(p profiles.Profile) bool { return p.AccountID != id })
	st.definitions = filter(st.definitions, func(d exercises.Definition) bool { return d.AccountID != id })
	st.logEntries = filter(st.logEntries, func(e exercises.LogEntry) bool { return e.AccountID != id })
	st.awards = filter(st.awards, func(a awards.Award) bool { return a.AccountID != id })
	for _, w := range st.workouts {
		if w.AccountID == id {
			delete(st.links, w.ID)
		}
	}
	st.workouts = filter(st.workouts, func(w workouts.Workout) bool { return w.AccountID != id })
	return nil
}
