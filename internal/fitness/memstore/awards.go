package memstore

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/2beens/hoosfit/internal/fitness/awards"
	"github.com/2beens/hoosfit/internal/fitness/exercises"
)

type AwardRepo struct {
	s *Store
}

func (r *AwardRepo) Get(_ context.Context, accountID int, exerciseName string) (*awards.Award, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.st.awards {
		if a.AccountID == accountID && a.ExerciseName == exerciseName {
			return &a, nil
		}
	}
	return nil, awards.ErrAwardNotFound
}

func (r *AwardRepo) Add(_ context.Context, award awards.Award) (*awards.Award, error) {
	if err := r.s.checkFail("award.add", award.ExerciseName); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(award.ExerciseName) > exercises.MaxNameLength {
		return nil, fmt.Errorf("memstore: exercise name too long for award: %q", award.ExerciseName)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.st.awards {
		if a.AccountID == award.AccountID && a.ExerciseName == award.ExerciseName {
			return nil, uniqueViolation("award exists")
		}
	}
	award.ID = r.s.st.id()
	r.s.st.awards = append(r.s.st.awards, award)
	return &award, nil
}

func (r *AwardRepo) Update(_ context.Context, award *awards.Award) error {
	if err := r.s.checkFail("award.update", award.ExerciseName); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, a := range r.s.st.awards {
		if a.ID == award.ID && a.AccountID == award.AccountID {
			r.s.st.awards[i] = *award
			return nil
		}
	}
	return awards.ErrAwardNotFound
}

func (r *AwardRepo) List(_ context.Context, accountID int) ([]awards.Award, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var list []awards.Award
	for _, a := range r.s.st.awards {
		if a.AccountID == accountID {
			list = append(list, a)
		}
	}
	return list, nil
}
