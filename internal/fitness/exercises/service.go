package exercises

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/hoosfit/internal/fitness"
	"github.com/2beens/hoosfit/internal/telemetry/tracing"
	"github.com/2beens/hoosfit/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// RecentLogDays is how many days back the profile dashboard looks.
const RecentLogDays = 7

type Store interface {
	AddDefinition(ctx context.Context, def Definition) (*Definition, error)
	FindDefinitionByName(ctx context.Context, accountID int, name string) (*Definition, error)
	ListDefinitions(ctx context.Context, accountID int) ([]Definition, error)
	ListLogEntries(ctx context.Context, params LogParams) ([]LogEntry, error)
}

type Service struct {
	store Store
	clock fitness.Clock
}

func NewService(store Store, clock fitness.Clock) *Service {
	return &Service{
		store: store,
		clock: clock,
	}
}

// RegisterDefinition adds an exercise type for the account unless one with
// the same name, ignoring case, exists. The bool reports whether a new
// definition was created.
func (s *Service) RegisterDefinition(ctx context.Context, accountID int, name string) (_ *Definition, _ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.exercises.registerDefinition")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	name, err = ValidateName(name)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.store.FindDefinitionByName(ctx, accountID, name)
	if err == nil {
		span.SetAttributes(attribute.Bool("duplicate", true))
		return existing, false, nil
	}
	if !errors.Is(err, ErrDefinitionNotFound) {
		return nil, false, err
	}

	def, err := s.store.AddDefinition(ctx, Definition{
		AccountID: accountID,
		Name:      name,
		CreatedAt: s.clock(),
	})
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			// a concurrent submission created it first
			log.Debugf("definition [%s] of account %d created concurrently", name, accountID)
			existing, findErr := s.store.FindDefinitionByName(ctx, accountID, name)
			if findErr != nil {
				return nil, false, fmt.Errorf("find concurrently created definition: %w", findErr)
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	span.SetAttributes(attribute.Int("definition.id", def.ID))
	return def, true, nil
}

func (s *Service) ListDefinitions(ctx context.Context, accountID int) ([]Definition, error) {
	return s.store.ListDefinitions(ctx, accountID)
}

// RecentLog returns the entries of the last RecentLogDays days plus today,
// newest first.
func (s *Service) RecentLog(ctx context.Context, accountID int) ([]LogEntry, error) {
	today := s.clock.Today()
	return s.store.ListLogEntries(ctx, LogParams{
		AccountID:   accountID,
		From:        today.AddDate(0, 0, -RecentLogDays),
		To:          today,
		NewestFirst: true,
	})
}

// WorkoutLogToday returns what was logged for the workout today, in
// submission order.
func (s *Service) WorkoutLogToday(ctx context.Context, accountID, workoutID int) ([]LogEntry, error) {
	today := s.clock.Today()
	return s.store.ListLogEntries(ctx, LogParams{
		AccountID: accountID,
		WorkoutID: &workoutID,
		From:      today,
		To:        today,
	})
}
