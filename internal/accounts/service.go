package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/hoosfit/internal/telemetry/tracing"
	"github.com/2beens/hoosfit/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Store interface {
	Add(ctx context.Context, account Account) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
	Delete(ctx context.Context, id int) error
}

// CreatedObserver is notified, synchronously, of every new account.
type CreatedObserver interface {
	OnAccountCreated(ctx context.Context, accountID int, username string) error
}

type Service struct {
	store     Store
	observers []CreatedObserver
	// ability to inject a cheaper hash func (for unit and dev testing)
	HashFunc func(password string) (string, error)
	now      func() time.Time
}

func NewService(store Store, observers ...CreatedObserver) *Service {
	return &Service{
		store:     store,
		observers: observers,
		HashFunc:  pkg.HashPassword,
		now:       time.Now,
	}
}

// Register creates an account and runs the observers. If an observer
// fails the account is deleted again, so an account never exists without
// what the observers create for it.
func (s *Service) Register(ctx context.Context, username, password string) (_ *Account, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.accounts.register")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := s.HashFunc(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.store.Add(ctx, Account{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("account.id", account.ID))

	for _, o := range s.observers {
		if err := o.OnAccountCreated(ctx, account.ID, account.Username); err != nil {
			if delErr := s.store.Delete(ctx, account.ID); delErr != nil {
				log.Errorf("remove account %d after failed setup: %s", account.ID, delErr)
			}
			return nil, fmt.Errorf("account setup: %w", err)
		}
	}

	log.Infof("account created: %s [%d]", account.Username, account.ID)
	return account, nil
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (_ *Account, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.accounts.authenticate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	account, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrWrongCredentials
		}
		return nil, err
	}

	if !pkg.CheckPasswordHash(password, account.PasswordHash) {
		return nil, ErrWrongCredentials
	}
	return account, nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*Account, error) {
	return s.store.GetByUsername(ctx, username)
}
