package workouts_test

import (
	"time"

	"github.com/2beens/hoosfit/internal/accounts"
)

func accountFor(username string) accounts.Account {
	return accounts.Account{
		Username:     username,
		PasswordHash: "not-a-real-hash",
		CreatedAt:    time.Now(),
	}
}
