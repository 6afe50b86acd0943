package accounts

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxUsernameLength = 150
	MinPasswordLength = 8
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrUsernameTaken    = errors.New("username taken")
	ErrInvalidUsername  = errors.New("invalid username")
	ErrPasswordTooShort = fmt.Errorf("password must have at least %d characters", MinPasswordLength)
	ErrWrongCredentials = errors.New("wrong username or password")
)

// paths under /profiles/ that are not user pages
var reservedUsernames = map[string]bool{
	"home": true,
}

type Account struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ValidateUsername allows letters, digits and @.+-_ up to
// MaxUsernameLength characters. Usernames end up in URL paths.
func ValidateUsername(username string) error {
	if username == "" || utf8.RuneCountInString(username) > MaxUsernameLength {
		return fmt.Errorf("%w: length must be 1 to %d", ErrInvalidUsername, MaxUsernameLength)
	}
	if reservedUsernames[strings.ToLower(username)] {
		return fmt.Errorf("%w: %s is reserved", ErrInvalidUsername, username)
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '@', r == '.', r == '+', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: character %q not allowed", ErrInvalidUsername, r)
		}
	}
	return nil
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
