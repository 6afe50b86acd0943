package auth

import (
	"context"
	"sync"
)

var _ Checker = (*LoginChecker)(nil)
var _ Checker = (*LoginTestChecker)(nil)

type Checker interface {
	LoggedUser(ctx context.Context, token string) (string, error)
}

// LoginTestChecker is an in-memory Checker for handler tests.
type LoginTestChecker struct {
	mu       sync.RWMutex
	sessions map[string]string
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		sessions: map[string]string{},
	}
}

func (c *LoginTestChecker) AddSession(token, username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[token] = username
}

func (c *LoginTestChecker) LoggedUser(_ context.Context, token string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	username, ok := c.sessions[token]
	if !ok {
		return "", ErrSessionNotFound
	}
	return username, nil
}

func (c *LoginTestChecker) RemoveSession(token string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.sessions[token]
	delete(c.sessions, token)
	return ok
}
