package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
	now         func() time.Time
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
		now:         time.Now,
	}
}

// LoggedUser returns the username owning the session token.
func (lc *LoginChecker) LoggedUser(ctx context.Context, token string) (string, error) {
	session, err := lc.redisClient.HGetAll(ctx, sessionKey(token)).Result()
	if err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}
	if len(session) == 0 {
		return "", ErrSessionNotFound
	}

	username := session[fieldUsername]
	if username == "" {
		return "", ErrSessionNotFound
	}

	createdAtUnix, err := strconv.ParseInt(session[fieldCreatedAt], 10, 64)
	if err != nil {
		return "", fmt.Errorf("parse session created at: %w", err)
	}

	if lc.now().Sub(time.Unix(createdAtUnix, 0)) > lc.ttl {
		return "", ErrSessionExpired
	}

	return username, nil
}
