package cache

import (
	"context"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// SessionLock is the per-session single-flight guard: at most one send
// may be in progress for a session. SETNX with a TTL so a crashed turn
// cannot wedge the session forever.
type SessionLock struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewSessionLock(client *redisv9.Client, ttl time.Duration) *SessionLock {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &SessionLock{client: client, ttl: ttl}
}

// TryLock attempts to claim the session. It returns false when another
// send is already in flight.
func (l *SessionLock) TryLock(ctx context.Context, sessionID uint) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(sessionID), "1", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis acquire send lock failed: %w", err)
	}
	return ok, nil
}

// Unlock releases the session at the end of a turn.
func (l *SessionLock) Unlock(ctx context.Context, sessionID uint) error {
	if err := l.client.Del(ctx, l.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis release send lock failed: %w", err)
	}
	return nil
}

func (l *SessionLock) key(sessionID uint) string {
	return fmt.Sprintf("chat:send:lock:%d", sessionID)
}
