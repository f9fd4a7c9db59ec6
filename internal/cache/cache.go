package cache

import (
	"context"
	"errors"
	"time"
)

// Cache stores JSON values. A corrupt entry reads as a miss.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	// AddJSON stores val only when key is absent.
	AddJSON(ctx context.Context, key string, val any, ttl time.Duration) (stored bool, err error)
	Del(ctx context.Context, keys ...string) error
}

// Locker hands out short-lived exclusive locks keyed by name.
type Locker interface {
	// TryLock returns ErrLocked when another holder owns key.
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock func(context.Context) error, err error)
}

var ErrLocked = errors.New("lock is held")

func ResumeKey(userID, resumeID string) string {
	return "resume:" + userID + ":" + resumeID
}

func SaveLockKey(resumeID string) string {
	return "resume-save:" + resumeID
}
