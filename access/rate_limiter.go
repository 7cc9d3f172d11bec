package access

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ligarx-org/audiov1/logger"
	"github.com/ligarx-org/audiov1/model"
)

// RateLimiter bounds admitted actions per (user, activity type) within a
// sliding window counted from the activity ledger. The count and the ledger
// insert for one key run under the same per-key mutex, so two overlapping
// commands can never both take the last slot.
type RateLimiter struct {
	activityService model.ActivityService
	settings        *Settings
	log             *logger.Logger
	now             func() time.Time

	mutex sync.Mutex
	keys  map[string]*sync.Mutex
}

func NewRateLimiter(activityService model.ActivityService, settings *Settings) *RateLimiter {
	return &RateLimiter{
		activityService: activityService,
		settings:        settings,
		log:             logger.New("rateLimiter"),
		now:             time.Now,
		keys:            make(map[string]*sync.Mutex),
	}
}

// AdmitAndRecord admits the action and appends its ledger entry, or returns
// a positive retry-after when the window is full. The record exists before
// this returns, so handlers can rely on it.
func (l *RateLimiter) AdmitAndRecord(userID int64, activityType, activityData string) (time.Duration, error) {
	lock := l.keyLock(userID, activityType)
	lock.Lock()
	defer lock.Unlock()

	window := l.settings.RateLimitWindow(activityType)
	maxCount := l.settings.RateLimitMaxCount(activityType)
	windowStart := l.now().Add(-window)

	count, err := l.activityService.CountSince(userID, activityType, windowStart)
	if err != nil {
		return 0, err
	}

	if count >= maxCount {
		return l.retryAfter(userID, activityType, windowStart, window), nil
	}

	if err := l.activityService.Record(userID, activityType, activityData); err != nil {
		return 0, err
	}

	return 0, nil
}

// retryAfter is the time until the oldest in-window entry leaves the window.
func (l *RateLimiter) retryAfter(userID int64, activityType string, windowStart time.Time, window time.Duration) time.Duration {
	oldest, err := l.activityService.OldestSince(userID, activityType, windowStart)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			l.log.Err(err).Int64("user_id", userID).Msg("Failed to compute retry-after")
		}
		return time.Second
	}

	retryAfter := oldest.Add(window).Sub(l.now())
	if retryAfter < time.Second {
		retryAfter = time.Second
	}
	return retryAfter
}

func (l *RateLimiter) keyLock(userID int64, activityType string) *sync.Mutex {
	key := fmt.Sprintf("%d:%s", userID, activityType)

	l.mutex.Lock()
	defer l.mutex.Unlock()

	lock, exists := l.keys[key]
	if !exists {
		lock = &sync.Mutex{}
		l.keys[key] = lock
	}
	return lock
}
