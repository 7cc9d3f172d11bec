package model

import (
	"database/sql"
	"time"
)

type (
	// ActivityService is the append-only ledger of admitted actions.
	// Records are never updated or deleted.
	ActivityService interface {
		Record(userID int64, activityType, activityData string) error
		CountSince(userID int64, activityType string, since time.Time) (int, error)
		// OldestSince returns the created_at of the oldest entry for the
		// key within [since, now], or ErrNotFound.
		OldestSince(userID int64, activityType string, since time.Time) (time.Time, error)
		CountByType(activityType string) (int64, error)
		CountByTypeSince(activityType string, since time.Time) (int64, error)
		GetRange(userID int64, from, to time.Time) ([]ActivityRecord, error)
	}

	ActivityRecord struct {
		ID           int64          `db:"id"`
		UserID       int64          `db:"user_id"`
		ActivityType string         `db:"activity_type"`
		ActivityData sql.NullString `db:"activity_data"`
		CreatedAt    time.Time      `db:"created_at"`
	}
)
