package sql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ligarx-org/audiov1/logger"
	"github.com/ligarx-org/audiov1/model"
)

type activityService struct {
	*sqlx.DB
	log *logger.Logger
}

func NewActivityService(db *sqlx.DB) *activityService {
	return &activityService{
		DB:  db,
		log: logger.New("activityService"),
	}
}

// Record appends one ledger entry and refreshes the user's last_activity
// in the same transaction.
func (db *activityService) Record(userID int64, activityType, activityData string) error {
	const insertQuery = `INSERT INTO
    user_activity (user_id, activity_type, activity_data)
    VALUES (?, ?, ?)`
	const touchQuery = `UPDATE users SET last_activity = CURRENT_TIMESTAMP WHERE user_id = ?`

	return withRetry(func() error {
		tx, err := db.BeginTxx(context.Background(), nil)
		if err != nil {
			return err
		}

		defer func(tx *sqlx.Tx) {
			err := tx.Rollback()
			if err != nil && !errors.Is(err, sql.ErrTxDone) {
				db.log.Err(err).Msg("failed to rollback transaction")
			}
		}(tx)

		if _, err := tx.Exec(insertQuery, userID, activityType, NewNullString(activityData)); err != nil {
			return err
		}

		if _, err := tx.Exec(touchQuery, userID); err != nil {
			return err
		}

		return tx.Commit()
	})
}

func (db *activityService) CountSince(userID int64, activityType string, since time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM user_activity
	WHERE user_id = ?
	  AND activity_type = ?
	  AND created_at >= ?`

	var count int
	err := withRetry(func() error {
		return db.DB.Get(&count, query, userID, activityType, since)
	})
	return count, err
}

func (db *activityService) OldestSince(userID int64, activityType string, since time.Time) (time.Time, error) {
	const query = `SELECT created_at FROM user_activity
	WHERE user_id = ?
	  AND activity_type = ?
	  AND created_at >= ?
	ORDER BY created_at
	LIMIT 1`

	var oldest time.Time
	err := db.DB.Get(&oldest, query, userID, activityType, since)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, model.ErrNotFound
	}
	return oldest, err
}

func (db *activityService) CountByType(activityType string) (int64, error) {
	const query = `SELECT COUNT(*) FROM user_activity WHERE activity_type = ?`

	var count int64
	err := db.DB.Get(&count, query, activityType)
	return count, err
}

func (db *activityService) CountByTypeSince(activityType string, since time.Time) (int64, error) {
	const query = `SELECT COUNT(*) FROM user_activity
	WHERE activity_type = ?
	  AND created_at >= ?`

	var count int64
	err := db.DB.Get(&count, query, activityType, since)
	return count, err
}

func (db *activityService) GetRange(userID int64, from, to time.Time) ([]model.ActivityRecord, error) {
	const query = `SELECT * FROM user_activity
	WHERE user_id = ?
	  AND created_at BETWEEN ? AND ?
	ORDER BY created_at`

	var records []model.ActivityRecord
	err := db.Select(&records, query, userID, from, to)
	return records, err
}
