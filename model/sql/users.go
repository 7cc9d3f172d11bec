package sql

import (
	"database/sql"
	"errors"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/jmoiron/sqlx"

	"github.com/ligarx-org/audiov1/logger"
	"github.com/ligarx-org/audiov1/model"
)

type userService struct {
	*sqlx.DB
	log *logger.Logger
}

func NewUserService(db *sqlx.DB) *userService {
	return &userService{
		DB:  db,
		log: logger.New("userService"),
	}
}

func (db *userService) Upsert(user *gotgbot.User) error {
	const query = `INSERT INTO
    users (user_id, username, first_name, last_name)
    VALUES (?, ?, ?, ?)
    ON DUPLICATE KEY UPDATE username = ?, first_name = ?, last_name = ?, last_activity = CURRENT_TIMESTAMP`
	return withRetry(func() error {
		_, err := db.Exec(
			query,
			user.Id,
			NewNullString(user.Username),
			user.FirstName,
			NewNullString(user.LastName),
			NewNullString(user.Username),
			user.FirstName,
			NewNullString(user.LastName),
		)
		return err
	})
}

func (db *userService) Get(userID int64) (*model.User, error) {
	const query = `SELECT * FROM users WHERE user_id = ?`

	var user model.User
	err := withRetry(func() error {
		return db.DB.Get(&user, query, userID)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *userService) Ban(userID int64, reason string) error {
	const query = `UPDATE users
	SET is_banned = true, ban_reason = ?, ban_date = CURRENT_TIMESTAMP
	WHERE user_id = ?`

	return withRetry(func() error {
		res, err := db.Exec(query, reason, userID)
		if err != nil {
			return err
		}
		return requireRow(res)
	})
}

func (db *userService) Unban(userID int64) error {
	const query = `UPDATE users
	SET is_banned = false, ban_reason = NULL, ban_date = NULL
	WHERE user_id = ?`

	return withRetry(func() error {
		res, err := db.Exec(query, userID)
		if err != nil {
			return err
		}
		return requireRow(res)
	})
}

func (db *userService) IsBanned(userID int64) (bool, error) {
	const query = `SELECT is_banned FROM users WHERE user_id = ?`

	var banned bool
	err := withRetry(func() error {
		return db.DB.Get(&banned, query, userID)
	})
	if errors.Is(err, sql.ErrNoRows) {
		// Never-seen users are not banned
		return false, nil
	}
	return banned, err
}

func (db *userService) BanInfo(userID int64) (*model.BanInfo, error) {
	const query = `SELECT ban_reason, ban_date FROM users
	WHERE user_id = ?
	  AND is_banned = true`

	var info model.BanInfo
	err := withRetry(func() error {
		return db.DB.Get(&info, query, userID)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (db *userService) GetBanned(offset, limit int) ([]model.User, int, error) {
	const countQuery = `SELECT COUNT(*) FROM users WHERE is_banned = true`
	const query = `SELECT * FROM users
	WHERE is_banned = true
	ORDER BY ban_date DESC
	LIMIT ? OFFSET ?`

	var total int
	if err := db.DB.Get(&total, countQuery); err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := db.Select(&users, query, limit, offset)
	return users, total, err
}

func (db *userService) GetAllActive() ([]model.User, error) {
	const query = `SELECT * FROM users
	WHERE is_banned = false
	ORDER BY last_activity DESC`

	var users []model.User
	err := db.Select(&users, query)
	return users, err
}

func (db *userService) GetLanguage(userID int64) (string, error) {
	const query = `SELECT language FROM users WHERE user_id = ?`

	var language string
	err := db.DB.Get(&language, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "uz", nil
	}
	return language, err
}

func (db *userService) SetLanguage(userID int64, language string) error {
	const query = `UPDATE users SET language = ? WHERE user_id = ?`

	res, err := db.Exec(query, language, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (db *userService) Stats() (*model.UserStats, error) {
	const query = `SELECT COUNT(*)                                             AS total,
       COALESCE(SUM(last_activity >= ?), 0)                 AS active_today,
       COALESCE(SUM(last_activity >= ?), 0)                 AS active_week,
       COALESCE(SUM(last_activity >= ?), 0)                 AS active_month
	FROM users`

	now := time.Now()
	var stats model.UserStats
	err := db.DB.Get(
		&stats,
		query,
		now.Add(-24*time.Hour),
		now.Add(-7*24*time.Hour),
		now.Add(-30*24*time.Hour),
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// requireRow maps "no row matched" onto model.ErrNotFound. The DSN sets
// clientFoundRows so no-op updates (unban of a not-banned user) still count
// as matched and stay idempotent successes.
func requireRow(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return model.ErrNotFound
	}
	return nil
}
