package model

import (
	"database/sql"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"
)

type (
	UserService interface {
		// Upsert inserts the user or refreshes name, username and
		// last_activity for a known user_id.
		Upsert(user *gotgbot.User) error
		Get(userID int64) (*User, error)
		Ban(userID int64, reason string) error
		Unban(userID int64) error
		IsBanned(userID int64) (bool, error)
		BanInfo(userID int64) (*BanInfo, error)
		GetBanned(offset, limit int) ([]User, int, error)
		GetAllActive() ([]User, error)
		GetLanguage(userID int64) (string, error)
		SetLanguage(userID int64, language string) error
		Stats() (*UserStats, error)
	}

	User struct {
		ID           int64          `db:"user_id"`
		Username     sql.NullString `db:"username"`
		FirstName    string         `db:"first_name"`
		LastName     sql.NullString `db:"last_name"`
		Language     string         `db:"language"`
		IsBanned     bool           `db:"is_banned"`
		BanReason    sql.NullString `db:"ban_reason"`
		BanDate      sql.NullTime   `db:"ban_date"`
		CreatedAt    time.Time      `db:"created_at"`
		LastActivity time.Time      `db:"last_activity"`
	}

	BanInfo struct {
		Reason string    `db:"ban_reason"`
		Date   time.Time `db:"ban_date"`
	}

	UserStats struct {
		Total       int64 `db:"total"`
		ActiveToday int64 `db:"active_today"`
		ActiveWeek  int64 `db:"active_week"`
		ActiveMonth int64 `db:"active_month"`
	}
)

func (user *User) GetFullName() string {
	if user.LastName.Valid {
		return user.FirstName + " " + user.LastName.String
	}
	return user.FirstName
}
