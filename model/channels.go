package model

import (
	"database/sql"
	"time"
)

type (
	ChannelService interface {
		// Add upserts by channel_id and reactivates a previously
		// removed channel.
		Add(channel *MandatoryChannel) error
		Remove(channelID int64) error
		Get(channelID int64) (*MandatoryChannel, error)
		GetActive() ([]MandatoryChannel, error)
	}

	MandatoryChannel struct {
		ID        int64          `db:"id"`
		ChannelID int64          `db:"channel_id"`
		Username  sql.NullString `db:"username"`
		Title     string         `db:"title"`
		IsActive  bool           `db:"is_active"`
		AddedBy   int64          `db:"added_by"`
		AddedAt   time.Time      `db:"added_at"`
	}
)

// Link returns the t.me URL of the channel, if one can be built.
func (channel *MandatoryChannel) Link() string {
	if channel.Username.Valid {
		return "https://t.me/" + channel.Username.String
	}
	return ""
}
