package sql

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ligarx-org/audiov1/logger"
	"github.com/ligarx-org/audiov1/model"
)

type channelService struct {
	*sqlx.DB
	log *logger.Logger
}

func NewChannelService(db *sqlx.DB) *channelService {
	return &channelService{
		DB:  db,
		log: logger.New("channelService"),
	}
}

func (db *channelService) Add(channel *model.MandatoryChannel) error {
	const query = `INSERT INTO
    mandatory_channels (channel_id, username, title, added_by)
    VALUES (?, ?, ?, ?)
    ON DUPLICATE KEY UPDATE username = VALUES(username), title = VALUES(title), is_active = true`
	return withRetry(func() error {
		_, err := db.Exec(query, channel.ChannelID, channel.Username, channel.Title, channel.AddedBy)
		return err
	})
}

func (db *channelService) Remove(channelID int64) error {
	const query = `UPDATE mandatory_channels SET is_active = false WHERE channel_id = ?`

	return withRetry(func() error {
		res, err := db.Exec(query, channelID)
		if err != nil {
			return err
		}
		return requireRow(res)
	})
}

func (db *channelService) Get(channelID int64) (*model.MandatoryChannel, error) {
	const query = `SELECT * FROM mandatory_channels WHERE channel_id = ?`

	var channel model.MandatoryChannel
	err := db.DB.Get(&channel, query, channelID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

func (db *channelService) GetActive() ([]model.MandatoryChannel, error) {
	const query = `SELECT * FROM mandatory_channels
	WHERE is_active = true
	ORDER BY added_at DESC`

	var channels []model.MandatoryChannel
	err := withRetry(func() error {
		return db.Select(&channels, query)
	})
	return channels, err
}
