package sql

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ligarx-org/audiov1/logger"
	"github.com/ligarx-org/audiov1/model"
)

type subscriptionService struct {
	*sqlx.DB
	log *logger.Logger
}

func NewSubscriptionService(db *sqlx.DB) *subscriptionService {
	return &subscriptionService{
		DB:  db,
		log: logger.New("subscriptionService"),
	}
}

func (db *subscriptionService) Get(userID, channelID int64) (*model.Subscription, error) {
	const query = `SELECT * FROM user_subscriptions
	WHERE user_id = ?
	  AND channel_id = ?`

	var subscription model.Subscription
	err := withRetry(func() error {
		return db.DB.Get(&subscription, query, userID, channelID)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (db *subscriptionService) Upsert(userID, channelID int64, isSubscribed bool) error {
	const query = `INSERT INTO
    user_subscriptions (user_id, channel_id, is_subscribed, checked_at)
    VALUES (?, ?, ?, CURRENT_TIMESTAMP)
    ON DUPLICATE KEY UPDATE is_subscribed = VALUES(is_subscribed), checked_at = CURRENT_TIMESTAMP`
	return withRetry(func() error {
		_, err := db.Exec(query, userID, channelID, isSubscribed)
		return err
	})
}
