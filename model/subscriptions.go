package model

import "time"

type (
	SubscriptionService interface {
		// Get returns the cached verdict for (user, channel) or
		// ErrNotFound if the pair was never checked.
		Get(userID, channelID int64) (*Subscription, error)
		// Upsert refreshes the verdict in place; there is at most one
		// row per (user, channel).
		Upsert(userID, channelID int64, isSubscribed bool) error
	}

	Subscription struct {
		UserID       int64     `db:"user_id"`
		ChannelID    int64     `db:"channel_id"`
		IsSubscribed bool      `db:"is_subscribed"`
		CheckedAt    time.Time `db:"checked_at"`
	}
)
