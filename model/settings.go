package model

import "time"

type (
	// SettingService is generic key→value configuration. Values are read
	// at decision time so changes apply without a restart.
	SettingService interface {
		Get(key string) (string, error)
		Set(key, value string) error
		GetAll() ([]Setting, error)
	}

	Setting struct {
		Key       string    `db:"key"`
		Value     string    `db:"value"`
		UpdatedAt time.Time `db:"updated_at"`
	}
)
