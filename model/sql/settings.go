package sql

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ligarx-org/audiov1/logger"
	"github.com/ligarx-org/audiov1/model"
)

type settingService struct {
	*sqlx.DB
	log *logger.Logger
}

func NewSettingService(db *sqlx.DB) *settingService {
	return &settingService{
		DB:  db,
		log: logger.New("settingService"),
	}
}

func (db *settingService) Get(key string) (string, error) {
	const query = "SELECT value FROM bot_settings WHERE `key` = ?"

	var value string
	err := db.DB.Get(&value, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", model.ErrNotFound
	}
	return value, err
}

func (db *settingService) Set(key, value string) error {
	const query = "INSERT INTO bot_settings (`key`, value) VALUES (?, ?) " +
		"ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = CURRENT_TIMESTAMP"
	return withRetry(func() error {
		_, err := db.Exec(query, key, value)
		return err
	})
}

func (db *settingService) GetAll() ([]model.Setting, error) {
	const query = "SELECT * FROM bot_settings ORDER BY `key`"

	var settings []model.Setting
	err := db.Select(&settings, query)
	return settings, err
}
