package sql

import (
	"github.com/jmoiron/sqlx"

	"github.com/ligarx-org/audiov1/logger"
	"github.com/ligarx-org/audiov1/model"
)

type adminService struct {
	*sqlx.DB
	log *logger.Logger
}

func NewAdminService(db *sqlx.DB) *adminService {
	return &adminService{
		DB:  db,
		log: logger.New("adminService"),
	}
}

func (db *adminService) Add(userID, addedBy int64) error {
	const query = `INSERT INTO admins (user_id, added_by)
	VALUES (?, ?)
	ON DUPLICATE KEY UPDATE user_id = user_id`
	return withRetry(func() error {
		_, err := db.Exec(query, userID, addedBy)
		return err
	})
}

func (db *adminService) Remove(userID int64) error {
	const query = `DELETE FROM admins WHERE user_id = ?`
	return withRetry(func() error {
		_, err := db.Exec(query, userID)
		return err
	})
}

func (db *adminService) GetAll() ([]model.Admin, error) {
	const query = `SELECT * FROM admins ORDER BY added_at DESC`

	var admins []model.Admin
	err := db.Select(&admins, query)
	return admins, err
}

func (db *adminService) GetAllIDs() ([]int64, error) {
	const query = `SELECT user_id FROM admins`

	var ids []int64
	err := db.Select(&ids, query)
	return ids, err
}
