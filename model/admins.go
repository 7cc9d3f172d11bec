package model

import "time"

type (
	AdminService interface {
		Add(userID, addedBy int64) error
		Remove(userID int64) error
		GetAll() ([]Admin, error)
		GetAllIDs() ([]int64, error)
	}

	Admin struct {
		UserID  int64     `db:"user_id"`
		AddedBy int64     `db:"added_by"`
		AddedAt time.Time `db:"added_at"`
	}
)
