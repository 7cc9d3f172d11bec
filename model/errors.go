package model

import "errors"

var (
	ErrNotFound   = errors.New("record not found")
	ErrNotAnAdmin = errors.New("actor is not an admin")
	ErrProtected  = errors.New("mega admin cannot be removed")
)
