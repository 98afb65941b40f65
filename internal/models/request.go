package models

import "time"

// Request is a user's ask for an item that is not in the catalog yet.
type Request struct {
	ID          int64
	Description string
	RequesterID int64
	Created     time.Time
}

type NewRequest struct {
	Description string `json:"description" validate:"notblank"`
}
