package models

import "time"

type Comment struct {
	ID       int64
	Text     string
	ItemID   int64
	AuthorID int64
	Created  time.Time

	// Filled by joined reads only.
	AuthorName string
}

type NewComment struct {
	Text string `json:"text" validate:"notblank"`
}
