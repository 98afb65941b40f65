package models

import "time"

type Item struct {
	ID          int64
	Name        string
	Description string
	Available   bool
	OwnerID     int64
	RequestID   *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type NewItem struct {
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
	Available   *bool  `json:"available" validate:"required"`
	RequestID   *int64 `json:"requestId"`
}

// ItemPatch is applied field by field; nil fields are left untouched.
type ItemPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

func (p ItemPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Available == nil
}
