package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// NewUser is the signup payload.
type NewUser struct {
	Name  string `json:"name" validate:"notblank"`
	Email string `json:"email" validate:"notblank,email"`
}

// UserPatch carries only the fields a caller wants to change.
type UserPatch struct {
	Name  *string `json:"name" validate:"omitnil,notblank"`
	Email *string `json:"email" validate:"omitnil,email"`
}

func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil
}
