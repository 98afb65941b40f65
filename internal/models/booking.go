package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type Booking struct {
	ID        int64
	Start     time.Time
	End       time.Time
	Status    BookingStatus
	ItemID    int64
	BookerID  int64
	CreatedAt time.Time
	UpdatedAt time.Time

	// Filled by joined reads only.
	ItemName   string
	OwnerID    int64
	BookerName string
}

type NewBooking struct {
	ItemID *int64     `json:"itemId" validate:"required"`
	Start  *time.Time `json:"start" validate:"required"`
	End    *time.Time `json:"end" validate:"required"`
}

// clientTimeLayouts are tried in order. Zone-less values are read as UTC.
var clientTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

func (b *NewBooking) UnmarshalJSON(data []byte) error {
	var raw struct {
		ItemID *int64  `json:"itemId"`
		Start  *string `json:"start"`
		End    *string `json:"end"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	start, err := ParseClientTime(raw.Start)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	end, err := ParseClientTime(raw.End)
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}

	b.ItemID, b.Start, b.End = raw.ItemID, start, end
	return nil
}

// ParseClientTime parses a booking bound. nil stays nil.
func ParseClientTime(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	for _, layout := range clientTimeLayouts {
		if t, err := time.ParseInLocation(layout, *raw, time.UTC); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized time %q", *raw)
}

// BookingFilter selects a slice of the ledger either by booker or by item owner.
type BookingFilter struct {
	BookerID int64
	OwnerID  int64
	State    BookingState
	Now      time.Time
}
