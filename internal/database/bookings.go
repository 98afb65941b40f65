package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shareit/internal/models"
)

const bookingSelect = `
	SELECT b.id, b.start_time, b.end_time, b.status, b.item_id, b.booker_id,
	       b.created_at, b.updated_at, i.name, i.owner_id, u.name
	FROM bookings b
	JOIN items i ON i.id = b.item_id
	JOIN users u ON u.id = b.booker_id`

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	result, err := db.ExecContext(ctx,
		`INSERT INTO bookings (start_time, end_time, status, item_id, booker_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		formatTime(booking.Start), formatTime(booking.End), string(booking.Status),
		booking.ItemID, booking.BookerID, formatTime(now), formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get booking id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

// GetBooking loads a booking together with its item name, owner and booker name.
func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	row := db.QueryRowContext(ctx, bookingSelect+` WHERE b.id = ?`, id)
	booking, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking %d: %w", id, err)
	}
	return booking, nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) error {
	result, err := db.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	return checkAffected(result)
}

// ListBookings returns bookings of one booker, or of items of one owner, matching the state.
// Newest start first.
func (db *DB) ListBookings(ctx context.Context, filter models.BookingFilter, page models.Page) ([]*models.Booking, error) {
	var (
		where []string
		args  []interface{}
	)

	switch {
	case filter.BookerID != 0:
		where = append(where, "b.booker_id = ?")
		args = append(args, filter.BookerID)
	case filter.OwnerID != 0:
		where = append(where, "i.owner_id = ?")
		args = append(args, filter.OwnerID)
	default:
		return nil, errors.New("booking filter needs a booker or an owner")
	}

	now := formatTime(filter.Now)
	switch filter.State {
	case models.StateAll, "":
	case models.StatePast:
		where = append(where, "b.end_time < ?")
		args = append(args, now)
	case models.StateFuture:
		where = append(where, "b.start_time > ?")
		args = append(args, now)
	case models.StateCurrent:
		where = append(where, "b.start_time <= ? AND b.end_time >= ?")
		args = append(args, now, now)
	case models.StateWaiting:
		where = append(where, "b.status = ?")
		args = append(args, string(models.StatusWaiting))
	case models.StateRejected:
		where = append(where, "b.status = ?")
		args = append(args, string(models.StatusRejected))
	default:
		return nil, fmt.Errorf("unsupported booking state %q", filter.State)
	}

	query := bookingSelect + ` WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY b.start_time DESC, b.id DESC LIMIT ? OFFSET ?`
	args = append(args, page.Size, page.From)

	return db.queryBookings(ctx, query, args...)
}

// GetBookingsByItemIDs returns every booking of the given items ordered by start.
func (db *DB) GetBookingsByItemIDs(ctx context.Context, itemIDs []int64) ([]*models.Booking, error) {
	if len(itemIDs) == 0 {
		return []*models.Booking{}, nil
	}
	in, args := inClause(itemIDs)
	return db.queryBookings(ctx,
		bookingSelect+` WHERE b.item_id IN (`+in+`) ORDER BY b.start_time, b.id`,
		args...,
	)
}

// HasFinishedBooking reports whether the booker has any booking of the item that ended before now.
func (db *DB) HasFinishedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE item_id = ? AND booker_id = ? AND end_time < ?)`,
		itemID, bookerID, formatTime(now),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check finished bookings: %w", err)
	}
	return exists, nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*models.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func scanBooking(s scanner) (*models.Booking, error) {
	var b models.Booking
	var start, end, created, updated, status string
	if err := s.Scan(
		&b.ID, &start, &end, &status, &b.ItemID, &b.BookerID,
		&created, &updated, &b.ItemName, &b.OwnerID, &b.BookerName,
	); err != nil {
		return nil, err
	}
	b.Status = models.BookingStatus(status)

	var err error
	for _, f := range []struct {
		dst *time.Time
		src string
	}{{&b.Start, start}, {&b.End, end}, {&b.CreatedAt, created}, {&b.UpdatedAt, updated}} {
		if *f.dst, err = parseTime(f.src); err != nil {
			return nil, err
		}
	}
	return &b, nil
}
