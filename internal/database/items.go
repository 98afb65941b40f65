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

const itemColumns = `id, name, description, available, owner_id, request_id, created_at, updated_at`

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (name, description, available, owner_id, request_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.Name, item.Description, item.Available, item.OwnerID, item.RequestID,
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get item id: %w", err)
	}
	item.ID = id
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

func (db *DB) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	row := db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item %d: %w", id, err)
	}
	return item, nil
}

// UpdateItem stores the mutable fields. Owner and request link never change.
func (db *DB) UpdateItem(ctx context.Context, item *models.Item) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	result, err := db.ExecContext(ctx,
		`UPDATE items SET name = ?, description = ?, available = ?, updated_at = ? WHERE id = ?`,
		item.Name, item.Description, item.Available, formatTime(now), item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item %d: %w", item.ID, err)
	}
	if err := checkAffected(result); err != nil {
		return err
	}
	item.UpdatedAt = now
	return nil
}

func (db *DB) DeleteItem(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item %d: %w", id, err)
	}
	return checkAffected(result)
}

func (db *DB) GetItemsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]*models.Item, error) {
	return db.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items WHERE owner_id = ? ORDER BY id LIMIT ? OFFSET ?`,
		ownerID, page.Size, page.From,
	)
}

// SearchAvailableItems matches text against name and description, ignoring case.
func (db *DB) SearchAvailableItems(ctx context.Context, text string, page models.Page) ([]*models.Item, error) {
	needle := strings.ToLower(text)
	return db.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE available = 1
		   AND (instr(casefold(name), ?) > 0 OR instr(casefold(description), ?) > 0)
		 ORDER BY id LIMIT ? OFFSET ?`,
		needle, needle, page.Size, page.From,
	)
}

func (db *DB) GetItemsByRequestIDs(ctx context.Context, requestIDs []int64) ([]*models.Item, error) {
	if len(requestIDs) == 0 {
		return []*models.Item{}, nil
	}
	in, args := inClause(requestIDs)
	return db.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items WHERE request_id IN (`+in+`) ORDER BY id`,
		args...,
	)
}

func (db *DB) queryItems(ctx context.Context, query string, args ...interface{}) ([]*models.Item, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanItem(s scanner) (*models.Item, error) {
	var item models.Item
	var requestID sql.NullInt64
	var created, updated string
	if err := s.Scan(
		&item.ID, &item.Name, &item.Description, &item.Available, &item.OwnerID,
		&requestID, &created, &updated,
	); err != nil {
		return nil, err
	}
	if requestID.Valid {
		item.RequestID = &requestID.Int64
	}
	var err error
	if item.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if item.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &item, nil
}
