package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shareit/internal/models"
)

func (db *DB) CreateRequest(ctx context.Context, request *models.Request) error {
	result, err := db.ExecContext(ctx,
		`INSERT INTO requests (description, requester_id, created) VALUES (?, ?, ?)`,
		request.Description, request.RequesterID, formatTime(request.Created),
	)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get request id: %w", err)
	}
	request.ID = id
	return nil
}

func (db *DB) GetRequest(ctx context.Context, id int64) (*models.Request, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, description, requester_id, created FROM requests WHERE id = ?`, id)
	request, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request %d: %w", id, err)
	}
	return request, nil
}

func (db *DB) GetRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.Request, error) {
	return db.queryRequests(ctx,
		`SELECT id, description, requester_id, created FROM requests
		 WHERE requester_id = ? ORDER BY created DESC, id DESC`,
		requesterID,
	)
}

func (db *DB) GetRequestsOfOthers(ctx context.Context, requesterID int64, page models.Page) ([]*models.Request, error) {
	return db.queryRequests(ctx,
		`SELECT id, description, requester_id, created FROM requests
		 WHERE requester_id <> ? ORDER BY created DESC, id DESC LIMIT ? OFFSET ?`,
		requesterID, page.Size, page.From,
	)
}

func (db *DB) queryRequests(ctx context.Context, query string, args ...interface{}) ([]*models.Request, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	requests := make([]*models.Request, 0)
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func scanRequest(s scanner) (*models.Request, error) {
	var r models.Request
	var created string
	if err := s.Scan(&r.ID, &r.Description, &r.RequesterID, &created); err != nil {
		return nil, err
	}
	var err error
	if r.Created, err = parseTime(created); err != nil {
		return nil, err
	}
	return &r, nil
}
