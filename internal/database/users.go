package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	result, err := db.ExecContext(ctx,
		`INSERT INTO users (name, email, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		user.Name, user.Email, formatTime(now), formatTime(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user id: %w", err)
	}
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, name, email, created_at, updated_at FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return user, nil
}

func (db *DB) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, email, created_at, updated_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser overwrites name and email of an existing row.
func (db *DB) UpdateUser(ctx context.Context, user *models.User) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	result, err := db.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, updated_at = ? WHERE id = ?`,
		user.Name, user.Email, formatTime(now), user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update user %d: %w", user.ID, err)
	}
	if err := checkAffected(result); err != nil {
		return err
	}
	user.UpdatedAt = now
	return nil
}

func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return checkAffected(result)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(s scanner) (*models.User, error) {
	var u models.User
	var created, updated string
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if u.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &u, nil
}
