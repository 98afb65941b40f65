package database

import (
	"context"
	"fmt"

	"shareit/internal/models"
)

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	result, err := db.ExecContext(ctx,
		`INSERT INTO comments (text, item_id, author_id, created) VALUES (?, ?, ?, ?)`,
		comment.Text, comment.ItemID, comment.AuthorID, formatTime(comment.Created),
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get comment id: %w", err)
	}
	comment.ID = id
	return nil
}

// GetCommentsByItemIDs returns comments with author names, oldest first.
func (db *DB) GetCommentsByItemIDs(ctx context.Context, itemIDs []int64) ([]*models.Comment, error) {
	if len(itemIDs) == 0 {
		return []*models.Comment{}, nil
	}
	in, args := inClause(itemIDs)
	rows, err := db.QueryContext(ctx,
		`SELECT c.id, c.text, c.item_id, c.author_id, c.created, u.name
		 FROM comments c JOIN users u ON u.id = c.author_id
		 WHERE c.item_id IN (`+in+`) ORDER BY c.created, c.id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		var c models.Comment
		var created string
		if err := rows.Scan(&c.ID, &c.Text, &c.ItemID, &c.AuthorID, &created, &c.AuthorName); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		if c.Created, err = parseTime(created); err != nil {
			return nil, err
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}
