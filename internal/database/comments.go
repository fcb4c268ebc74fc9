package database

import (
	"context"
	"time"

	"shareit/internal/models"
)

// CreateComment persists a comment; the creation timestamp is assigned here,
// at write time.
func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.Created = time.Now().UTC()

	query := `INSERT INTO comments (text, item_id, author_id, created) VALUES (?, ?, ?, ?)`

	result, err := db.db.ExecContext(ctx, query,
		comment.Text, comment.ItemID, comment.AuthorID, comment.Created)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	comment.ID = id
	return nil
}

func (db *DB) CommentsByItem(ctx context.Context, itemID int64) ([]models.CommentView, error) {
	query := `SELECT c.id, c.text, c.item_id, c.author_id, c.created, COALESCE(u.name, '')
        FROM comments c
        LEFT JOIN users u ON u.id = c.author_id
        WHERE c.item_id = ? ORDER BY c.id`

	rows, err := db.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.CommentView
	for rows.Next() {
		var view models.CommentView
		err := rows.Scan(&view.ID, &view.Text, &view.ItemID, &view.AuthorID,
			&view.Created, &view.AuthorName)
		if err != nil {
			return nil, err
		}
		comments = append(comments, view)
	}

	return comments, rows.Err()
}
