package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"shareit/internal/models"
)

func (db *DB) CreateRequest(ctx context.Context, request *models.ItemRequest) error {
	request.Created = time.Now().UTC()

	query := `INSERT INTO requests (description, requester_id, created) VALUES (?, ?, ?)`

	result, err := db.db.ExecContext(ctx, query,
		request.Description, request.RequesterID, request.Created)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	request.ID = id
	return nil
}

func (db *DB) GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error) {
	query := `SELECT id, description, requester_id, created FROM requests WHERE id = ?`

	var request models.ItemRequest
	err := db.db.QueryRowContext(ctx, query, id).Scan(
		&request.ID, &request.Description, &request.RequesterID, &request.Created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &request, nil
}

func (db *DB) RequestsByRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error) {
	query := `SELECT id, description, requester_id, created FROM requests
        WHERE requester_id = ? ORDER BY created DESC`
	return db.queryRequests(ctx, query, requesterID)
}

// RequestsFromOthers pages through requests created by everyone except the
// caller, newest first. A non-positive limit disables pagination.
func (db *DB) RequestsFromOthers(ctx context.Context, requesterID int64, limit, offset int) ([]*models.ItemRequest, error) {
	query := `SELECT id, description, requester_id, created FROM requests
        WHERE requester_id != ? ORDER BY created DESC`
	args := []interface{}{requesterID}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	return db.queryRequests(ctx, query, args...)
}

func (db *DB) queryRequests(ctx context.Context, query string, args ...interface{}) ([]*models.ItemRequest, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.ItemRequest
	for rows.Next() {
		var request models.ItemRequest
		err := rows.Scan(&request.ID, &request.Description, &request.RequesterID, &request.Created)
		if err != nil {
			return nil, err
		}
		requests = append(requests, &request)
	}

	return requests, rows.Err()
}
