package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

const bookingColumns = `b.id, b.start_date, b.end_date, b.item_id, b.booker_id, b.status`

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (start_date, end_date, item_id, booker_id, status)
        VALUES (?, ?, ?, ?, ?)`

	result, err := db.db.ExecContext(ctx, query,
		booking.Start.UTC(), booking.End.UTC(), booking.ItemID, booking.BookerID, booking.Status)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	booking.ID = id
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = ?`

	var booking models.Booking
	err := db.db.QueryRowContext(ctx, query, id).Scan(
		&booking.ID, &booking.Start, &booking.End,
		&booking.ItemID, &booking.BookerID, &booking.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) error {
	query := `UPDATE bookings SET status = ? WHERE id = ?`

	_, err := db.db.ExecContext(ctx, query, status, id)
	return err
}

// BookingsForBooker lists a user's bookings filtered by state, newest start
// first. PAST for a booker means end strictly before now.
func (db *DB) BookingsForBooker(ctx context.Context, bookerID int64, state models.BookingState, now time.Time, limit, offset int) ([]*models.Booking, error) {
	base := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.booker_id = ?`
	args := []interface{}{bookerID}

	switch state {
	case models.StateAll:
	case models.StateFuture:
		base += ` AND b.start_date >= ?`
		args = append(args, now.UTC())
	case models.StateCurrent:
		base += ` AND b.start_date <= ? AND b.end_date >= ?`
		args = append(args, now.UTC(), now.UTC())
	case models.StatePast:
		base += ` AND b.end_date < ?`
		args = append(args, now.UTC())
	case models.StateWaiting, models.StateRejected:
		base += ` AND b.status = ?`
		args = append(args, string(state))
	default:
		return nil, fmt.Errorf("unsupported booking state %q", state)
	}

	base += ` ORDER BY b.start_date DESC`
	if limit > 0 {
		base += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	return db.queryBookings(ctx, base, args...)
}

// BookingsForOwner lists bookings on all items owned by ownerID, newest start
// first. PAST for an owner means end at or before now.
func (db *DB) BookingsForOwner(ctx context.Context, ownerID int64, state models.BookingState, now time.Time, limit, offset int) ([]*models.Booking, error) {
	base := `SELECT ` + bookingColumns + ` FROM bookings b
        LEFT JOIN items i ON i.id = b.item_id WHERE i.owner_id = ?`
	args := []interface{}{ownerID}

	switch state {
	case models.StateAll:
	case models.StateFuture:
		base += ` AND b.start_date >= ?`
		args = append(args, now.UTC())
	case models.StateCurrent:
		base += ` AND b.start_date <= ? AND b.end_date >= ?`
		args = append(args, now.UTC(), now.UTC())
	case models.StatePast:
		base += ` AND b.end_date <= ?`
		args = append(args, now.UTC())
	case models.StateWaiting, models.StateRejected:
		base += ` AND b.status = ?`
		args = append(args, string(state))
	default:
		return nil, fmt.Errorf("unsupported booking state %q", state)
	}

	base += ` ORDER BY b.start_date DESC`
	if limit > 0 {
		base += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	return db.queryBookings(ctx, base, args...)
}

// BookingsForItem returns all bookings of an item ordered by start ascending.
// The item view's last/next projection is taken from the head of this order.
func (db *DB) BookingsForItem(ctx context.Context, itemID int64) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b
        WHERE b.item_id = ? ORDER BY b.start_date ASC`
	return db.queryBookings(ctx, query, itemID)
}

func (db *DB) BookingsForBookerAndItem(ctx context.Context, bookerID, itemID int64) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b
        WHERE b.booker_id = ? AND b.item_id = ? ORDER BY b.start_date ASC`
	return db.queryBookings(ctx, query, bookerID, itemID)
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*models.Booking, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		var booking models.Booking
		err := rows.Scan(&booking.ID, &booking.Start, &booking.End,
			&booking.ItemID, &booking.BookerID, &booking.Status)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, &booking)
	}

	return bookings, rows.Err()
}
