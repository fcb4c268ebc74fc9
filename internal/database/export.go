package database

import (
	"context"

	"shareit/internal/models"
)

// BookingsForExport returns every booking with item and booker names already
// joined in, ordered by start time.
func (db *DB) BookingsForExport(ctx context.Context) ([]models.BookingExportRow, error) {
	query := `SELECT b.id, b.start_date, b.end_date,
            COALESCE(i.name, ''), COALESCE(u.name, ''), b.status
        FROM bookings b
        LEFT JOIN items i ON i.id = b.item_id
        LEFT JOIN users u ON u.id = b.booker_id
        ORDER BY b.start_date`

	rows, err := db.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.BookingExportRow
	for rows.Next() {
		var row models.BookingExportRow
		err := rows.Scan(&row.ID, &row.Start, &row.End, &row.ItemName, &row.BookerName, &row.Status)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	return result, rows.Err()
}
