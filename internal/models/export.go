package models

import "time"

// BookingExportRow is the flattened shape used by the xlsx export.
type BookingExportRow struct {
	ID         int64
	Start      time.Time
	End        time.Time
	ItemName   string
	BookerName string
	Status     string
}
