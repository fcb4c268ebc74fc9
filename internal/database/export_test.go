package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/models"
)

func TestBookingsForExport(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	later := createTestBooking(t, db, item.ID, booker.ID,
		now.Add(48*time.Hour), now.Add(72*time.Hour), models.StatusWaiting)
	earlier := createTestBooking(t, db, item.ID, booker.ID,
		now.Add(time.Hour), now.Add(2*time.Hour), models.StatusApproved)

	rows, err := db.BookingsForExport(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, earlier.ID, rows[0].ID)
	assert.Equal(t, "Drill", rows[0].ItemName)
	assert.Equal(t, "Booker", rows[0].BookerName)
	assert.Equal(t, string(models.StatusApproved), rows[0].Status)
	assert.Equal(t, later.ID, rows[1].ID)
}
