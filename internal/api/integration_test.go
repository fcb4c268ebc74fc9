package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/events"
	"shareit/internal/models"
	"shareit/internal/service"
)

type testEnv struct {
	server *httptest.Server
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	logger := zerolog.New(os.Stdout).Level(zerolog.Disabled)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	bus := events.NewEventBus()
	users := service.NewUserService(db, &logger)
	items := service.NewItemService(db, users, bus, &logger)
	bookings := service.NewBookingService(db, users, items, bus, false, &logger)
	requests := service.NewRequestService(db, users, &logger)

	srv := NewServer(config.ServerConfig{Port: 0}, users, items, bookings, requests, db, &logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &testEnv{server: ts}
}

// do issues a request with the sharer header and decodes the JSON response
// into out when it is non-nil.
func (e *testEnv) do(t *testing.T, method, path string, userID int64, body, out any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		req.Header.Set("X-Sharer-User-Id", fmt.Sprintf("%d", userID))
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func (e *testEnv) createUser(t *testing.T, name, email string) models.User {
	t.Helper()
	var user models.User
	resp := e.do(t, http.MethodPost, "/users", 0,
		map[string]string{"name": name, "email": email}, &user)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return user
}

func (e *testEnv) createItem(t *testing.T, ownerID int64, name string, available bool) models.Item {
	t.Helper()
	var item models.Item
	resp := e.do(t, http.MethodPost, "/items", ownerID, map[string]any{
		"name":        name,
		"description": name + " description",
		"available":   available,
	}, &item)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return item
}

func TestUserLifecycle(t *testing.T) {
	env := setupTestServer(t)

	user := env.createUser(t, "Alice", "alice@example.com")
	assert.NotZero(t, user.ID)

	// Duplicate email conflicts.
	resp := env.do(t, http.MethodPost, "/users", 0,
		map[string]string{"name": "Clone", "email": "alice@example.com"}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Partial update keeps the untouched field.
	var updated models.User
	resp = env.do(t, http.MethodPatch, fmt.Sprintf("/users/%d", user.ID), 0,
		map[string]string{"email": "new@example.com"}, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Alice", updated.Name)
	assert.Equal(t, "new@example.com", updated.Email)

	// Patch on an unknown id is a bad request.
	resp = env.do(t, http.MethodPatch, "/users/999", 0,
		map[string]string{"name": "Ghost"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Get on an unknown id is not found.
	resp = env.do(t, http.MethodGet, "/users/999", 0, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var all []models.User
	resp = env.do(t, http.MethodGet, "/users", 0, nil, &all)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, all, 1)

	resp = env.do(t, http.MethodDelete, fmt.Sprintf("/users/%d", user.ID), 0, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestItemEndpoints(t *testing.T) {
	env := setupTestServer(t)

	owner := env.createUser(t, "Owner", "owner@example.com")
	viewer := env.createUser(t, "Viewer", "viewer@example.com")
	item := env.createItem(t, owner.ID, "Drill", true)

	// Missing sharer header.
	resp := env.do(t, http.MethodPost, "/items", 0,
		map[string]any{"name": "X", "description": "Y", "available": true}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown owner.
	resp = env.do(t, http.MethodPost, "/items", 999,
		map[string]any{"name": "X", "description": "Y", "available": true}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Only the owner can patch.
	resp = env.do(t, http.MethodPatch, fmt.Sprintf("/items/%d", item.ID), viewer.ID,
		map[string]any{"name": "Stolen"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var patched models.Item
	resp = env.do(t, http.MethodPatch, fmt.Sprintf("/items/%d", item.ID), owner.ID,
		map[string]any{"description": "improved"}, &patched)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "improved", patched.Description)
	assert.Equal(t, "Drill", patched.Name)

	// Anyone may view; comments are always present in the view.
	var view models.ItemView
	resp = env.do(t, http.MethodGet, fmt.Sprintf("/items/%d", item.ID), viewer.ID, nil, &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, item.ID, view.ID)
	assert.NotNil(t, view.Comments)

	// Owner listing.
	var mine []models.ItemView
	resp = env.do(t, http.MethodGet, "/items", owner.ID, nil, &mine)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, mine, 1)

	// Search is case-insensitive and checks the caller exists.
	var found []models.Item
	resp = env.do(t, http.MethodGet, "/items/search?text=dRiLl", viewer.ID, nil, &found)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, found, 1)

	resp = env.do(t, http.MethodGet, "/items/search?text=drill", 999, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Empty text yields an empty list, not everything.
	var empty []models.Item
	resp = env.do(t, http.MethodGet, "/items/search?text=", viewer.ID, nil, &empty)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, empty)
}

func TestBookingWorkflow(t *testing.T) {
	env := setupTestServer(t)

	owner := env.createUser(t, "Owner", "owner@example.com")
	booker := env.createUser(t, "Booker", "booker@example.com")
	item := env.createItem(t, owner.ID, "Drill", true)

	start := time.Now().Add(time.Hour).UTC()
	end := start.Add(24 * time.Hour)

	// Owner cannot book their own item.
	resp := env.do(t, http.MethodPost, "/bookings", owner.ID,
		map[string]any{"item_id": item.ID, "start": start, "end": end}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Rental time must be a valid future window.
	resp = env.do(t, http.MethodPost, "/bookings", booker.ID,
		map[string]any{"item_id": item.ID, "start": end, "end": start}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var booking models.BookingView
	resp = env.do(t, http.MethodPost, "/bookings", booker.ID,
		map[string]any{"item_id": item.ID, "start": start, "end": end}, &booking)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.StatusWaiting, booking.Status)
	require.NotNil(t, booking.Item)
	assert.Equal(t, item.ID, booking.Item.ID)
	require.NotNil(t, booking.Booker)
	assert.Equal(t, booker.ID, booking.Booker.ID)

	// Only the owner decides; the booker's attempt reads as not-found.
	resp = env.do(t, http.MethodPatch,
		fmt.Sprintf("/bookings/%d?approved=true", booking.ID), booker.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var approved models.BookingView
	resp = env.do(t, http.MethodPatch,
		fmt.Sprintf("/bookings/%d?approved=true", booking.ID), owner.ID, nil, &approved)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.StatusApproved, approved.Status)

	// The decision is one-shot.
	resp = env.do(t, http.MethodPatch,
		fmt.Sprintf("/bookings/%d?approved=true", booking.ID), owner.ID, nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Missing approved parameter.
	resp = env.do(t, http.MethodPatch,
		fmt.Sprintf("/bookings/%d", booking.ID), owner.ID, nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Visibility: booker and owner see it, a third party does not.
	resp = env.do(t, http.MethodGet, fmt.Sprintf("/bookings/%d", booking.ID), booker.ID, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = env.do(t, http.MethodGet, fmt.Sprintf("/bookings/%d", booking.ID), owner.ID, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	stranger := env.createUser(t, "Stranger", "stranger@example.com")
	resp = env.do(t, http.MethodGet, fmt.Sprintf("/bookings/%d", booking.ID), stranger.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBookingListings(t *testing.T) {
	env := setupTestServer(t)

	owner := env.createUser(t, "Owner", "owner@example.com")
	booker := env.createUser(t, "Booker", "booker@example.com")
	item := env.createItem(t, owner.ID, "Drill", true)

	start := time.Now().Add(time.Hour).UTC()
	var booking models.BookingView
	resp := env.do(t, http.MethodPost, "/bookings", booker.ID,
		map[string]any{"item_id": item.ID, "start": start, "end": start.Add(time.Hour)}, &booking)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var forBooker []models.BookingView
	resp = env.do(t, http.MethodGet, "/bookings?state=WAITING", booker.ID, nil, &forBooker)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, forBooker, 1)

	var forOwner []models.BookingView
	resp = env.do(t, http.MethodGet, "/bookings/owner?state=ALL", owner.ID, nil, &forOwner)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, forOwner, 1)

	// The owner has no bookings of their own.
	var ownBookings []models.BookingView
	resp = env.do(t, http.MethodGet, "/bookings", owner.ID, nil, &ownBookings)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, ownBookings)

	// Unknown state token, verbatim error body.
	var errBody map[string]string
	resp = env.do(t, http.MethodGet, "/bookings?state=SOMETHING", booker.ID, nil, &errBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Unknown state: UNSUPPORTED_STATUS", errBody["error"])

	// Pagination bounds are enforced.
	resp = env.do(t, http.MethodGet, "/bookings?state=ALL&from=-1&size=5", booker.ID, nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown caller.
	resp = env.do(t, http.MethodGet, "/bookings?state=ALL", 999, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCommentEligibilityOverHTTP(t *testing.T) {
	env := setupTestServer(t)

	owner := env.createUser(t, "Owner", "owner@example.com")
	booker := env.createUser(t, "Booker", "booker@example.com")
	item := env.createItem(t, owner.ID, "Drill", true)

	// Never booked: rejected.
	resp := env.do(t, http.MethodPost, fmt.Sprintf("/items/%d/comment", item.ID), booker.ID,
		map[string]string{"text": "never used it"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// A finished rental unlocks commenting. The window has to be in the
	// future at creation time, so book a short one and wait it out.
	start := time.Now().Add(time.Second).UTC()
	end := start.Add(500 * time.Millisecond)
	var booking models.BookingView
	resp = env.do(t, http.MethodPost, "/bookings", booker.ID,
		map[string]any{"item_id": item.ID, "start": start, "end": end}, &booking)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPatch,
		fmt.Sprintf("/bookings/%d?approved=true", booking.ID), owner.ID, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Before the rental ends the comment is still rejected.
	resp = env.do(t, http.MethodPost, fmt.Sprintf("/items/%d/comment", item.ID), booker.ID,
		map[string]string{"text": "too early"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	time.Sleep(2 * time.Second)

	var comment models.CommentView
	resp = env.do(t, http.MethodPost, fmt.Sprintf("/items/%d/comment", item.ID), booker.ID,
		map[string]string{"text": "great drill"}, &comment)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "great drill", comment.Text)
	assert.Equal(t, "Booker", comment.AuthorName)
	assert.False(t, comment.Created.IsZero())

	// Empty text is rejected even for an eligible user.
	resp = env.do(t, http.MethodPost, fmt.Sprintf("/items/%d/comment", item.ID), booker.ID,
		map[string]string{"text": ""}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// The comment shows up in the item view for any viewer.
	var view models.ItemView
	resp = env.do(t, http.MethodGet, fmt.Sprintf("/items/%d", item.ID), booker.ID, nil, &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, "great drill", view.Comments[0].Text)
}

func TestItemRequestEndpoints(t *testing.T) {
	env := setupTestServer(t)

	requester := env.createUser(t, "Requester", "req@example.com")
	owner := env.createUser(t, "Owner", "owner@example.com")

	var created models.ItemRequestView
	resp := env.do(t, http.MethodPost, "/requests", requester.ID,
		map[string]string{"description": "need a drill"}, &created)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotZero(t, created.ID)
	assert.NotNil(t, created.Items)

	// Offer an item in response.
	var offered models.Item
	resp = env.do(t, http.MethodPost, "/items", owner.ID, map[string]any{
		"name":        "Drill",
		"description": "18V drill",
		"available":   true,
		"request_id":  created.ID,
	}, &offered)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var mine []models.ItemRequestView
	resp = env.do(t, http.MethodGet, "/requests", requester.ID, nil, &mine)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, mine, 1)
	require.Len(t, mine[0].Items, 1)
	assert.Equal(t, offered.ID, mine[0].Items[0].ID)

	// The requester's own requests are excluded from /requests/all.
	var others []models.ItemRequestView
	resp = env.do(t, http.MethodGet, "/requests/all?from=0&size=10", requester.ID, nil, &others)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, others)

	resp = env.do(t, http.MethodGet, "/requests/all?from=0&size=10", owner.ID, nil, &others)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, others, 1)

	var byID models.ItemRequestView
	resp = env.do(t, http.MethodGet, fmt.Sprintf("/requests/%d", created.ID), owner.ID, nil, &byID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created.ID, byID.ID)

	resp = env.do(t, http.MethodGet, "/requests/999", owner.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	env := setupTestServer(t)

	var body map[string]string
	resp := env.do(t, http.MethodGet, "/health", 0, nil, &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}
