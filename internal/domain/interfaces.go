package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// Repository is the persistence surface the services depend on. Lookup
// methods return (nil, nil) when the entity does not exist; deciding whether
// that is an error belongs to the service layer.
type Repository interface {
	// users
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, id int64) error

	// items
	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	ItemsByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*models.Item, error)
	SearchItems(ctx context.Context, text string, limit, offset int) ([]*models.Item, error)
	ItemsByRequest(ctx context.Context, requestID int64) ([]*models.Item, error)

	// bookings
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) error
	BookingsForBooker(ctx context.Context, bookerID int64, state models.BookingState, now time.Time, limit, offset int) ([]*models.Booking, error)
	BookingsForOwner(ctx context.Context, ownerID int64, state models.BookingState, now time.Time, limit, offset int) ([]*models.Booking, error)
	BookingsForItem(ctx context.Context, itemID int64) ([]*models.Booking, error)
	BookingsForBookerAndItem(ctx context.Context, bookerID, itemID int64) ([]*models.Booking, error)

	// comments
	CreateComment(ctx context.Context, comment *models.Comment) error
	CommentsByItem(ctx context.Context, itemID int64) ([]models.CommentView, error)

	// item requests
	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error)
	RequestsByRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error)
	RequestsFromOthers(ctx context.Context, requesterID int64, limit, offset int) ([]*models.ItemRequest, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// RateLimiter gates gateway requests per caller key.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
