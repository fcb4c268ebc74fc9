package service

import (
	"context"
	"time"

	"shareit/internal/apperr"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// BookingService implements the booking state machine: WAITING on creation,
// a single owner-only transition to APPROVED or REJECTED, and the
// state-filtered listings.
type BookingService struct {
	repo               domain.Repository
	users              *UserService
	items              *ItemService
	bus                domain.EventPublisher
	lockItemOnApproval bool
	logger             *zerolog.Logger
}

func NewBookingService(repo domain.Repository, users *UserService, items *ItemService,
	bus domain.EventPublisher, lockItemOnApproval bool, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:               repo,
		users:              users,
		items:              items,
		bus:                bus,
		lockItemOnApproval: lockItemOnApproval,
		logger:             logger,
	}
}

// Create validates and persists a new WAITING booking. The temporal check
// runs before the item is resolved; callers observe that ordering through
// the returned error.
func (s *BookingService) Create(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.BookingView, error) {
	booker, err := s.users.GetByID(ctx, bookerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if !start.Before(end) || start.Before(now) {
		s.logger.Warn().Int64("booker_id", bookerID).Int64("item_id", itemID).
			Time("start", start).Time("end", end).Msg("incorrect rental time")
		return nil, apperr.BadRequest("incorrect rental time")
	}

	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("item not found")
	}
	if !item.Available {
		return nil, apperr.BadRequest("item is not available for rental")
	}
	if item.OwnerID == booker.ID {
		// Reported as not-found on purpose: the owner learns nothing new.
		return nil, apperr.NotFound("cannot book own item")
	}

	booking := &models.Booking{
		Start:    start,
		End:      end,
		ItemID:   item.ID,
		BookerID: booker.ID,
		Status:   models.StatusWaiting,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.publishBooking(events.EventBookingCreated, booking)
	s.logger.Info().Int64("booking_id", booking.ID).Int64("booker_id", bookerID).
		Int64("item_id", itemID).Msg("booking created")

	return s.GetByID(ctx, booking.ID)
}

// Reply records the owner's decision. A booking is decided exactly once;
// any repeat attempt fails with a bad request.
func (s *BookingService) Reply(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.BookingView, error) {
	view, err := s.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if view.Item.OwnerID != ownerID {
		return nil, apperr.NotFound("user is not the owner of the item")
	}
	if view.Status != models.StatusWaiting {
		return nil, apperr.BadRequest("booking already decided")
	}

	status := models.StatusRejected
	eventType := events.EventBookingRejected
	if approved {
		status = models.StatusApproved
		eventType = events.EventBookingApproved
	}

	if err := s.repo.UpdateBookingStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}

	if approved && s.lockItemOnApproval {
		if err := s.items.SetAvailability(ctx, view.ItemID, false); err != nil {
			return nil, err
		}
	}

	view.Status = status
	s.publishBooking(eventType, &view.Booking)
	s.logger.Info().Int64("booking_id", bookingID).Str("status", string(status)).Msg("booking decided")

	return s.GetByID(ctx, bookingID)
}

// GetByID returns the booking with booker and item resolved.
func (s *BookingService) GetByID(ctx context.Context, bookingID int64) (*models.BookingView, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperr.NotFound("booking not found")
	}

	return s.hydrate(ctx, booking)
}

// GetForOwnerOrBooker returns the booking only to its booker or the item's
// owner; any other caller gets the same not-found as for a missing booking.
func (s *BookingService) GetForOwnerOrBooker(ctx context.Context, bookingID, userID int64) (*models.BookingView, error) {
	view, err := s.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if view.Item.OwnerID != userID && view.BookerID != userID {
		return nil, apperr.NotFound("booking not found")
	}
	return view, nil
}

// ListForBooker returns the caller's bookings filtered by state, start
// descending. A nil page disables pagination.
func (s *BookingService) ListForBooker(ctx context.Context, state models.BookingState, userID int64, page *models.Page) ([]*models.BookingView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	limit, offset, err := pageWindow(page)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.BookingsForBooker(ctx, user.ID, state, time.Now(), limit, offset)
	if err != nil {
		return nil, err
	}

	return s.hydrateAll(ctx, bookings)
}

// ListForOwner returns bookings on the caller's items filtered by state,
// start descending.
func (s *BookingService) ListForOwner(ctx context.Context, state models.BookingState, ownerID int64, page *models.Page) ([]*models.BookingView, error) {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	limit, offset, err := pageWindow(page)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.BookingsForOwner(ctx, owner.ID, state, time.Now(), limit, offset)
	if err != nil {
		return nil, err
	}

	return s.hydrateAll(ctx, bookings)
}

func (s *BookingService) hydrate(ctx context.Context, booking *models.Booking) (*models.BookingView, error) {
	booker, err := s.users.GetByID(ctx, booking.BookerID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetItemByID(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("item not found")
	}

	return &models.BookingView{Booking: *booking, Item: item, Booker: booker}, nil
}

func (s *BookingService) hydrateAll(ctx context.Context, bookings []*models.Booking) ([]*models.BookingView, error) {
	views := make([]*models.BookingView, 0, len(bookings))
	for _, booking := range bookings {
		view, err := s.hydrate(ctx, booking)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *BookingService) publishBooking(eventType string, booking *models.Booking) {
	if s.bus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		BookerID:  booking.BookerID,
		Status:    booking.Status,
		Start:     booking.Start,
		End:       booking.End,
	}
	if err := s.bus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).
			Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
