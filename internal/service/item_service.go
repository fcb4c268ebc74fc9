package service

import (
	"context"
	"sort"
	"time"

	"shareit/internal/apperr"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// ItemService owns the item catalog and the comment eligibility rule.
type ItemService struct {
	repo   domain.Repository
	users  *UserService
	bus    domain.EventPublisher
	logger *zerolog.Logger
}

func NewItemService(repo domain.Repository, users *UserService, bus domain.EventPublisher, logger *zerolog.Logger) *ItemService {
	return &ItemService{repo: repo, users: users, bus: bus, logger: logger}
}

type ItemInput struct {
	Name        string
	Description string
	Available   bool
	RequestID   int64
}

// ItemUpdate carries a partial update; nil fields stay untouched.
type ItemUpdate struct {
	Name        *string
	Description *string
	Available   *bool
}

func (s *ItemService) Create(ctx context.Context, ownerID int64, input ItemInput) (*models.Item, error) {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	item := &models.Item{
		Name:        input.Name,
		Description: input.Description,
		Available:   input.Available,
		OwnerID:     owner.ID,
		RequestID:   input.RequestID,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	return item, nil
}

// Update applies a partial update; only the owner may touch an item. The
// ownership failure is reported as not-found.
func (s *ItemService) Update(ctx context.Context, itemID, userID int64, upd ItemUpdate) (*models.Item, error) {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("item not found")
	}
	if item.OwnerID != userID {
		return nil, apperr.NotFound("user is not the owner of the item")
	}

	if upd.Name != nil {
		item.Name = *upd.Name
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.Available != nil {
		item.Available = *upd.Available
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", itemID).Msg("item updated")
	return item, nil
}

// GetByID builds the item view for a viewer. Only the owner sees the
// last/next booking pair; everyone sees the comment thread.
func (s *ItemService) GetByID(ctx context.Context, itemID, viewerID int64) (*models.ItemView, error) {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("item not found")
	}

	view := &models.ItemView{Item: *item, Comments: []models.CommentView{}}

	comments, err := s.repo.CommentsByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if len(comments) > 0 {
		view.Comments = comments
	}

	if item.OwnerID != viewerID {
		return view, nil
	}

	bookings, err := s.repo.BookingsForItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	// The pair is taken from the head of the start-ascending order, and only
	// when the item has at least two bookings. Callers rely on exactly this.
	if len(bookings) >= 2 {
		view.LastBooking = bookings[0]
		view.NextBooking = bookings[1]
	}

	return view, nil
}

// ItemsForOwner lists an owner's items. Items holding a lastBooking come
// first, ordered by that booking's start descending; items without booking
// data follow in their original relative order.
func (s *ItemService) ItemsForOwner(ctx context.Context, ownerID int64, page *models.Page) ([]*models.ItemView, error) {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	limit, offset, err := pageWindow(page)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ItemsByOwner(ctx, owner.ID, limit, offset)
	if err != nil {
		return nil, err
	}

	views := make([]*models.ItemView, 0, len(items))
	for _, item := range items {
		view, err := s.GetByID(ctx, item.ID, ownerID)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return sortByLastBooking(views), nil
}

// Search matches available items by free text. Empty text yields an empty
// result instead of everything.
func (s *ItemService) Search(ctx context.Context, userID int64, text string, page *models.Page) ([]*models.Item, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	limit, offset, err := pageWindow(page)
	if err != nil {
		return nil, err
	}

	if text == "" {
		return []*models.Item{}, nil
	}

	return s.repo.SearchItems(ctx, text, limit, offset)
}

// SetAvailability flips the availability flag. Used by the booking reply
// side effect when lock_item_on_approval is configured.
func (s *ItemService) SetAvailability(ctx context.Context, itemID int64, available bool) error {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return apperr.NotFound("item not found")
	}

	item.Available = available
	return s.repo.UpdateItem(ctx, item)
}

// CreateComment admits a comment only from a user with a finished rental of
// the item. Every violation is a bad request, including unknown item/user.
func (s *ItemService) CreateComment(ctx context.Context, userID, itemID int64, text string) (*models.CommentView, error) {
	if text == "" {
		return nil, apperr.BadRequest("empty comment")
	}

	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.BadRequest("item not found")
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.BadRequest("user not found")
	}

	bookings, err := s.repo.BookingsForBookerAndItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, apperr.BadRequest("user has never booked this item")
	}
	if !anyFinished(bookings, time.Now()) {
		return nil, apperr.BadRequest("item is currently rented by the user")
	}

	comment := &models.Comment{Text: text, ItemID: itemID, AuthorID: userID}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.publishComment(comment)
	s.logger.Info().Int64("item_id", itemID).Int64("author_id", userID).Msg("comment created")

	return &models.CommentView{Comment: *comment, AuthorName: user.Name}, nil
}

func anyFinished(bookings []*models.Booking, now time.Time) bool {
	for _, booking := range bookings {
		if booking.End.Before(now) {
			return true
		}
	}
	return false
}

// sortByLastBooking keeps the projection's display order stable: booked
// items by lastBooking start descending, then the rest untouched. When no
// item carries booking data the input order is returned as-is.
func sortByLastBooking(views []*models.ItemView) []*models.ItemView {
	var booked, rest []*models.ItemView
	for _, view := range views {
		if view.LastBooking != nil {
			booked = append(booked, view)
		} else {
			rest = append(rest, view)
		}
	}

	if len(booked) == 0 {
		return views
	}

	sort.SliceStable(booked, func(i, j int) bool {
		return booked[i].LastBooking.Start.After(booked[j].LastBooking.Start)
	})

	return append(booked, rest...)
}

func (s *ItemService) publishComment(comment *models.Comment) {
	if s.bus == nil {
		return
	}

	payload := events.CommentEventPayload{
		CommentID: comment.ID,
		ItemID:    comment.ItemID,
		AuthorID:  comment.AuthorID,
	}
	if err := s.bus.PublishJSON(events.EventCommentAdded, payload); err != nil {
		s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("publish event error")
	}
}

func pageWindow(page *models.Page) (limit, offset int, err error) {
	if page == nil {
		return 0, 0, nil
	}
	if err := page.Validate(); err != nil {
		return 0, 0, err
	}
	limit, offset = page.Window()
	return limit, offset, nil
}
