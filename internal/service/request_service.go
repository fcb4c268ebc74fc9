package service

import (
	"context"

	"shareit/internal/apperr"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// RequestService handles the "I'm looking for an item" catalog. It is
// independent of the booking state machine.
type RequestService struct {
	repo   domain.Repository
	users  *UserService
	logger *zerolog.Logger
}

func NewRequestService(repo domain.Repository, users *UserService, logger *zerolog.Logger) *RequestService {
	return &RequestService{repo: repo, users: users, logger: logger}
}

func (s *RequestService) Create(ctx context.Context, userID int64, description string) (*models.ItemRequestView, error) {
	requester, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	request := &models.ItemRequest{Description: description, RequesterID: requester.ID}
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("request_id", request.ID).Int64("requester_id", userID).Msg("item request created")
	return &models.ItemRequestView{ItemRequest: *request, Items: []*models.Item{}}, nil
}

// ForUser lists the caller's own requests, newest first, with the items
// offered in response.
func (s *RequestService) ForUser(ctx context.Context, userID int64) ([]*models.ItemRequestView, error) {
	requester, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	requests, err := s.repo.RequestsByRequester(ctx, requester.ID)
	if err != nil {
		return nil, err
	}

	return s.attachItems(ctx, requests)
}

// FromOthers pages through other users' requests, newest first.
func (s *RequestService) FromOthers(ctx context.Context, userID int64, page *models.Page) ([]*models.ItemRequestView, error) {
	requester, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	limit, offset, err := pageWindow(page)
	if err != nil {
		return nil, err
	}

	requests, err := s.repo.RequestsFromOthers(ctx, requester.ID, limit, offset)
	if err != nil {
		return nil, err
	}

	return s.attachItems(ctx, requests)
}

func (s *RequestService) ByID(ctx context.Context, requestID, userID int64) (*models.ItemRequestView, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	request, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperr.NotFound("item request not found")
	}

	views, err := s.attachItems(ctx, []*models.ItemRequest{request})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *RequestService) attachItems(ctx context.Context, requests []*models.ItemRequest) ([]*models.ItemRequestView, error) {
	views := make([]*models.ItemRequestView, 0, len(requests))
	for _, request := range requests {
		items, err := s.repo.ItemsByRequest(ctx, request.ID)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []*models.Item{}
		}
		views = append(views, &models.ItemRequestView{ItemRequest: *request, Items: items})
	}
	return views, nil
}
