package service

import (
	"context"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type RequestService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewRequestService(repo domain.Repository, logger *zerolog.Logger) *RequestService {
	return &RequestService{repo: repo, logger: logger}
}

func (s *RequestService) AddRequest(ctx context.Context, userID int64, description string) (*models.RequestView, error) {
	if err := s.checkUserExists(ctx, userID); err != nil {
		return nil, err
	}

	request := &models.ItemRequest{UserID: userID, Description: description}
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("request_id", request.ID).Int64("user_id", userID).Msg("request created")

	return s.requestView(ctx, request)
}

// GetOwnRequests returns the caller's requests, newest first, with items
// offered in answer to each.
func (s *RequestService) GetOwnRequests(ctx context.Context, userID int64) ([]models.RequestView, error) {
	if err := s.checkUserExists(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.repo.GetRequestsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.requestViews(ctx, requests)
}

// GetAllRequests returns other users' requests, newest first, paginated.
func (s *RequestService) GetAllRequests(ctx context.Context, userID int64, from, size int) ([]models.RequestView, error) {
	if err := s.checkUserExists(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.repo.GetRequestsExcludingUser(ctx, userID, size, pageOffset(from, size))
	if err != nil {
		return nil, err
	}
	return s.requestViews(ctx, requests)
}

func (s *RequestService) GetRequestByID(ctx context.Context, userID, requestID int64) (*models.RequestView, error) {
	if err := s.checkUserExists(ctx, userID); err != nil {
		return nil, err
	}

	request, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return s.requestView(ctx, request)
}

func (s *RequestService) checkUserExists(ctx context.Context, userID int64) error {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return database.ErrUserNotFound
	}
	return nil
}

func (s *RequestService) requestView(ctx context.Context, request *models.ItemRequest) (*models.RequestView, error) {
	items, err := s.repo.GetItemsByRequestID(ctx, request.ID)
	if err != nil {
		return nil, err
	}

	itemViews := make([]models.RequestItemView, 0, len(items))
	for _, item := range items {
		itemViews = append(itemViews, models.RequestItemView{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Available:   item.Available,
			RequestID:   item.RequestID,
		})
	}

	return &models.RequestView{
		ID:          request.ID,
		UserID:      request.UserID,
		Description: request.Description,
		Created:     request.Created,
		Items:       itemViews,
	}, nil
}

func (s *RequestService) requestViews(ctx context.Context, requests []models.ItemRequest) ([]models.RequestView, error) {
	views := make([]models.RequestView, 0, len(requests))
	for i := range requests {
		view, err := s.requestView(ctx, &requests[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}
