package service

import (
	"context"
	"strings"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewItemService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *ItemService {
	return &ItemService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *ItemService) CreateItem(ctx context.Context, ownerID int64, item *models.Item) (*models.ItemView, error) {
	if _, err := s.repo.GetUserByID(ctx, ownerID); err != nil {
		return nil, err
	}
	if item.RequestID != nil {
		exists, err := s.repo.RequestExists(ctx, *item.RequestID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, database.ErrRequestNotFound
		}
	}

	item.OwnerID = ownerID
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")

	return s.itemView(ctx, item, false)
}

func (s *ItemService) UpdateItem(ctx context.Context, ownerID, itemID int64, patch models.ItemPatch) (*models.ItemView, error) {
	if err := s.checkCorrectOwner(ctx, itemID, ownerID); err != nil {
		return nil, err
	}

	item, err := s.repo.UpdateItem(ctx, itemID, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("item_id", itemID).Msg("item updated")

	return s.itemView(ctx, item, false)
}

// GetItemByID returns the item view. The owner additionally sees the last
// and next booking summaries.
func (s *ItemService) GetItemByID(ctx context.Context, callerID, itemID int64) (*models.ItemView, error) {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.itemView(ctx, item, item.OwnerID == callerID)
}

func (s *ItemService) GetItemsByOwner(ctx context.Context, ownerID int64, from, size int) ([]models.ItemView, error) {
	if _, err := s.repo.GetUserByID(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.GetItemsByOwner(ctx, ownerID, size, pageOffset(from, size))
	if err != nil {
		return nil, err
	}
	return s.itemViews(ctx, items, true)
}

// SearchItems looks up available items by a text fragment. A blank query
// yields an empty result instead of matching everything.
func (s *ItemService) SearchItems(ctx context.Context, text string, from, size int) ([]models.ItemView, error) {
	if strings.TrimSpace(text) == "" {
		return []models.ItemView{}, nil
	}

	items, err := s.repo.SearchItems(ctx, text, size, pageOffset(from, size))
	if err != nil {
		return nil, err
	}
	return s.itemViews(ctx, items, false)
}

// AddComment stores feedback on an item. Only a user with a finished
// APPROVED booking of that item may comment.
func (s *ItemService) AddComment(ctx context.Context, authorID, itemID int64, text string) (*models.CommentView, error) {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	author, err := s.repo.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.repo.HasPastApprovedBooking(ctx, authorID, item.ID, time.Now())
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, database.ErrCommentNotAllowed
	}

	comment := &models.Comment{
		ItemID:   item.ID,
		AuthorID: authorID,
		Text:     text,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("comment_id", comment.ID).Int64("item_id", itemID).Msg("comment created")

	if s.eventBus != nil {
		payload := events.CommentEventPayload{CommentID: comment.ID, ItemID: itemID, AuthorID: authorID}
		if err := s.eventBus.PublishJSON(events.EventCommentAdded, payload); err != nil {
			s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("publish event error")
		}
	}

	return &models.CommentView{
		ID:         comment.ID,
		Text:       comment.Text,
		AuthorName: author.Name,
		Created:    comment.Created,
	}, nil
}

func (s *ItemService) checkCorrectOwner(ctx context.Context, itemID, userID int64) error {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return err
	}
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return err
	}
	if item.OwnerID != userID {
		return database.ErrAccessDenied
	}
	return nil
}

func (s *ItemService) itemView(ctx context.Context, item *models.Item, withBookingInfo bool) (*models.ItemView, error) {
	comments, err := s.repo.GetCommentsByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	view := &models.ItemView{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Available:   item.Available,
		RequestID:   item.RequestID,
		Comments:    comments,
	}
	if !withBookingInfo {
		return view, nil
	}

	now := time.Now()
	last, err := s.repo.LastBookingForItem(ctx, item.ID, now)
	if err != nil {
		return nil, err
	}
	next, err := s.repo.NextBookingForItem(ctx, item.ID, now)
	if err != nil {
		return nil, err
	}
	if last != nil {
		view.LastBooking = &models.BookingRef{ID: last.ID, BookerID: last.BookerID}
	}
	if next != nil {
		view.NextBooking = &models.BookingRef{ID: next.ID, BookerID: next.BookerID}
	}
	return view, nil
}

func (s *ItemService) itemViews(ctx context.Context, items []models.Item, withBookingInfo bool) ([]models.ItemView, error) {
	views := make([]models.ItemView, 0, len(items))
	for i := range items {
		view, err := s.itemView(ctx, &items[i], withBookingInfo)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}
