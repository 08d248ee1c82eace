package service

import (
	"context"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// BookingService owns the booking lifecycle: WAITING on creation, decided
// exactly once by the item's owner, queried by booker- or owner-scoped state
// filters.
type BookingService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.BookingView, error) {
	if !start.Before(end) {
		return nil, database.ErrInvalidTimeRange
	}

	booker, err := s.repo.GetUserByID(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, database.ErrItemNotAvailable
	}
	if item.OwnerID == bookerID {
		return nil, database.ErrOwnBooking
	}

	booking := &models.Booking{
		ItemID:   itemID,
		BookerID: bookerID,
		Status:   models.StatusWaiting,
		Start:    start,
		End:      end,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("booking_id", booking.ID).Int64("item_id", itemID).Msg("booking created")

	s.publishEvent(events.EventBookingCreated, booking, item.Name)

	return bookingView(booking, item, booker), nil
}

func (s *BookingService) DecideBooking(ctx context.Context, ownerID, bookingID int64, approve bool) (*models.BookingView, error) {
	if _, err := s.repo.GetUserByID(ctx, ownerID); err != nil {
		return nil, err
	}

	detail, err := s.repo.DecideBooking(ctx, bookingID, ownerID, approve)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("booking_id", bookingID).Str("status", string(detail.Status)).Msg("booking considered")

	eventType := events.EventBookingRejected
	if approve {
		eventType = events.EventBookingApproved
	}
	s.publishEvent(eventType, &detail.Booking, detail.ItemName)

	return viewFromDetail(detail), nil
}

func (s *BookingService) GetBooking(ctx context.Context, callerID, bookingID int64) (*models.BookingView, error) {
	if _, err := s.repo.GetUserByID(ctx, callerID); err != nil {
		return nil, err
	}

	detail, err := s.repo.GetBookingDetail(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if detail.BookerID != callerID && detail.ItemOwnerID != callerID {
		return nil, database.ErrAccessDenied
	}
	return viewFromDetail(detail), nil
}

func (s *BookingService) ListForBooker(ctx context.Context, bookerID int64, state models.State, from, size int) ([]models.BookingView, error) {
	if err := s.checkUserExists(ctx, bookerID); err != nil {
		return nil, err
	}
	details, err := s.repo.ListBookingsForBooker(ctx, bookerID, state, time.Now(), size, pageOffset(from, size))
	if err != nil {
		return nil, err
	}
	return viewsFromDetails(details), nil
}

func (s *BookingService) ListForOwner(ctx context.Context, ownerID int64, state models.State, from, size int) ([]models.BookingView, error) {
	if err := s.checkUserExists(ctx, ownerID); err != nil {
		return nil, err
	}
	details, err := s.repo.ListBookingsForOwner(ctx, ownerID, state, time.Now(), size, pageOffset(from, size))
	if err != nil {
		return nil, err
	}
	return viewsFromDetails(details), nil
}

func (s *BookingService) checkUserExists(ctx context.Context, userID int64) error {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return database.ErrUserNotFound
	}
	return nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, itemName string) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		ItemName:  itemName,
		BookerID:  booking.BookerID,
		Status:    string(booking.Status),
		Start:     booking.Start,
		End:       booking.End,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

// pageOffset translates a from/size pair into a row offset, snapping from to
// the start of its page.
func pageOffset(from, size int) int {
	if size <= 0 {
		return 0
	}
	return (from / size) * size
}

func bookingView(booking *models.Booking, item *models.Item, booker *models.User) *models.BookingView {
	return &models.BookingView{
		ID:     booking.ID,
		Item:   models.ItemRef{ID: item.ID, Name: item.Name, Description: item.Description},
		Booker: models.UserRef{ID: booker.ID, Email: booker.Email, Name: booker.Name},
		Start:  booking.Start,
		End:    booking.End,
		Status: booking.Status,
	}
}

func viewFromDetail(d *models.BookingDetail) *models.BookingView {
	return &models.BookingView{
		ID:     d.ID,
		Item:   models.ItemRef{ID: d.ItemID, Name: d.ItemName, Description: d.ItemDescription},
		Booker: models.UserRef{ID: d.BookerID, Email: d.BookerEmail, Name: d.BookerName},
		Start:  d.Start,
		End:    d.End,
		Status: d.Status,
	}
}

func viewsFromDetails(details []models.BookingDetail) []models.BookingView {
	views := make([]models.BookingView, 0, len(details))
	for i := range details {
		views = append(views, *viewFromDetail(&details[i]))
	}
	return views
}
