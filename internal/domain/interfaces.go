package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// Repository is the persistence surface the services depend on. Implemented
// by database.DB.
type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	GetAllUsers(ctx context.Context) ([]models.User, error)

	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, id int64, patch models.ItemPatch) (*models.Item, error)
	GetItemsByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]models.Item, error)
	SearchItems(ctx context.Context, text string, limit, offset int) ([]models.Item, error)
	GetItemsByRequestID(ctx context.Context, requestID int64) ([]models.Item, error)
	RequestExists(ctx context.Context, id int64) (bool, error)

	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBookingDetail(ctx context.Context, id int64) (*models.BookingDetail, error)
	DecideBooking(ctx context.Context, bookingID, ownerID int64, approve bool) (*models.BookingDetail, error)
	ListBookingsForBooker(ctx context.Context, bookerID int64, state models.State, now time.Time, limit, offset int) ([]models.BookingDetail, error)
	ListBookingsForOwner(ctx context.Context, ownerID int64, state models.State, now time.Time, limit, offset int) ([]models.BookingDetail, error)
	LastBookingForItem(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	NextBookingForItem(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	HasPastApprovedBooking(ctx context.Context, userID, itemID int64, now time.Time) (bool, error)

	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error)
	GetRequestsByUser(ctx context.Context, userID int64) ([]models.ItemRequest, error)
	GetRequestsExcludingUser(ctx context.Context, userID int64, limit, offset int) ([]models.ItemRequest, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItem(ctx context.Context, itemID int64) ([]models.CommentView, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// RateLimitRepository counts requests per caller within a time window.
type RateLimitRepository interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type UserService interface {
	CreateUser(ctx context.Context, email, name string) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	GetAllUsers(ctx context.Context) ([]models.User, error)
}

type ItemService interface {
	CreateItem(ctx context.Context, ownerID int64, item *models.Item) (*models.ItemView, error)
	UpdateItem(ctx context.Context, ownerID, itemID int64, patch models.ItemPatch) (*models.ItemView, error)
	GetItemByID(ctx context.Context, callerID, itemID int64) (*models.ItemView, error)
	GetItemsByOwner(ctx context.Context, ownerID int64, from, size int) ([]models.ItemView, error)
	SearchItems(ctx context.Context, text string, from, size int) ([]models.ItemView, error)
	AddComment(ctx context.Context, authorID, itemID int64, text string) (*models.CommentView, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.BookingView, error)
	DecideBooking(ctx context.Context, ownerID, bookingID int64, approve bool) (*models.BookingView, error)
	GetBooking(ctx context.Context, callerID, bookingID int64) (*models.BookingView, error)
	ListForBooker(ctx context.Context, bookerID int64, state models.State, from, size int) ([]models.BookingView, error)
	ListForOwner(ctx context.Context, ownerID int64, state models.State, from, size int) ([]models.BookingView, error)
}

type RequestService interface {
	AddRequest(ctx context.Context, userID int64, description string) (*models.RequestView, error)
	GetOwnRequests(ctx context.Context, userID int64) ([]models.RequestView, error)
	GetAllRequests(ctx context.Context, userID int64, from, size int) ([]models.RequestView, error)
	GetRequestByID(ctx context.Context, userID, requestID int64) (*models.RequestView, error)
}
