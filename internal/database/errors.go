package database

import "errors"

// Domain errors surfaced by the storage and service layers. The HTTP boundary
// translates them to status codes; see internal/api.
var (
	ErrUserNotFound    = errors.New("such user not registered")
	ErrItemNotFound    = errors.New("such item not registered")
	ErrBookingNotFound = errors.New("such booking not registered")
	ErrRequestNotFound = errors.New("such request not registered")

	ErrDuplicateEmail = errors.New("user with such email already registered")

	ErrAccessDenied      = errors.New("access denied")
	ErrAlreadyDecided    = errors.New("booking status already changed")
	ErrItemNotAvailable  = errors.New("the item not available")
	ErrOwnBooking        = errors.New("you can't book your own item")
	ErrInvalidTimeRange  = errors.New("booking end must be after start")
	ErrCommentNotAllowed = errors.New("user have no finished booking of this item")
)
