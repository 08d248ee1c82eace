package service

import (
	"context"
	"os"
	"testing"
	"time"

	"shareit/internal/database"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceEnv struct {
	db       *database.DB
	bus      *events.EventBus
	users    *UserService
	items    *ItemService
	bookings *BookingService
	requests *RequestService
}

func setupServices(t *testing.T) *serviceEnv {
	logger := zerolog.New(os.Stdout)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	bus := events.NewEventBus()
	return &serviceEnv{
		db:       db,
		bus:      bus,
		users:    NewUserService(db, &logger),
		items:    NewItemService(db, bus, &logger),
		bookings: NewBookingService(db, bus, &logger),
		requests: NewRequestService(db, &logger),
	}
}

func (e *serviceEnv) user(t *testing.T, email, name string) *models.User {
	user, err := e.users.CreateUser(context.Background(), email, name)
	require.NoError(t, err)
	return user
}

func (e *serviceEnv) item(t *testing.T, ownerID int64, name string, available bool) *models.ItemView {
	view, err := e.items.CreateItem(context.Background(), ownerID, &models.Item{
		Name:        name,
		Description: name + " description",
		Available:   available,
	})
	require.NoError(t, err)
	return view
}

func TestCreateBookingHappyPath(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	owner := env.user(t, "owner@example.com", "Owner")
	booker := env.user(t, "booker@example.com", "Booker")
	item := env.item(t, owner.ID, "Drill", true)

	var published []string
	handler := func(event *events.Event) error {
		published = append(published, event.Type)
		return nil
	}
	env.bus.Subscribe(events.EventBookingCreated, handler)

	start := time.Now().Add(time.Hour)
	view, err := env.bookings.CreateBooking(ctx, booker.ID, item.ID, start, start.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, models.StatusWaiting, view.Status)
	assert.Equal(t, item.ID, view.Item.ID)
	assert.Equal(t, "Drill", view.Item.Name)
	assert.Equal(t, booker.ID, view.Booker.ID)
	assert.Equal(t, []string{events.EventBookingCreated}, published)
}

func TestCreateBookingInvalidTimeRange(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	owner := env.user(t, "owner@example.com", "Owner")
	booker := env.user(t, "booker@example.com", "Booker")
	item := env.item(t, owner.ID, "Drill", true)

	start := time.Now().Add(time.Hour)

	_, err := env.bookings.CreateBooking(ctx, booker.ID, item.ID, start, start)
	assert.ErrorIs(t, err, database.ErrInvalidTimeRange)

	_, err = env.bookings.CreateBooking(ctx, booker.ID, item.ID, start, start.Add(-time.Minute))
	assert.ErrorIs(t, err, database.ErrInvalidTimeRange)
}

func TestCreateBookingUnavailableItem(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	owner := env.user(t, "owner@example.com", "Owner")
	booker := env.user(t, "booker@example.com", "Booker")
	item := env.item(t, owner.ID, "Drill", false)

	start := time.Now().Add(time.Hour)
	_, err := env.bookings.CreateBooking(ctx, booker.ID, item.ID, start, start.Add(time.Hour))
	assert.ErrorIs(t, err, database.ErrItemNotAvailable)
}

func TestCreateBookingOwnItem(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	owner := env.user(t, "owner@example.com", "Owner")
	item := env.item(t, owner.ID, "Drill", true)

	start := time.Now().Add(time.Hour)
	_, err := env.bookings.CreateBooking(ctx, owner.ID, item.ID, start, start.Add(time.Hour))
	assert.ErrorIs(t, err, database.ErrOwnBooking)
}

func TestCreateBookingUnknownUserOrItem(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	owner := env.user(t, "owner@example.com", "Owner")
	booker := env.user(t, "booker@example.com", "Booker")
	item := env.item(t, owner.ID, "Drill", true)

	start := time.Now().Add(time.Hour)

	_, err := env.bookings.CreateBooking(ctx, 999, item.ID, start, start.Add(time.Hour))
	assert.ErrorIs(t, err, database.ErrUserNotFound)

	_, err = env.bookings.CreateBooking(ctx, booker.ID, 999, start, start.Add(time.Hour))
	assert.ErrorIs(t, err, database.ErrItemNotFound)
}

func TestDecideBookingLifecycle(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	owner := env.user(t, "owner@example.com", "Owner")
	booker := env.user(t, "booker@example.com", "Booker")
	item := env.item(t, owner.ID, "Drill", true)

	var published []string
	env.bus.Subscribe(events.EventBookingApproved, func(event *events.Event) error {
		published = append(published, event.Type)
		return nil
	})

	start := time.Now().Add(time.Hour)
	created, err := env.bookings.CreateBooking(ctx, booker.ID, item.ID, start, start.Add(time.Hour))
	require.NoError(t, err)

	decided, err := env.bookings.DecideBooking(ctx, owner.ID, created.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, decided.Status)
	assert.Equal(t, []string{events.EventBookingApproved}, published)

	_, err = env.bookings.DecideBooking(ctx, owner.ID, created.ID, false)
	assert.ErrorIs(t, err, database.ErrAlreadyDecided)
}

func TestDecideBookingAccessDenied(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	owner := env.user(t, "owner@example.com", "Owner")
	booker := env.user(t, "booker@example.com", "Booker")
	item := env.item(t, owner.ID, "Drill", true)

	start := time.Now().Add(time.Hour)
	created, err := env.bookings.CreateBooking(ctx, booker.ID, item.ID, start, start.Add(time.Hour))
	require.NoError(t, err)

	_, err = env.bookings.DecideBooking(ctx, booker.ID, created.ID, true)
	assert.ErrorIs(t, err, database.ErrAccessDenied)
}

func TestGetBookingVisibility(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	owner := env.user(t, "owner@example.com", "Owner")
	booker := env.user(t, "booker@example.com", "Booker")
	stranger := env.user(t, "stranger@example.com", "Stranger")
	item := env.item(t, owner.ID, "Drill", true)

	start := time.Now().Add(time.Hour)
	created, err := env.bookings.CreateBooking(ctx, booker.ID, item.ID, start, start.Add(time.Hour))
	require.NoError(t, err)

	got, err := env.bookings.GetBooking(ctx, booker.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	got, err = env.bookings.GetBooking(ctx, owner.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = env.bookings.GetBooking(ctx, stranger.ID, created.ID)
	assert.ErrorIs(t, err, database.ErrAccessDenied)
}

func TestListBookingsUnknownUser(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	_, err := env.bookings.ListForBooker(ctx, 999, models.StateAll, 0, 10)
	assert.ErrorIs(t, err, database.ErrUserNotFound)

	_, err = env.bookings.ListForOwner(ctx, 999, models.StateAll, 0, 10)
	assert.ErrorIs(t, err, database.ErrUserNotFound)
}

func TestListBookingsEmpty(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	booker := env.user(t, "booker@example.com", "Booker")

	views, err := env.bookings.ListForBooker(ctx, booker.ID, models.StateAll, 0, 10)
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestPageOffset(t *testing.T) {
	assert.Equal(t, 0, pageOffset(0, 10))
	assert.Equal(t, 0, pageOffset(5, 10))
	assert.Equal(t, 10, pageOffset(10, 10))
	assert.Equal(t, 10, pageOffset(17, 10))
	assert.Equal(t, 4, pageOffset(5, 2))
	assert.Equal(t, 0, pageOffset(3, 0))
}
