package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/events"
	"shareit/internal/models"
	"shareit/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler http.Handler
	db      *database.DB
}

func setupTestServer(t *testing.T) *testServer {
	logger := zerolog.New(os.Stdout)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	bus := events.NewEventBus()
	users := service.NewUserService(db, &logger)
	items := service.NewItemService(db, bus, &logger)
	bookings := service.NewBookingService(db, bus, &logger)
	requests := service.NewRequestService(db, &logger)

	cfg := config.ServerConfig{Port: 0, DefaultPageSize: 10}
	server := NewServer(cfg, users, items, bookings, requests, &logger)
	return &testServer{handler: server.Handler(), db: db}
}

// do performs a request against the in-process handler. userID 0 means no
// identity header.
func (ts *testServer) do(t *testing.T, method, path string, userID int64, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set(HeaderUserID, strconv.FormatInt(userID, 10))
	}

	recorder := httptest.NewRecorder()
	ts.handler.ServeHTTP(recorder, req)
	return recorder
}

func decodeInto(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), target))
}

func (ts *testServer) createUser(t *testing.T, email, name string) models.User {
	recorder := ts.do(t, http.MethodPost, "/users", 0, map[string]string{"email": email, "name": name})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	var user models.User
	decodeInto(t, recorder, &user)
	return user
}

func (ts *testServer) createItem(t *testing.T, ownerID int64, name string, available bool) models.ItemView {
	recorder := ts.do(t, http.MethodPost, "/items", ownerID, map[string]any{
		"name":        name,
		"description": name + " description",
		"available":   available,
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	var view models.ItemView
	decodeInto(t, recorder, &view)
	return view
}

func (ts *testServer) createBooking(t *testing.T, bookerID, itemID int64, start, end time.Time) models.BookingView {
	recorder := ts.do(t, http.MethodPost, "/bookings", bookerID, map[string]any{
		"itemId": itemID,
		"start":  start,
		"end":    end,
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	var view models.BookingView
	decodeInto(t, recorder, &view)
	return view
}

func TestUserEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	created := ts.createUser(t, "alice@example.com", "Alice")
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Alice", created.Name)

	recorder := ts.do(t, http.MethodGet, fmt.Sprintf("/users/%d", created.ID), 0, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var got models.User
	decodeInto(t, recorder, &got)
	assert.Equal(t, created.ID, got.ID)

	recorder = ts.do(t, http.MethodPatch, fmt.Sprintf("/users/%d", created.ID), 0, map[string]string{"name": "Alicia"})
	require.Equal(t, http.StatusOK, recorder.Code)
	decodeInto(t, recorder, &got)
	assert.Equal(t, "Alicia", got.Name)
	assert.Equal(t, "alice@example.com", got.Email)

	recorder = ts.do(t, http.MethodGet, "/users", 0, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var users []models.User
	decodeInto(t, recorder, &users)
	assert.Len(t, users, 1)

	recorder = ts.do(t, http.MethodDelete, fmt.Sprintf("/users/%d", created.ID), 0, nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = ts.do(t, http.MethodGet, fmt.Sprintf("/users/%d", created.ID), 0, nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCreateUserDuplicateEmailConflict(t *testing.T) {
	ts := setupTestServer(t)

	ts.createUser(t, "dup@example.com", "First")

	recorder := ts.do(t, http.MethodPost, "/users", 0, map[string]string{"email": "dup@example.com", "name": "Second"})
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestMissingUserHeader(t *testing.T) {
	ts := setupTestServer(t)

	recorder := ts.do(t, http.MethodPost, "/items", 0, map[string]any{
		"name": "Drill", "description": "d", "available": true,
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = ts.do(t, http.MethodGet, "/bookings", 0, nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestItemEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	owner := ts.createUser(t, "owner@example.com", "Owner")
	item := ts.createItem(t, owner.ID, "Drill", true)

	recorder := ts.do(t, http.MethodGet, fmt.Sprintf("/items/%d", item.ID), owner.ID, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var view models.ItemView
	decodeInto(t, recorder, &view)
	assert.Equal(t, "Drill", view.Name)
	assert.NotNil(t, view.Comments)

	recorder = ts.do(t, http.MethodPatch, fmt.Sprintf("/items/%d", item.ID), owner.ID, map[string]any{"available": false})
	require.Equal(t, http.StatusOK, recorder.Code)
	decodeInto(t, recorder, &view)
	assert.False(t, view.Available)
	assert.Equal(t, "Drill", view.Name)

	recorder = ts.do(t, http.MethodGet, "/items", owner.ID, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var views []models.ItemView
	decodeInto(t, recorder, &views)
	assert.Len(t, views, 1)
}

func TestUpdateItemForeignOwner(t *testing.T) {
	ts := setupTestServer(t)

	owner := ts.createUser(t, "owner@example.com", "Owner")
	stranger := ts.createUser(t, "stranger@example.com", "Stranger")
	item := ts.createItem(t, owner.ID, "Drill", true)

	recorder := ts.do(t, http.MethodPatch, fmt.Sprintf("/items/%d", item.ID), stranger.ID, map[string]any{"name": "Mine now"})
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestSearchItemsEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	owner := ts.createUser(t, "owner@example.com", "Owner")
	ts.createItem(t, owner.ID, "Electric drill", true)
	ts.createItem(t, owner.ID, "Hammer", true)

	recorder := ts.do(t, http.MethodGet, "/items/search?text=drill", owner.ID, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var views []models.ItemView
	decodeInto(t, recorder, &views)
	require.Len(t, views, 1)
	assert.Equal(t, "Electric drill", views[0].Name)

	// Blank text yields an empty list, not everything.
	recorder = ts.do(t, http.MethodGet, "/items/search?text=", owner.ID, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	decodeInto(t, recorder, &views)
	assert.Empty(t, views)
}

func TestBookingEndpointErrors(t *testing.T) {
	ts := setupTestServer(t)

	owner := ts.createUser(t, "owner@example.com", "Owner")
	booker := ts.createUser(t, "booker@example.com", "Booker")
	item := ts.createItem(t, owner.ID, "Drill", true)

	start := time.Now().Add(time.Hour)

	// end before start
	recorder := ts.do(t, http.MethodPost, "/bookings", booker.ID, map[string]any{
		"itemId": item.ID, "start": start, "end": start.Add(-time.Minute),
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// unknown item
	recorder = ts.do(t, http.MethodPost, "/bookings", booker.ID, map[string]any{
		"itemId": 999, "start": start, "end": start.Add(time.Hour),
	})
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	// own item
	recorder = ts.do(t, http.MethodPost, "/bookings", owner.ID, map[string]any{
		"itemId": item.ID, "start": start, "end": start.Add(time.Hour),
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// unknown booker
	recorder = ts.do(t, http.MethodPost, "/bookings", 999, map[string]any{
		"itemId": item.ID, "start": start, "end": start.Add(time.Hour),
	})
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestListBookingsUnknownState(t *testing.T) {
	ts := setupTestServer(t)

	booker := ts.createUser(t, "booker@example.com", "Booker")

	recorder := ts.do(t, http.MethodGet, "/bookings?state=SOMETHING", booker.ID, nil)
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var body map[string]string
	decodeInto(t, recorder, &body)
	assert.Equal(t, "Unknown state: SOMETHING", body["error"])
}

func TestListBookingsInvalidPagination(t *testing.T) {
	ts := setupTestServer(t)

	booker := ts.createUser(t, "booker@example.com", "Booker")

	recorder := ts.do(t, http.MethodGet, "/bookings?from=-1", booker.ID, nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = ts.do(t, http.MethodGet, "/bookings?size=0", booker.ID, nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestDecideBookingInvalidApproved(t *testing.T) {
	ts := setupTestServer(t)

	owner := ts.createUser(t, "owner@example.com", "Owner")

	recorder := ts.do(t, http.MethodPatch, "/bookings/1?approved=maybe", owner.ID, nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRequestEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	requester := ts.createUser(t, "req@example.com", "Requester")
	owner := ts.createUser(t, "owner@example.com", "Owner")

	recorder := ts.do(t, http.MethodPost, "/requests", requester.ID, map[string]string{"description": "need a ladder"})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	var request models.RequestView
	decodeInto(t, recorder, &request)
	assert.NotZero(t, request.ID)
	assert.NotNil(t, request.Items)

	// Answer the request with an item.
	recorder = ts.do(t, http.MethodPost, "/items", owner.ID, map[string]any{
		"name": "Ladder", "description": "3m", "available": true, "requestId": request.ID,
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	recorder = ts.do(t, http.MethodGet, fmt.Sprintf("/requests/%d", request.ID), requester.ID, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	decodeInto(t, recorder, &request)
	require.Len(t, request.Items, 1)
	assert.Equal(t, "Ladder", request.Items[0].Name)

	recorder = ts.do(t, http.MethodGet, "/requests", requester.ID, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var own []models.RequestView
	decodeInto(t, recorder, &own)
	assert.Len(t, own, 1)

	recorder = ts.do(t, http.MethodGet, "/requests/all", owner.ID, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var all []models.RequestView
	decodeInto(t, recorder, &all)
	assert.Len(t, all, 1)

	recorder = ts.do(t, http.MethodGet, "/requests/all", requester.ID, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	decodeInto(t, recorder, &all)
	assert.Empty(t, all)
}

func TestRequestIDHeaderPropagated(t *testing.T) {
	ts := setupTestServer(t)

	recorder := ts.do(t, http.MethodGet, "/users", 0, nil)
	assert.NotEmpty(t, recorder.Header().Get("X-Request-Id"))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("X-Request-Id", "fixed-id")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-Id"))
}

func TestUnexpectedErrorMapsTo500(t *testing.T) {
	ts := setupTestServer(t)

	// A closed database makes every query fail with an unexpected error.
	require.NoError(t, ts.db.Close())

	recorder := ts.do(t, http.MethodGet, "/users", 0, nil)
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)

	var body map[string]string
	decodeInto(t, recorder, &body)
	assert.Equal(t, "unexpected error", body["error"])
}
