package database

import (
	"context"
	"testing"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetItem(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com", "Owner")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	got, err := db.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drill", got.Name)
	assert.Equal(t, owner.ID, got.OwnerID)
	assert.True(t, got.Available)
	assert.Nil(t, got.RequestID)
}

func TestGetItemNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetItemByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestCreateItemWithRequestLink(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com", "Owner")
	requester := createTestUser(t, db, "req@example.com", "Requester")

	request := &models.ItemRequest{UserID: requester.ID, Description: "need a drill"}
	require.NoError(t, db.CreateRequest(ctx, request))

	item := &models.Item{
		OwnerID:     owner.ID,
		Name:        "Drill",
		Description: "answers the request",
		Available:   true,
		RequestID:   &request.ID,
	}
	require.NoError(t, db.CreateItem(ctx, item))

	got, err := db.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RequestID)
	assert.Equal(t, request.ID, *got.RequestID)

	linked, err := db.GetItemsByRequestID(ctx, request.ID)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, item.ID, linked[0].ID)
}

func TestUpdateItemPartial(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com", "Owner")
	item := createTestItem(t, db, owner.ID, "Saw", true)

	available := false
	updated, err := db.UpdateItem(ctx, item.ID, models.ItemPatch{Available: &available})
	require.NoError(t, err)
	assert.False(t, updated.Available)
	assert.Equal(t, "Saw", updated.Name, "name must stay untouched")

	name := "Circular saw"
	description := "sharp"
	updated, err = db.UpdateItem(ctx, item.ID, models.ItemPatch{Name: &name, Description: &description})
	require.NoError(t, err)
	assert.Equal(t, "Circular saw", updated.Name)
	assert.Equal(t, "sharp", updated.Description)
	assert.False(t, updated.Available)
}

func TestUpdateItemNotFound(t *testing.T) {
	db := setupTestDB(t)

	name := "ghost"
	_, err := db.UpdateItem(context.Background(), 42, models.ItemPatch{Name: &name})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestGetItemsByOwnerPagination(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com", "Owner")
	other := createTestUser(t, db, "other@example.com", "Other")

	for _, name := range []string{"one", "two", "three"} {
		createTestItem(t, db, owner.ID, name, true)
	}
	createTestItem(t, db, other.ID, "foreign", true)

	items, err := db.GetItemsByOwner(ctx, owner.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, items, 3)

	items, err = db.GetItemsByOwner(ctx, owner.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "three", items[0].Name)
}

func TestSearchItems(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com", "Owner")
	createTestItem(t, db, owner.ID, "Electric drill", true)
	createTestItem(t, db, owner.ID, "Hammer", true)

	hidden := createTestItem(t, db, owner.ID, "Broken drill", true)
	available := false
	_, err := db.UpdateItem(ctx, hidden.ID, models.ItemPatch{Available: &available})
	require.NoError(t, err)

	// Match in description too.
	screwdriver := &models.Item{
		OwnerID:     owner.ID,
		Name:        "Screwdriver",
		Description: "works as a small drill",
		Available:   true,
	}
	require.NoError(t, db.CreateItem(ctx, screwdriver))

	found, err := db.SearchItems(ctx, "drill", 10, 0)
	require.NoError(t, err)
	require.Len(t, found, 2)

	names := []string{found[0].Name, found[1].Name}
	assert.Contains(t, names, "Electric drill")
	assert.Contains(t, names, "Screwdriver")
}

func TestRequestExists(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	exists, err := db.RequestExists(ctx, 42)
	require.NoError(t, err)
	assert.False(t, exists)

	user := createTestUser(t, db, "user@example.com", "User")
	request := &models.ItemRequest{UserID: user.ID, Description: "anything"}
	require.NoError(t, db.CreateRequest(ctx, request))

	exists, err = db.RequestExists(ctx, request.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}
