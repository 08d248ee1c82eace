package service

import (
	"context"
	"testing"

	"shareit/internal/database"
	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRequestUnknownUser(t *testing.T) {
	env := setupServices(t)

	_, err := env.requests.AddRequest(context.Background(), 999, "need anything")
	assert.ErrorIs(t, err, database.ErrUserNotFound)
}

func TestRequestWithAnsweringItems(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	requester := env.user(t, "req@example.com", "Requester")
	owner := env.user(t, "owner@example.com", "Owner")

	request, err := env.requests.AddRequest(ctx, requester.ID, "need a ladder")
	require.NoError(t, err)
	assert.Empty(t, request.Items)

	_, err = env.items.CreateItem(ctx, owner.ID, &models.Item{
		Name:        "Ladder",
		Description: "3 meters",
		Available:   true,
		RequestID:   &request.ID,
	})
	require.NoError(t, err)

	got, err := env.requests.GetRequestByID(ctx, requester.ID, request.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Ladder", got.Items[0].Name)
	require.NotNil(t, got.Items[0].RequestID)
	assert.Equal(t, request.ID, *got.Items[0].RequestID)
}

func TestGetOwnAndAllRequests(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	first := env.user(t, "first@example.com", "First")
	second := env.user(t, "second@example.com", "Second")

	mine, err := env.requests.AddRequest(ctx, first.ID, "mine")
	require.NoError(t, err)
	foreign, err := env.requests.AddRequest(ctx, second.ID, "foreign")
	require.NoError(t, err)

	own, err := env.requests.GetOwnRequests(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, mine.ID, own[0].ID)

	all, err := env.requests.GetAllRequests(ctx, first.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, foreign.ID, all[0].ID)
}

func TestGetRequestNotFoundAndUnknownUser(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	user := env.user(t, "user@example.com", "User")

	_, err := env.requests.GetRequestByID(ctx, user.ID, 999)
	assert.ErrorIs(t, err, database.ErrRequestNotFound)

	_, err = env.requests.GetRequestByID(ctx, 999, 1)
	assert.ErrorIs(t, err, database.ErrUserNotFound)

	_, err = env.requests.GetAllRequests(ctx, 999, 0, 10)
	assert.ErrorIs(t, err, database.ErrUserNotFound)
}
