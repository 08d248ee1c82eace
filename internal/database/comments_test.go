package database

import (
	"context"
	"testing"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndListComments(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com", "Owner")
	author := createTestUser(t, db, "author@example.com", "Author")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	first := &models.Comment{ItemID: item.ID, AuthorID: author.ID, Text: "great drill"}
	require.NoError(t, db.CreateComment(ctx, first))
	require.NotZero(t, first.ID)

	second := &models.Comment{ItemID: item.ID, AuthorID: author.ID, Text: "still great"}
	require.NoError(t, db.CreateComment(ctx, second))

	comments, err := db.GetCommentsByItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "great drill", comments[0].Text)
	assert.Equal(t, "Author", comments[0].AuthorName)
	assert.Equal(t, "still great", comments[1].Text)
}

func TestGetCommentsByItemEmpty(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com", "Owner")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	comments, err := db.GetCommentsByItem(ctx, item.ID)
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}
