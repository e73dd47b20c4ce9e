package repositories

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llm-chat-service/internal/models"
)

func TestStampBatchStrictlyIncreasingTimestamps(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	rows := stampBatch("room-1", base, []models.NewMessage{
		{Role: models.RoleUser, Content: "first"},
		{Role: models.RoleAssistant, Content: "second"},
		{Role: models.RoleUser, Content: "third"},
	})
	require.Len(t, rows, 3)

	// Listing orders by created_at; the per-row offsets keep batch order
	// stable even when the clock reads the same instant for every row.
	for i := 1; i < len(rows); i++ {
		assert.True(t, rows[i].CreatedAt.After(rows[i-1].CreatedAt),
			"row %d not after row %d", i, i-1)
	}
	assert.Equal(t, "first", rows[0].Content)
	assert.Equal(t, "second", rows[1].Content)
	assert.Equal(t, "third", rows[2].Content)
}

func TestStampBatchAssignsIdentity(t *testing.T) {
	base := time.Now().UTC()
	rows := stampBatch("room-1", base, []models.NewMessage{
		{Role: models.RoleUser, Content: "a"},
		{Role: models.RoleUser, Content: "b"},
	})
	require.Len(t, rows, 2)

	seen := map[string]bool{}
	for _, row := range rows {
		_, err := uuid.Parse(row.ID)
		require.NoError(t, err)
		assert.False(t, seen[row.ID])
		seen[row.ID] = true
		assert.Equal(t, "room-1", row.RoomID)
		assert.JSONEq(t, `[]`, string(row.Annotations))
		assert.JSONEq(t, `[]`, string(row.Attachments))
	}
}
