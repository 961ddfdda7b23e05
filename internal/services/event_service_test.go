package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventService_CreateListPurge(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	f.events.now = func() time.Time { return now.Add(-40 * 24 * time.Hour) }
	require.NoError(t, f.events.CreateEvent(ctx, "user.delete", LevelWarn, "stale", nil))
	f.events.now = func() time.Time { return now }
	uid := int64(3)
	require.NoError(t, f.events.CreateEvent(ctx, "user.login", LevelInfo, "fresh", &uid))

	events, err := f.events.GetRecentEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "fresh", events[0].Message)
	_, err = uuid.Parse(events[0].ID)
	require.NoError(t, err)

	n, err := f.events.PurgeEventsBefore(ctx, now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	events, err = f.events.GetRecentEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "fresh", events[0].Message)
}
