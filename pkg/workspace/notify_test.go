package workspace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierAutoDismiss(t *testing.T) {
	current := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	notifier := NewNotifier(5 * time.Second)
	notifier.now = func() time.Time { return current }

	notifier.Push(LevelSuccess, "document uploaded")
	require.Len(t, notifier.Active(), 1)

	// Just inside the TTL the notification is still visible.
	current = current.Add(4 * time.Second)
	require.Len(t, notifier.Active(), 1)

	// Once the deadline passes it dismisses itself.
	current = current.Add(2 * time.Second)
	assert.Empty(t, notifier.Active())
}

func TestNotifierPrunesOnlyExpired(t *testing.T) {
	current := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	notifier := NewNotifier(5 * time.Second)
	notifier.now = func() time.Time { return current }

	notifier.Push(LevelError, "save failed")
	current = current.Add(3 * time.Second)
	notifier.Push(LevelInfo, "reprocessing started")

	current = current.Add(3 * time.Second)
	active := notifier.Active()
	require.Len(t, active, 1)
	assert.Equal(t, LevelInfo, active[0].Level)
	assert.Equal(t, "reprocessing started", active[0].Message)
}

func TestNotifierZeroTTLFallsBackToDefault(t *testing.T) {
	notifier := NewNotifier(0)
	assert.Equal(t, DefaultTTL, notifier.ttl)
}

func TestNotificationsHaveDistinctIDs(t *testing.T) {
	notifier := NewNotifier(time.Minute)
	a := notifier.Push(LevelInfo, "one")
	b := notifier.Push(LevelInfo, "two")
	assert.NotEqual(t, a.ID, b.ID)
}
