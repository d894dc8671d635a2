package clock

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateHelpers(t *testing.T) {
	c := Fixed(time.Date(2026, 2, 27, 23, 30, 0, 0, time.UTC))

	assert.Equal(t, "2026-02-27", Today(c))
	assert.Equal(t, "2026-03-01", DateFromOffset(c, 2))
	assert.Equal(t, "2026-02-26", DateFromOffset(c, -1))
	assert.Equal(t, "2026-02-27T23:30:00.000Z", Timestamp(c))
}

func TestTimestamp_UsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	c := Fixed(time.Date(2026, 1, 1, 1, 0, 0, 0, loc))

	assert.Equal(t, "2025-12-31T22:00:00.000Z", Timestamp(c))
	assert.Equal(t, "2025-12-31", Today(c))
}

func TestUUID(t *testing.T) {
	a, b := UUID(), UUID()
	assert.NotEqual(t, a, b)

	_, err := uuid.Parse(a)
	require.NoError(t, err)
}

func TestSequence(t *testing.T) {
	next := Sequence("task")
	assert.Equal(t, "task-1", next())
	assert.Equal(t, "task-2", next())

	other := Sequence("p")
	assert.Equal(t, "p-1", other())
}
