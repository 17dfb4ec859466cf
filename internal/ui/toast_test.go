package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToasts_Expire(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	q := NewToasts(5 * time.Second)
	q.now = func() time.Time { return now }

	q.Push("Error", "first")
	now = now.Add(3 * time.Second)
	q.Push("Error", "second")

	require.Len(t, q.Active(), 2)
	assert.Equal(t, "first", q.Active()[0].Message)

	now = now.Add(3 * time.Second)
	active := q.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "second", active[0].Message)

	now = now.Add(time.Minute)
	assert.Empty(t, q.Active())
}

func TestRenderToast(t *testing.T) {
	out := stripANSI(RenderToast(Toast{Title: "Error", Message: "Please try again."}))
	assert.Contains(t, out, "Error")
	assert.Contains(t, out, "Please try again.")
}
