package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/justyntemme/skiff/internal/app"
)

func TestDragPayloadRoundTrip(t *testing.T) {
	gen, row, ok := parseDragPayload(dragPayload(42, 7))
	assert.True(t, ok)
	assert.Equal(t, uint64(42), gen)
	assert.Equal(t, 7, row)
}

func TestParseDragPayloadRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "42", "x:1", "1:y", "/home/user/file.txt"} {
		_, _, ok := parseDragPayload(s)
		assert.False(t, ok, s)
	}
}

func TestVisibleToastsDropsExpired(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	toasts := []app.Toast{
		{ID: 1, ExpiresAt: now.Add(-time.Second)},
		{ID: 2, ExpiresAt: now.Add(time.Second)},
		{ID: 3, ExpiresAt: now},
	}
	got := visibleToasts(toasts, now)
	if assert.Len(t, got, 1) {
		assert.Equal(t, uint64(2), got[0].ID)
	}
}

func TestRendererRowPoolIsStable(t *testing.T) {
	r := NewRenderer(nil)
	first := r.row(3)
	assert.Len(t, r.rows, 4)
	assert.Same(t, first, r.row(3))
	assert.Equal(t, FileDragMIME, r.row(0).touch.mime)
}
