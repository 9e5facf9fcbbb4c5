package platforms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewSnapshot(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewSnapshot(now, []Channel{
		{ID: "b", Name: "Bravo"},
		{ID: "a", Name: "Alpha"},
		{ID: "b", Name: "Bravo again"},
	})

	assert.Equal(t, now, s.TakenAt)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"a", "b"}, s.IDs())
	_, ok := s.Get("c")
	assert.False(t, ok)

	b, ok := s.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "Bravo", b.Name)
}

func TestNewSnapshot_Empty(t *testing.T) {
	s := NewSnapshot(time.Now(), nil)

	assert.Zero(t, s.Len())
	assert.Empty(t, s.IDs())
}
