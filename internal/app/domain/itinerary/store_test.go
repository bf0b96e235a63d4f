package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmate/tripmate/internal/app/models"
)

func TestStoreLastWriteWins(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.Current())

	first := &models.Itinerary{Destination: "Paris", Days: []models.DayPlan{{Key: "day1"}}}
	second := &models.Itinerary{Destination: "Rome"}

	s.Set(first)
	s.Set(second)

	got := s.Current()
	require.NotNil(t, got)
	assert.Equal(t, "Rome", got.Destination)
	assert.Empty(t, got.Days)
}

func TestStoreNotifiesOnChange(t *testing.T) {
	s := NewStore()

	var seen []string
	s.OnChange(func(it *models.Itinerary) {
		seen = append(seen, it.Destination)
	})

	s.Set(&models.Itinerary{Destination: "Lima"})
	s.Set(&models.Itinerary{Destination: "Cusco"})

	assert.Equal(t, []string{"Lima", "Cusco"}, seen)
}

func TestRendererEmptyDaysKeepsHeader(t *testing.T) {
	r := NewMarkdownRenderer()

	out := r.Render(&models.Itinerary{Destination: "new york", Days: []models.DayPlan{}})
	assert.Contains(t, out, "# New York")
	assert.NotContains(t, out, "## Day")
}

func TestRendererSegments(t *testing.T) {
	r := NewMarkdownRenderer()

	out := r.Render(&models.Itinerary{
		Destination: "Paris",
		Days: []models.DayPlan{{
			Key:     "day1",
			Title:   "Arrival",
			Morning: &models.Segment{Activity: "Museum", Description: "Visit Louvre", Cost: "$20"},
		}},
	})
	assert.Contains(t, out, "## Day 1: Arrival")
	assert.Contains(t, out, "**Morning: Museum**")
	assert.Contains(t, out, "Visit Louvre")
	assert.Contains(t, out, "Cost: $20")
	assert.NotContains(t, out, "Afternoon")
}
