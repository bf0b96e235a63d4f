package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmate/tripmate/internal/app/models"
)

const parisResponse = "Here you go:\n```json\n{\"destination\":\"Paris\",\"day1\":{\"title\":\"Arrival\",\"morning\":{\"activity\":\"Museum\",\"description\":\"Visit Louvre\",\"cost\":\"$20\"}}}\n```\nEnjoy!"

func TestExtractFencedBlock(t *testing.T) {
	e := NewExtractor(nil)

	got := e.Extract(parisResponse)
	require.True(t, got.Found())
	assert.Equal(t, "Here you go:\nEnjoy!", got.DisplayText)
	assert.Equal(t, "Paris", got.Itinerary.Destination)
	require.Len(t, got.Itinerary.Days, 1)

	day := got.Itinerary.Days[0]
	assert.Equal(t, "Arrival", day.Title)
	require.NotNil(t, day.Morning)
	assert.Equal(t, "Museum", day.Morning.Activity)
	assert.Equal(t, "Visit Louvre", day.Morning.Description)
	assert.Equal(t, "$20", day.Morning.Cost)
	assert.Nil(t, day.Afternoon)
	assert.Nil(t, day.Evening)
}

func TestExtractBareObjectFallback(t *testing.T) {
	e := NewExtractor(nil)

	text := `Sure! {"destination":"Lisbon","day1":{"title":"Alfama"}} Anything else?`
	got := e.Extract(text)
	require.True(t, got.Found())
	assert.Equal(t, "Lisbon", got.Itinerary.Destination)
	assert.Equal(t, "Sure!  Anything else?", got.DisplayText)
}

func TestExtractPlainTextIsIdempotent(t *testing.T) {
	e := NewExtractor(nil)

	text := "  Rome is lovely in spring. Pack light layers.  "
	got := e.Extract(text)
	assert.False(t, got.Found())
	assert.Nil(t, got.Itinerary)
	assert.Equal(t, "Rome is lovely in spring. Pack light layers.", got.DisplayText)
}

func TestExtractBraceObjectWithoutMarkersIgnored(t *testing.T) {
	e := NewExtractor(nil)

	text := `Config looks like {"retries": 3, "verbose": true} in Go too.`
	got := e.Extract(text)
	assert.False(t, got.Found())
	assert.Equal(t, text, got.DisplayText)
}

func TestExtractMalformedPayloadFailsSoft(t *testing.T) {
	e := NewExtractor(nil)

	text := "```json\n{\"destination\":\"Paris\",\"day1\":{\n```\ntrailing prose"
	got := e.Extract(text)
	assert.False(t, got.Found())
	assert.Equal(t, "trailing prose", got.DisplayText)
}

func TestExtractPayloadOnlyTurnLeavesEmptyBubble(t *testing.T) {
	e := NewExtractor(nil)

	text := "```json\n{\"destination\":\"Kyoto\"}\n```"
	got := e.Extract(text)
	require.True(t, got.Found())
	assert.Empty(t, got.DisplayText)
	assert.Equal(t, "Kyoto", got.Itinerary.Destination)
}

func TestFencedBlockWinsOverBareObject(t *testing.T) {
	e := NewExtractor(nil)

	text := "```json\n{\"destination\":\"Oslo\"}\n```\nalso {\"destination\":\"Bergen\"}"
	got := e.Extract(text)
	require.True(t, got.Found())
	assert.Equal(t, "Oslo", got.Itinerary.Destination)
}

func TestStreamViewHoldsBackOpenFence(t *testing.T) {
	e := NewExtractor(nil)

	assert.Equal(t, "Here you go:", e.StreamView("Here you go:\n```json\n{\"dest"))
	// Once the fence closes, the stripped view extends what was shown.
	assert.Equal(t, "Here you go:\nEnjoy!", e.StreamView(parisResponse))
}

func TestStreamViewHoldsBackOpenBareObject(t *testing.T) {
	e := NewExtractor(nil)

	partial := `Sure! {"destination":"Lisbon","day1":{"ti`
	assert.Equal(t, "Sure!", e.StreamView(partial))

	closed := `Sure! {"destination":"Lisbon","day1":{"title":"Alfama"}} Anything else?`
	assert.Equal(t, "Sure!  Anything else?", e.StreamView(closed))
}

func TestStreamViewPassesPlainTextThrough(t *testing.T) {
	e := NewExtractor(nil)

	assert.Equal(t, "Rome is lovely", e.StreamView("Rome is lovely"))
	// Balanced brace text without payload markers is shown as-is.
	text := `Config looks like {"retries": 3} in Go too.`
	assert.Equal(t, text, e.StreamView(text))
}

func TestRoundTripFullyPopulatedDay(t *testing.T) {
	e := NewExtractor(nil)

	original := &models.Itinerary{
		Destination: "Tokyo",
		Days: []models.DayPlan{{
			Key:       "day1",
			Title:     "Shibuya",
			Morning:   &models.Segment{Activity: "Walk", Description: "Crossing", Cost: "$0"},
			Afternoon: &models.Segment{Activity: "Ramen", Description: "Ichiran", Cost: "$12"},
			Evening:   &models.Segment{Activity: "Bar", Description: "Golden Gai", Cost: "$30"},
		}},
	}

	wire, err := original.WireFormat()
	require.NoError(t, err)

	got := e.Extract("```json\n" + string(wire) + "\n```")
	require.True(t, got.Found())
	assert.Equal(t, original.Destination, got.Itinerary.Destination)
	require.Len(t, got.Itinerary.Days, 1)
	assert.Equal(t, original.Days[0], got.Itinerary.Days[0])
}
