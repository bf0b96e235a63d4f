package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePreservesSourceKeyOrder(t *testing.T) {
	raw := `{"destination":"Berlin","day3":{"title":"C"},"day1":{"title":"A"},"day2":{"title":"B"}}`

	itin, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, itin.Days, 3)
	assert.Equal(t, "day3", itin.Days[0].Key)
	assert.Equal(t, "day1", itin.Days[1].Key)
	assert.Equal(t, "day2", itin.Days[2].Key)
}

func TestWireFormatKeepsDayOrderPastNine(t *testing.T) {
	// With ten or more days a sorted re-serialization would slot
	// "day10" between "day1" and "day2".
	raw := `{"destination":"Patagonia","itinerary":{` +
		`"day1":{},"day2":{},"day3":{},"day4":{},"day5":{},` +
		`"day6":{},"day7":{},"day8":{},"day9":{},"day10":{}}}`

	itin, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, itin.Days, 10)

	wire, err := itin.WireFormat()
	require.NoError(t, err)

	again, err := Normalize(string(wire))
	require.NoError(t, err)
	require.Len(t, again.Days, 10)
	for i, day := range itin.Days {
		assert.Equal(t, day.Key, again.Days[i].Key)
	}
	assert.Equal(t, "day10", again.Days[9].Key)
}

func TestNormalizeUnwrapsNestedContainer(t *testing.T) {
	raw := `{"destination":"Madrid","itinerary":{"day1":{"title":"Prado"},"day2":{"title":"Retiro"}}}`

	itin, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, "Madrid", itin.Destination)
	require.Len(t, itin.Days, 2)
	assert.Equal(t, "Prado", itin.Days[0].Title)
	assert.Equal(t, "Retiro", itin.Days[1].Title)
}

func TestNormalizeZeroDayKeys(t *testing.T) {
	raw := `{"destination":"Vienna","notes":"shoulder season"}`

	itin, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, "Vienna", itin.Destination)
	assert.Empty(t, itin.Days)
	assert.NotNil(t, itin.Days)
}

func TestNormalizeDayKeyCaseAndSpacing(t *testing.T) {
	raw := `{"destination":"Porto","Day 1":{"title":"Ribeira"},"DAY2":{"title":"Gaia"},"weekend":{"title":"skip"}}`

	itin, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, itin.Days, 2)
	assert.Equal(t, "Day 1", itin.Days[0].Key)
	assert.Equal(t, "DAY2", itin.Days[1].Key)
}

func TestNormalizeDefaultsMissingFields(t *testing.T) {
	raw := `{"destination":"Athens","day1":{"morning":{"activity":"Acropolis"},"evening":{}}}`

	itin, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, itin.Days, 1)

	day := itin.Days[0]
	assert.Empty(t, day.Title)
	require.NotNil(t, day.Morning)
	assert.Equal(t, "Acropolis", day.Morning.Activity)
	assert.Empty(t, day.Morning.Description)
	assert.Empty(t, day.Morning.Cost)
	assert.Nil(t, day.Afternoon)
	require.NotNil(t, day.Evening)
	assert.Empty(t, day.Evening.Activity)
}

func TestNormalizeIgnoresUnknownKeysAndNonObjectDays(t *testing.T) {
	raw := `{"destination":"Oslo","currency":"NOK","day1":"rest day","day2":{"title":"Fjord","pace":"slow"}}`

	itin, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, itin.Days, 2)
	assert.Equal(t, "day1", itin.Days[0].Key)
	assert.Empty(t, itin.Days[0].Title)
	assert.Nil(t, itin.Days[0].Morning)
	assert.Equal(t, "Fjord", itin.Days[1].Title)
}

func TestNormalizeRejectsNonObjectPayloads(t *testing.T) {
	_, err := Normalize(`["day1","day2"]`)
	assert.Error(t, err)

	_, err = Normalize(`{"destination":`)
	assert.Error(t, err)
}
