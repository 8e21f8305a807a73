package agenda

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2024, 6, 10, hour, minute, 0, 0, time.UTC)
}

func TestParseTimeRangeSingleTime(t *testing.T) {
	tr := ParseTimeRange("9am Staff Meeting", base)

	require.NotNil(t, tr.Start)
	assert.Equal(t, at(9, 0), *tr.Start)
	assert.Nil(t, tr.End)
	assert.Equal(t, "Staff Meeting", tr.Description)
}

func TestParseTimeRangeWithRange(t *testing.T) {
	tr := ParseTimeRange("2-3pm Dentist", base)

	require.NotNil(t, tr.Start)
	require.NotNil(t, tr.End)
	assert.Equal(t, at(14, 0), *tr.Start)
	assert.Equal(t, at(15, 0), *tr.End)
	assert.Equal(t, "Dentist", tr.Description)
}

func TestParseTimeRangeWordSeparator(t *testing.T) {
	tr := ParseTimeRange("9 to 10am Gym", base)

	require.NotNil(t, tr.Start)
	require.NotNil(t, tr.End)
	assert.Equal(t, at(9, 0), *tr.Start)
	assert.Equal(t, at(10, 0), *tr.End)
	assert.Equal(t, "Gym", tr.Description)
}

func TestParseTimeRangeMinutes(t *testing.T) {
	tr := ParseTimeRange("14:30 Standup", base)

	require.NotNil(t, tr.Start)
	assert.Equal(t, at(14, 30), *tr.Start)
	assert.Equal(t, "Standup", tr.Description)
}

func TestParseTimeRangeNoTime(t *testing.T) {
	tr := ParseTimeRange("Pack for the trip", base)

	assert.Nil(t, tr.Start)
	assert.Nil(t, tr.End)
	assert.Equal(t, "Pack for the trip", tr.Description)
}

func TestParseTimeRangeEmpty(t *testing.T) {
	tr := ParseTimeRange("", base)

	assert.Nil(t, tr.Start)
	assert.Nil(t, tr.End)
	assert.Equal(t, "", tr.Description)
}

func TestParseTimeRangeBareHourIsLiteral(t *testing.T) {
	// A bare number with no marker reads as a 24-hour value.
	tr := ParseTimeRange("5 Dinner", base)

	require.NotNil(t, tr.Start)
	assert.Equal(t, at(5, 0), *tr.Start)
	assert.Equal(t, "Dinner", tr.Description)
}

func TestParseTimeRangeMeridiemNormalization(t *testing.T) {
	tr := ParseTimeRange("12am Midnight run", base)
	require.NotNil(t, tr.Start)
	assert.Equal(t, at(0, 0), *tr.Start)

	tr = ParseTimeRange("12pm Lunch", base)
	require.NotNil(t, tr.Start)
	assert.Equal(t, at(12, 0), *tr.Start)
}

func TestParseTimeRangeOnlyTimeFallsBackToOriginalText(t *testing.T) {
	tr := ParseTimeRange("9am", base)

	require.NotNil(t, tr.Start)
	assert.Equal(t, "9am", tr.Description)
}

func TestParseTimeRangeIdempotent(t *testing.T) {
	a := ParseTimeRange("2-3pm Dentist", base)
	b := ParseTimeRange("2-3pm Dentist", base)
	assert.Equal(t, a, b)
}
