package parser

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
	_ "time/tzdata"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		valid  bool
		expect TimeOfDay
	}{
		{"morning", "09:00", true, TimeOfDay{9, 0}},
		{"noon", "12:00", true, TimeOfDay{12, 0}},
		{"single digit hour", "9:05", true, TimeOfDay{9, 5}},
		{"last minute", "23:59", true, TimeOfDay{23, 59}},
		{"hour out of range", "24:00", false, TimeOfDay{}},
		{"minute out of range", "10:60", false, TimeOfDay{}},
		{"missing minutes", "10", false, TimeOfDay{}},
		{"short minutes", "10:5", false, TimeOfDay{}},
		{"letters", "ab:cd", false, TimeOfDay{}},
		{"seconds", "10:00:00", false, TimeOfDay{}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := ParseTimeOfDay(test.input)
			if test.valid {
				require.NoError(t, err)
				assert.Equal(t, test.expect, result)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestParseTimesOfDay_AggregatesErrors(t *testing.T) {
	_, err := ParseTimesOfDay([]string{"09:00", "25:00", "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "25:00")
	assert.Contains(t, err.Error(), "x")
}

func TestTimeOfDay_On_UsesLocalCalendarDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	day := time.Date(2024, 3, 10, 23, 30, 0, 0, loc)
	fire := TimeOfDay{Hour: 9, Minute: 0}.On(day)

	assert.Equal(t, time.Date(2024, 3, 10, 9, 0, 0, 0, loc), fire)
	assert.Equal(t, "2024-03-10", fire.Format("2006-01-02"))
	assert.Equal(t, 8, fire.UTC().Hour())
}

func TestTimeOfDay_String(t *testing.T) {
	assert.Equal(t, "09:05", TimeOfDay{9, 5}.String())
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"09:00", "12:00", "17:00"}, SplitList(" 09:00, 12:00 ,,17:00 "))
	assert.Nil(t, SplitList(""))
}

func TestNextSweep(t *testing.T) {
	from := time.Date(2024, 3, 10, 9, 2, 0, 0, time.UTC)

	next, err := NextSweep("*/5 * * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 9, 5, 0, 0, time.UTC), next)

	next, err = NextSweep("@every 1m", from)
	require.NoError(t, err)
	assert.Equal(t, from.Add(time.Minute), next)
}

func TestParseSweepSchedule_Invalid(t *testing.T) {
	_, err := ParseSweepSchedule("every five minutes")
	assert.Error(t, err)
}
