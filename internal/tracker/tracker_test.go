package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/diabeguide/internal/api"
)

func TestGroupsChronological(t *testing.T) {
	data := api.TrackerData{
		"03-2025": {{SugarLevel: 120, Note: "fasting"}},
		"11-2024": {{SugarLevel: 140, Note: "dinner"}},
		"bogus":   {{SugarLevel: 90, Note: "?"}},
		"01-2025": {{SugarLevel: 100, Note: "walk"}},
	}

	groups := Groups(data)
	keys := make([]string, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}
	assert.Equal(t, []string{"11-2024", "01-2025", "03-2025", "bogus"}, keys)
	assert.Equal(t, "November 2024", groups[0].Label())
	assert.Equal(t, "bogus", groups[3].Label())
}

func TestFormEntry(t *testing.T) {
	entry, err := Form{Sugar: " 135.5 ", Note: "after lunch", Month: "2025-03"}.Entry()
	require.NoError(t, err)
	assert.Equal(t, api.NewEntry{SugarLevel: 135.5, Note: "after lunch", Month: "03", Year: "2025"}, entry)
}

func TestFormEntryValidation(t *testing.T) {
	tests := []struct {
		name string
		form Form
		want error
	}{
		{"missing note", Form{Sugar: "120", Month: "2025-03"}, ErrMissingField},
		{"missing month", Form{Sugar: "120", Note: "x"}, ErrMissingField},
		{"non numeric", Form{Sugar: "high", Note: "x", Month: "2025-03"}, ErrInvalidSugar},
		{"zero", Form{Sugar: "0", Note: "x", Month: "2025-03"}, ErrInvalidSugar},
		{"negative", Form{Sugar: "-4", Note: "x", Month: "2025-03"}, ErrInvalidSugar},
		{"bad month", Form{Sugar: "120", Note: "x", Month: "03/2025"}, ErrInvalidMonth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.form.Entry()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSeriesAndSummary(t *testing.T) {
	data := api.TrackerData{
		"02-2025": {{SugarLevel: 150, Note: "b"}},
		"01-2025": {{SugarLevel: 90, Note: "a1"}, {SugarLevel: 120, Note: "a2"}},
	}
	values, labels := Series(data)
	assert.Equal(t, []float64{90, 120, 150}, values)
	assert.Equal(t, []string{"a1", "a2", "b"}, labels)

	stats := Summarize(values)
	assert.Equal(t, Stats{Count: 3, Min: 90, Max: 150, Avg: 120}, stats)
	assert.Equal(t, Stats{}, Summarize(nil))
}

func TestCurrentMonth(t *testing.T) {
	assert.Equal(t, "2025-07", CurrentMonth(time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)))
}
