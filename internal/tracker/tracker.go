// Package tracker holds the blood sugar log logic shared by the tracker and
// dashboard views and the tracker subcommands.
package tracker

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Rorical/diabeguide/internal/api"
)

var (
	ErrMissingField = errors.New("all fields are required")
	ErrInvalidSugar = errors.New("sugar level must be a positive number")
	ErrInvalidMonth = errors.New("month must look like YYYY-MM")
)

// Group is one month of entries.
type Group struct {
	Key     string // MM-YYYY as the server keys it
	Month   time.Month
	Year    int
	Entries []api.Entry
}

// Label is the heading shown for the group.
func (g Group) Label() string {
	if g.Month == 0 {
		return g.Key
	}
	return fmt.Sprintf("%s %d", g.Month, g.Year)
}

// Groups orders the log chronologically. Keys that do not parse sort last,
// alphabetically.
func Groups(data api.TrackerData) []Group {
	groups := make([]Group, 0, len(data))
	for key, entries := range data {
		g := Group{Key: key, Entries: entries}
		if month, year, ok := parseKey(key); ok {
			g.Month, g.Year = month, year
		}
		groups = append(groups, g)
	}

	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		switch {
		case a.Month == 0 && b.Month == 0:
			return a.Key < b.Key
		case a.Month == 0:
			return false
		case b.Month == 0:
			return true
		case a.Year != b.Year:
			return a.Year < b.Year
		}
		return a.Month < b.Month
	})
	return groups
}

func parseKey(key string) (time.Month, int, bool) {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[0])
	if err != nil || m < 1 || m > 12 {
		return 0, 0, false
	}
	y, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return time.Month(m), y, true
}

// Form is the raw text of the log entry form.
type Form struct {
	Sugar string
	Note  string
	Month string // YYYY-MM
}

// Entry validates the form the way the server does and builds the request.
func (f Form) Entry() (api.NewEntry, error) {
	sugar := strings.TrimSpace(f.Sugar)
	note := strings.TrimSpace(f.Note)
	month := strings.TrimSpace(f.Month)
	if sugar == "" || note == "" || month == "" {
		return api.NewEntry{}, ErrMissingField
	}

	level, err := strconv.ParseFloat(sugar, 64)
	if err != nil || level <= 0 {
		return api.NewEntry{}, ErrInvalidSugar
	}

	mm, yyyy, err := SplitMonth(month)
	if err != nil {
		return api.NewEntry{}, err
	}
	return api.NewEntry{SugarLevel: level, Note: note, Month: mm, Year: yyyy}, nil
}

// SplitMonth turns "2025-03" into month "03" and year "2025".
func SplitMonth(value string) (month, year string, err error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(value))
	if err != nil {
		return "", "", ErrInvalidMonth
	}
	return t.Format("01"), t.Format("2006"), nil
}

// CurrentMonth is the default for the month field.
func CurrentMonth(now time.Time) string {
	return now.Format("2006-01")
}

// Series lists every reading in chronological group order with its note as
// the label.
func Series(data api.TrackerData) (values []float64, labels []string) {
	for _, g := range Groups(data) {
		for _, e := range g.Entries {
			values = append(values, float64(e.SugarLevel))
			labels = append(labels, e.Note)
		}
	}
	return values, labels
}

// Stats summarises a series.
type Stats struct {
	Count int
	Min   float64
	Max   float64
	Avg   float64
}

func Summarize(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	s := Stats{Count: len(values), Min: values[0], Max: values[0]}
	var sum float64
	for _, v := range values {
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Avg = sum / float64(len(values))
	return s
}
