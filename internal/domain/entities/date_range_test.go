package entities_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profplay/isbasi/backend/internal/domain/entities"
)

func mustRange(t *testing.T, start, end string) entities.DateRange {
	t.Helper()
	s, err := entities.ParseDate(start)
	require.NoError(t, err)
	e, err := entities.ParseDate(end)
	require.NoError(t, err)
	return entities.DateRange{Start: s, End: e}
}

func TestDateRange_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b entities.DateRange
		want bool
	}{
		{"partial overlap", mustRange(t, "2025-10-20", "2025-10-22"), mustRange(t, "2025-10-21", "2025-10-23"), true},
		{"adjacent days do not overlap", mustRange(t, "2025-10-20", "2025-10-20"), mustRange(t, "2025-10-21", "2025-10-25"), false},
		{"ending on the start day overlaps", mustRange(t, "2025-10-18", "2025-10-21"), mustRange(t, "2025-10-21", "2025-10-25"), true},
		{"containment", mustRange(t, "2025-10-01", "2025-10-31"), mustRange(t, "2025-10-10", "2025-10-11"), true},
		{"same single day", mustRange(t, "2025-10-20", "2025-10-20"), mustRange(t, "2025-10-20", "2025-10-20"), true},
		{"disjoint", mustRange(t, "2025-09-01", "2025-09-02"), mustRange(t, "2025-10-01", "2025-10-02"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a), "overlap must be symmetric")
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := entities.ParseDate(" 2025-10-20 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC), d)

	_, err = entities.ParseDate("20/10/2025")
	assert.Error(t, err)
}

func TestCalendarDate(t *testing.T) {
	istanbul, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)

	// 22:30 UTC is already the next day in Istanbul (UTC+3)
	now := time.Date(2025, 10, 25, 22, 30, 0, 0, time.UTC)

	assert.Equal(t, "2025-10-25", entities.FormatDate(entities.CalendarDate(now, time.UTC)))
	assert.Equal(t, "2025-10-26", entities.FormatDate(entities.CalendarDate(now, istanbul)))
	assert.Equal(t, "2025-10-25", entities.FormatDate(entities.CalendarDate(now, nil)))
}

func TestDateRange_String(t *testing.T) {
	assert.Equal(t, "2025-10-20", mustRange(t, "2025-10-20", "2025-10-20").String())
	assert.Equal(t, "2025-10-20 - 2025-10-22", mustRange(t, "2025-10-20", "2025-10-22").String())
}
