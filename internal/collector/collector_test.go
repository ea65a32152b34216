package collector

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StealthRadar/internal/metrics"
	"StealthRadar/internal/model"
)

func oneRow(date time.Time) *model.Session {
	return &model.Session{
		Date: date,
		Records: map[string]model.SessionRecord{
			"ABC": {Symbol: "ABC", Series: model.SeriesEquity, High: 2, Low: 1, Close: 1.5, Volume: 10},
		},
	}
}

func TestIsWeekend(t *testing.T) {
	assert.True(t, IsWeekend(jan(13)))  // Saturday
	assert.True(t, IsWeekend(jan(14)))  // Sunday
	assert.False(t, IsWeekend(jan(15))) // Monday
}

func TestCollect_SkipsWeekendsAndHolidays(t *testing.T) {
	// Fri 19 .. Mon 8, with Wed 17 a holiday.
	mock := NewMockFetcher(oneRow(jan(19)), oneRow(jan(18)), oneRow(jan(16)), oneRow(jan(15)), oneRow(jan(12)), oneRow(jan(11)))
	c := NewCollector(mock, 5, 12, time.UTC, nil, nil)

	// Sunday evening.
	sessions, err := c.Collect(context.Background(), time.Date(2024, 1, 21, 20, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, sessions, 5)

	var got []string
	for _, s := range sessions {
		got = append(got, s.Date.Format("2006-01-02"))
	}
	assert.Equal(t, []string{"2024-01-19", "2024-01-18", "2024-01-16", "2024-01-15", "2024-01-12"}, got)

	for _, call := range mock.Calls {
		assert.False(t, IsWeekend(call), "fetched weekend %s", call)
	}
	assert.Len(t, mock.Calls, 6)
}

func TestCollect_LookbackCeiling(t *testing.T) {
	mock := NewMockFetcher()
	c := NewCollector(mock, 5, 12, time.UTC, nil, nil)

	_, err := c.Collect(context.Background(), jan(31))
	assert.ErrorIs(t, err, ErrNoSessions)
	assert.Len(t, mock.Calls, 17)
}

func TestCollect_PartialWindowReturnsWhatWasFound(t *testing.T) {
	// Only one session inside the 17 weekday window.
	mock := NewMockFetcher(oneRow(jan(10)))
	c := NewCollector(mock, 5, 12, time.UTC, nil, nil)

	sessions, err := c.Collect(context.Background(), jan(31))
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].Date.Equal(jan(10)))
}

func TestCollect_AllWeekendsAndHolidays(t *testing.T) {
	mock := NewMockFetcher()
	c := NewCollector(mock, 5, 0, time.UTC, nil, nil)

	_, err := c.Collect(context.Background(), jan(21))
	assert.ErrorIs(t, err, ErrNoSessions)
	assert.Len(t, mock.Calls, 5)
}

func TestCollect_ErrorsAndEmptySessionsAreSkips(t *testing.T) {
	mock := NewMockFetcher(oneRow(jan(17)), &model.Session{Date: jan(18)})
	mock.Errs["2024-01-19"] = ErrEmptyArchive
	mock.Errs["2024-01-16"] = fmt.Errorf("parse: %w", errors.New("missing column SYMBOL"))
	m := metrics.New()
	c := NewCollector(mock, 1, 5, time.UTC, m, nil)

	sessions, err := c.Collect(context.Background(), jan(19))
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].Date.Equal(jan(17)))
}

func TestCollect_ContextCanceled(t *testing.T) {
	mock := NewMockFetcher(oneRow(jan(19)))
	c := NewCollector(mock, 5, 12, time.UTC, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Collect(ctx, jan(19))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollect_FetchDeadlineStopsLookup(t *testing.T) {
	mock := NewMockFetcher(oneRow(jan(18)), oneRow(jan(17)))
	mock.Errs["2024-01-19"] = fmt.Errorf("rate limit wait: %w", context.DeadlineExceeded)
	m := metrics.New()
	c := NewCollector(mock, 5, 12, time.UTC, m, nil)

	_, err := c.Collect(context.Background(), jan(19))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrNoSessions)
	assert.Len(t, mock.Calls, 1)
}

func TestCollect_UsesMarketTimezone(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	mock := NewMockFetcher()
	c := NewCollector(mock, 1, 0, ist, nil, nil)

	// 20:00 UTC Monday is already Tuesday in IST.
	_, _ = c.Collect(context.Background(), time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC))
	require.Len(t, mock.Calls, 1)
	assert.Equal(t, "2024-01-16", mock.Calls[0].Format("2006-01-02"))
}
