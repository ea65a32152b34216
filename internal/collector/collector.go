package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"StealthRadar/internal/metrics"
	"StealthRadar/internal/model"
)

// MockFetcher returns fixed sessions keyed by date for development and testing.
// Dates without an entry yield ErrNoData; Errs forces a specific error per date.
type MockFetcher struct {
	Sessions map[string]*model.Session
	Errs     map[string]error
	Calls    []time.Time
}

// NewMockFetcher indexes sessions by their calendar date.
func NewMockFetcher(sessions ...*model.Session) *MockFetcher {
	m := &MockFetcher{
		Sessions: make(map[string]*model.Session, len(sessions)),
		Errs:     make(map[string]error),
	}
	for _, s := range sessions {
		m.Sessions[dateKey(s.Date)] = s
	}
	return m
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchSession(ctx context.Context, date time.Time) (*model.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.Calls = append(m.Calls, date)
	key := dateKey(date)
	if err, ok := m.Errs[key]; ok {
		return nil, err
	}
	if s, ok := m.Sessions[key]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoData, key)
}

func dateKey(t time.Time) string { return t.Format("2006-01-02") }

// Collector locates the most recent trading sessions with data.
type Collector struct {
	Fetcher       Fetcher
	Target        int // sessions wanted
	LookbackExtra int // weekday attempts allowed beyond Target
	Location      *time.Location
	Metrics       *metrics.Metrics
	log           *zap.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, target, lookbackExtra int, loc *time.Location, m *metrics.Metrics, log *zap.Logger) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Collector{
		Fetcher:       fetcher,
		Target:        target,
		LookbackExtra: lookbackExtra,
		Location:      loc,
		Metrics:       m,
		log:           log.With(zap.String("component", "collector"), zap.String("source", fetcher.Name())),
	}
}

// IsWeekend reports whether date falls on Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Collect walks backward from now and returns up to Target sessions,
// most recent first. Weekends are skipped for free; every weekday costs one
// attempt whether or not it has data, bounded by Target+LookbackExtra.
// Returns ErrNoSessions if nothing was found.
func (c *Collector) Collect(ctx context.Context, now time.Time) ([]model.Session, error) {
	local := now.In(c.Location)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.Location)
	maxAttempts := c.Target + c.LookbackExtra

	sessions := make([]model.Session, 0, c.Target)
	attempts := 0
	for ; len(sessions) < c.Target && attempts < maxAttempts; day = day.AddDate(0, 0, -1) {
		if IsWeekend(day) {
			continue
		}
		attempts++

		session, err := c.Fetcher.FetchSession(ctx, day)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if isContextErr(err) {
				c.log.Warn("lookup stopped", zap.String("date", dateKey(day)), zap.Error(err))
				return nil, err
			}
			c.skip(day, err)
			continue
		}
		if session.Len() == 0 {
			c.Metrics.SessionSkipped(metrics.ReasonEmpty)
			c.log.Debug("session skipped", zap.String("date", dateKey(day)), zap.String("reason", "no equity rows"))
			continue
		}

		c.Metrics.SessionFetched()
		c.log.Info("session collected", zap.String("date", dateKey(day)), zap.Int("symbols", session.Len()))
		sessions = append(sessions, *session)
	}

	if len(sessions) == 0 {
		c.log.Warn("no sessions found", zap.Int("attempts", attempts))
		return nil, ErrNoSessions
	}
	return sessions, nil
}

// isContextErr reports whether a fetch ran out of time or was canceled
// without the run context being done yet.
func isContextErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

func (c *Collector) skip(day time.Time, err error) {
	reason := metrics.ReasonParse
	switch {
	case errors.Is(err, ErrNoData):
		reason = metrics.ReasonNoData
	case errors.Is(err, ErrEmptyArchive):
		reason = metrics.ReasonEmptyArchive
	}
	c.Metrics.SessionSkipped(reason)
	c.log.Debug("session skipped", zap.String("date", dateKey(day)), zap.String("reason", reason), zap.Error(err))
}
