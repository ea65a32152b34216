package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"StealthRadar/internal/calculator"
	"StealthRadar/internal/collector"
	"StealthRadar/internal/metrics"
	"StealthRadar/internal/model"
	"StealthRadar/internal/strategy"
)

var (
	// ErrNoSessions is returned when no trading session could be retrieved.
	ErrNoSessions = collector.ErrNoSessions
	// ErrUnexpected wraps every other run failure.
	ErrUnexpected = errors.New("unexpected error")
)

// Options configures a Scanner.
type Options struct {
	TargetSessions int
	LookbackExtra  int
	MinDays        int
	TopN           int
	Location       *time.Location
}

// Scanner runs the accumulation scan end to end. It is safe for concurrent
// use: every Run builds its own aggregator.
type Scanner struct {
	collector *collector.Collector
	opts      Options
	metrics   *metrics.Metrics
	log       *zap.Logger
	now       func() time.Time
}

// New creates a Scanner over fetcher.
func New(fetcher collector.Fetcher, opts Options, m *metrics.Metrics, log *zap.Logger) *Scanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scanner{
		collector: collector.NewCollector(fetcher, opts.TargetSessions, opts.LookbackExtra, opts.Location, m, log),
		opts:      opts,
		metrics:   m,
		log:       log.With(zap.String("component", "scanner")),
		now:       time.Now,
	}
}

// WithClock overrides the clock used to pick the starting date.
func (s *Scanner) WithClock(now func() time.Time) *Scanner {
	s.now = now
	return s
}

// Run executes one scan. Failures are either ErrNoSessions or wrap ErrUnexpected.
func (s *Scanner) Run(ctx context.Context) (result *model.ScanResult, err error) {
	runID := uuid.NewString()
	log := s.log.With(zap.String("run_id", runID))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error("scan panicked", zap.Any("panic", r), zap.Stack("stack"))
			result, err = nil, fmt.Errorf("%w: %v", ErrUnexpected, r)
		}
		s.finish(log, start, result, err)
	}()

	sessions, err := s.collector.Collect(ctx, s.now())
	if err != nil {
		if errors.Is(err, ErrNoSessions) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnexpected, err)
	}

	agg := calculator.NewAggregator()
	folded := agg.FoldAll(sessions)
	if len(folded) == 0 {
		return nil, ErrNoSessions
	}

	top := strategy.Rank(agg.Accumulators(), agg.SessionsFolded(), strategy.Options{
		Window:  s.opts.TargetSessions,
		MinDays: s.opts.MinDays,
		TopN:    s.opts.TopN,
	})

	dates := make([]string, len(folded))
	for i, d := range folded {
		dates[i] = d.Format("2006-01-02")
	}

	return &model.ScanResult{
		RunID:        runID,
		DaysAnalyzed: agg.SessionsFolded(),
		SessionDates: dates,
		TopStocks:    top,
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

func (s *Scanner) finish(log *zap.Logger, start time.Time, result *model.ScanResult, err error) {
	elapsed := time.Since(start)
	switch {
	case err == nil:
		s.metrics.ScanFinished(metrics.OutcomeOK, elapsed)
		log.Info("scan finished",
			zap.Int("days_analyzed", result.DaysAnalyzed),
			zap.Int("results", len(result.TopStocks)),
			zap.Duration("elapsed", elapsed))
	case errors.Is(err, ErrNoSessions):
		s.metrics.ScanFinished(metrics.OutcomeNoSessions, elapsed)
		log.Warn("scan found no sessions", zap.Duration("elapsed", elapsed))
	default:
		s.metrics.ScanFinished(metrics.OutcomeError, elapsed)
		log.Error("scan failed", zap.Error(err), zap.Duration("elapsed", elapsed))
	}
}
