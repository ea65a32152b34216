package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"StealthRadar/internal/model"
	"StealthRadar/internal/notifier"
)

// ScanRunner runs one accumulation scan.
type ScanRunner interface {
	Run(ctx context.Context) (*model.ScanResult, error)
}

// Sender delivers a formatted report.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs scans on a cron schedule and publishes the digest.
type Scheduler struct {
	Cron    *cron.Cron
	Scanner ScanRunner
	Sender  Sender // nil disables delivery; results are only logged
	Ctx     context.Context
	log     *zap.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, sc ScanRunner, sender Sender, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		Scanner: sc,
		Sender:  sender,
		Ctx:     ctx,
		log:     log.With(zap.String("component", "scheduler")),
	}
}

// Register adds the scan task on the given 6-field cron spec.
func (s *Scheduler) Register(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running scan to return.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunNow executes the scan task immediately.
func (s *Scheduler) RunNow() {
	s.scanTask()
}

func (s *Scheduler) scanTask() {
	s.log.Info("running scheduled scan")
	s.trySend(s.report(s.Ctx))
}

func (s *Scheduler) report(ctx context.Context) string {
	res, err := s.Scanner.Run(ctx)
	if err != nil {
		s.log.Error("scan failed", zap.Error(err))
		return notifier.FormatScanError(err)
	}
	return notifier.FormatScanReport(res)
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	switch command {
	case "/scan", "scan":
		return s.report(ctx)
	case "/start", "/help":
		return "Commands:\n/scan - run the accumulation scan now"
	default:
		return "Unknown command. Try /scan"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Sender == nil {
		s.log.Info("digest ready", zap.String("text", text))
		return
	}
	if err := s.Sender.SendWithRetry(s.Ctx, text, 3); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.log.Error("send notification", zap.Error(err))
	}
}
