package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"StealthRadar/internal/api"
	"StealthRadar/internal/notifier"
	"StealthRadar/internal/scheduler"
)

var serveCMD = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API, the scheduled digest and the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.log.Sync() //nolint:errcheck
		log := a.log

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var sender scheduler.Sender
		var tn *notifier.TelegramNotifier
		if a.cfg.TelegramEnabled() {
			tn = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, log)
			sender = tn
		} else {
			log.Warn("telegram not configured, digests will only be logged")
		}

		sched := scheduler.NewScheduler(ctx, a.scanner, sender, log)
		if a.cfg.Schedule.ScanCron != "" {
			if err := sched.Register(a.cfg.Schedule.ScanCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()
		}

		if tn != nil {
			go tn.StartPolling(ctx, sched.HandleCommand)
			log.Info("telegram polling started")
		}

		if os.Getenv("RUN_ON_START") == "true" {
			log.Info("RUN_ON_START enabled, executing scan now")
			go sched.RunNow()
		}

		handler := api.NewHandler(a.scanner, a.metrics.Handler(), log)
		srv := &http.Server{
			Addr:              a.cfg.Server.Addr,
			Handler:           handler.SetupRoutes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("starting server", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case <-ctx.Done():
			log.Info("shutdown signal received, stopping")
		case err := <-errCh:
			if err != nil {
				return err
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown", zap.Error(err))
		}
		log.Info("StealthRadar stopped")
		return nil
	},
}
