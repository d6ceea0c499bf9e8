package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rumahkita/property-management/internal/billing"
	billingPostgres "github.com/rumahkita/property-management/internal/billing/postgres"
	"github.com/rumahkita/property-management/internal/core/events"
	"github.com/rumahkita/property-management/internal/notification"
	notificationPostgres "github.com/rumahkita/property-management/internal/notification/postgres"
	"github.com/rumahkita/property-management/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start and manage background workers for scheduled notification dispatch and event processing`,
}

var notificationWorkerCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Start the scheduled notification dispatcher",
	Long:  `Periodically sweep due scheduled notifications and deliver them to recipient inboxes`,
	Run: func(cmd *cobra.Command, args []string) {
		startNotificationWorker()
	},
}

var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start event bus worker",
	Long:  `Start the event bus `,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

var (
	sweepInterval time.Duration
	sweepBatch    int
)

func startNotificationWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	gormDB, err := initGorm(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize orm: %v\n", err)
		os.Exit(1)
	}

	interval := config.Notification.SweepInterval
	if sweepInterval > 0 {
		interval = sweepInterval
	}
	batchSize := config.Notification.BatchSize
	if sweepBatch > 0 {
		batchSize = sweepBatch
	}

	var billingRepo billing.Repository = billingPostgres.NewBillingRepository(gormDB)
	notificationRepo := notificationPostgres.NewNotificationRepository(gormDB)
	service := notification.NewService(notificationRepo, billingRepo, batchSize, lg)

	lg.Info("starting notification dispatcher",
		"sweep_interval", interval,
		"batch_size", batchSize)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	runSweep := func() {
		result, err := service.ProcessPendingNotifications()
		if err != nil {
			lg.Error("sweep failed", "error", err)
			return
		}
		if result.Processed > 0 {
			lg.Info("sweep complete",
				"processed", result.Processed,
				"sent", result.Sent,
				"failed", result.Failed)
		}
	}

	// one sweep immediately so restarts pick up backlog without waiting
	runSweep()

	for {
		select {
		case <-ticker.C:
			runSweep()
		case sig := <-sigChan:
			lg.Info("received signal, shutting down notification dispatcher", "signal", sig)
			lg.Info("notification dispatcher shutdown complete")
			return
		}
	}
}

func startEventWorker() {
	_, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	eventBus := events.NewEventBus(lg)

	eventBus.Subscribe(events.EventTypeApprovalApproved, func(ctx context.Context, event events.Event) error {
		lg.Info("received approval event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	lg.Info("event bus worker started. Waiting for events...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	lg.Info("event bus is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	lg.Info("received signal, shutting down event bus", "signal", sig)
	lg.Info("event bus shutdown complete")
}

func init() {
	notificationWorkerCmd.Flags().DurationVar(&sweepInterval, "interval", 0, "Sweep interval (overrides config)")
	notificationWorkerCmd.Flags().IntVar(&sweepBatch, "batch-size", 0, "Sweep batch size (overrides config)")

	workerCmd.AddCommand(notificationWorkerCmd)
	workerCmd.AddCommand(eventWorkerCmd)
}
