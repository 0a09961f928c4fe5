package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rakhadyo/company-portal/internal/core/events"
	"github.com/rakhadyo/company-portal/internal/mailgateway"
	"github.com/rakhadyo/company-portal/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start worker pools for various services",
	Long:  `Start and manage worker pools for background mail dispatch and event processing.`,
}

var mailWorkerCmd = &cobra.Command{
	Use:   "mail",
	Short: "Start mail dispatch worker pool",
	Long:  `Start the mail gateway worker pool for background email delivery`,
	Run: func(cmd *cobra.Command, args []string) {
		startMailWorker()
	},
}

var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start event bus worker",
	Long:  `Start the event bus and log portal events as they arrive`,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

var (
	maxWorkers   int
	jobQueueSize int
	mailAPIURL   string
)

func startMailWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	lg := logger.LoggerWrapper()

	client := mailgateway.NewClient(getStringFlag(mailAPIURL, config.Mail.BaseURL), config.Mail.SendTimeout)
	dispatcher := mailgateway.NewDispatcher(client, mailgateway.DispatcherConfig{
		MaxWorkers:   getIntFlag(maxWorkers, config.Mail.MaxWorkers),
		JobQueueSize: getIntFlag(jobQueueSize, config.Mail.JobQueueSize),
	}, lg)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	lg.Info("mail worker is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	lg.Info("received signal, shutting down mail worker", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shutdownDone := make(chan struct{})
	go func() {
		dispatcher.Shutdown()
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		lg.Info("mail worker pool shutdown complete")
	case <-ctx.Done():
		lg.Warn("shutdown timeout reached, forcing exit")
	}
}

func startEventWorker() {
	_, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	lg := logger.LoggerWrapper()

	eventBus := events.NewEventBus(lg)

	for _, eventType := range []string{
		events.EventTypeApplicantEmailSent,
		events.EventTypeApplicantStageChanged,
		events.EventTypeUpdateSubmitted,
	} {
		eventBus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			lg.Info("received portal event",
				"event_id", event.EventID(),
				"event_type", event.EventType(),
				"payload", event.Payload())
			return nil
		})
	}

	lg.Info("event bus worker started. Waiting for events...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	lg.Info("received signal, shutting down event bus", "signal", sig)
	lg.Info("event bus shutdown complete")
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	mailWorkerCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of workers")
	mailWorkerCmd.Flags().IntVar(&jobQueueSize, "job-queue-size", 0, "Job queue buffer size")
	mailWorkerCmd.Flags().StringVar(&mailAPIURL, "api-url", "", "Mail gateway base URL")

	workerCmd.AddCommand(mailWorkerCmd)
	workerCmd.AddCommand(eventWorkerCmd)
}
