package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/idcard-hub/idcard-menu-services/api/services"
	"github.com/idcard-hub/idcard-menu-services/internal/events"
	"github.com/idcard-hub/idcard-menu-services/internal/metrics"
	"github.com/idcard-hub/idcard-menu-services/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var consumeMetricsPort int

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Run the Pulsar consumer to apply menu events from the consumer topic",
	Run: func(cmd *cobra.Command, args []string) {

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Load the config, initialize the database and set up logging
		commonSetUp(ctx)
		defer tearDown()

		reg := prometheus.NewRegistry()
		recorder := metrics.NewRecorder(reg)
		if consumeMetricsPort > 0 {
			go serveConsumerMetrics(reg)
		}

		// Initialize event consumer
		consumer, err := events.NewMenuEventConsumer(appCfg.Pulsar.URL, appCfg.Pulsar.TopicConsumer, appCfg.Pulsar.Subscription, recorder.Events)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize event consumer")
		}
		defer consumer.Close()

		service := &services.MenuService{Config: appCfg, DB: menuDB}

		log.Info().Str("topic", appCfg.Pulsar.TopicConsumer).Msg("Waiting for menu events")
		consumer.Run(ctx, applyEvent(service))
		log.Info().Msg("Consumer stopped")
	},
}

func init() {
	rootCmd.AddCommand(consumeCmd)
	consumeCmd.Flags().IntVar(&consumeMetricsPort, "metrics-port", 0, "port to expose consumer metrics on (disabled when 0)")
}

// applyEvent applies events to the store. Events that break the menu
// contract are rejected; store failures are retried.
func applyEvent(svc *services.MenuService) events.Handler {
	return func(ctx context.Context, event models.MenuEvent) (events.Outcome, error) {
		if err := svc.ApplyEvent(ctx, event); err != nil {
			var vErr *services.ValidationError
			if errors.As(err, &vErr) {
				return events.OutcomeRejected, err
			}
			return events.OutcomeRetry, err
		}
		return events.OutcomeApplied, nil
	}
}

func serveConsumerMetrics(reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle(appCfg.MetricsPath, metrics.GetHandlerForRegistry(reg))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", consumeMetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("Consumer metrics server stopped")
	}
}
