package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/kafka"
)

func newEventsCmd(a *app) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Aggregate search events from kafka and print periodic summaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(a.cfg.Kafka.Brokers) == 0 {
				return errors.New("kafka.brokers is not configured")
			}
			ctx := cmd.Context()
			agg := analytics.NewAggregator()
			consumer := kafka.NewConsumer(a.cfg.Kafka, agg.HandleMessage())

			errCh := make(chan error, 1)
			go func() { errCh <- consumer.Run(ctx) }()

			err := reportLoop(ctx, cmd.OutOrStdout(), agg, interval, errCh)
			printStats(cmd.OutOrStdout(), agg)
			return err
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 10*time.Second, "time between summaries")
	return cmd
}

// reportLoop prints a summary every interval until ctx is done or the
// consumer stops.
func reportLoop(ctx context.Context, out io.Writer, agg *analytics.Aggregator, interval time.Duration, errCh <-chan error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			printStats(out, agg)
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return <-errCh
		}
	}
}

func printStats(out io.Writer, agg *analytics.Aggregator) {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.Encode(agg.Stats())
}
