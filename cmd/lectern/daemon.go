// ABOUTME: Daemon command refreshing feeds on a fixed cadence
// ABOUTME: Runs refresh cycles and retention sweeps until interrupted

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run periodic refreshes until interrupted",
	Long:  "Refresh all feeds on the configured interval and sweep aged items once a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log.WithFields(logrus.Fields{
			"interval":  cfg.RefreshInterval(),
			"retention": cfg.RetentionWindow(),
		}).Info("daemon started")

		refreshTicker := time.NewTicker(cfg.RefreshInterval())
		defer refreshTicker.Stop()
		sweepTicker := time.NewTicker(24 * time.Hour)
		defer sweepTicker.Stop()

		runCycle(ctx)
		for {
			select {
			case <-ctx.Done():
				log.Info("daemon stopped")
				return nil
			case <-refreshTicker.C:
				runCycle(ctx)
			case <-sweepTicker.C:
				deleted, err := st.DeleteItemsOlderThan(time.Now().Add(-cfg.RetentionWindow()))
				if err != nil {
					log.WithField("error", err).Error("retention sweep failed")
					continue
				}
				log.WithField("deleted", deleted).Info("retention sweep complete")
			}
		}
	},
}

func runCycle(ctx context.Context) {
	urls, err := st.ListFeedURLs()
	if err != nil {
		log.WithField("error", err).Error("failed to list feeds")
		return
	}
	if len(urls) == 0 {
		return
	}
	count := orchestrator.RefreshAll(ctx, urls)
	log.WithFields(logrus.Fields{
		"feeds": len(urls),
		"items": count,
	}).Info("refresh cycle complete")
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}
