/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zonetrack/apiserver/internal/events"
	"github.com/zonetrack/apiserver/internal/mq"
	"go.uber.org/zap"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Alert tooling",
}

// alertsWatchCmd follows the alert.raised channel and logs every alert.
var alertsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream raised alerts from the message queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		defer log.Sync()

		if cfg.MQ.Provider == "" {
			return errors.New("MQ_PROVIDER is not configured")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		queue, err := mq.NewFromConfig(ctx, cfg.MQ)
		if err != nil {
			return err
		}
		defer queue.Close()

		log.Info("watching alerts", zap.String("channel", events.ChannelAlertRaised))
		err = queue.Subscribe(ctx, events.ChannelAlertRaised, func(ctx context.Context, msg mq.Message) error {
			alert, err := events.DecodeAlertRaised(msg)
			if err != nil {
				log.Warn("undecodable alert event", zap.String("message_id", msg.ID), zap.Error(err))
				return nil
			}
			log.Info("alert",
				zap.Int("alert_id", alert.AlertID),
				zap.String("type", alert.AlertType),
				zap.String("severity", alert.Severity),
				zap.String("message", alert.Message),
			)
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.AddCommand(alertsWatchCmd)
}
