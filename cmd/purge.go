/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zonetrack/apiserver/internal/db"
	"github.com/zonetrack/apiserver/internal/services"
	"github.com/zonetrack/apiserver/internal/store"
	"go.uber.org/zap"
)

// purgeCmd soft-deletes alerts and movement logs past their retention.
var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Apply alert and movement history retention",
	Long: `Soft-deletes alerts older than ALERTS_RETENTION_DAYS and movement
logs older than ASSETS_HISTORY_RETENTION_DAYS. A value of 0 keeps
records forever.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		defer log.Sync()

		conn, err := db.Open(cmd.Context(), cfg.Database)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer conn.Close()

		retention := services.NewRetentionService(
			store.NewAlertRepository(conn),
			store.NewAssetLogRepository(conn),
			cfg.Settings,
			log,
		)
		result, err := retention.Purge(cmd.Context())
		if err != nil {
			return err
		}
		log.Info("retention applied",
			zap.Int64("alerts", result.Alerts),
			zap.Int64("asset_logs", result.AssetLogs),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(purgeCmd)
}
