package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"workorder/internal/config"
	"workorder/internal/migrations"
	"workorder/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the scheduled rule generator",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("port", "8080", "HTTP server port")
	serveCmd.Flags().String("redis-addr", "", "Redis address for the dashboard cache; empty disables caching")
	serveCmd.Flags().String("kafka-brokers", "", "comma-separated Kafka brokers for notifications; empty logs them instead")
	serveCmd.Flags().Bool("generator", true, "run the scheduled rule generator")
	serveCmd.Flags().Bool("migrate", false, "apply database migrations before serving")

	bindFlag("server_port", serveCmd.Flags(), "port")
	bindFlag("redis_addr", serveCmd.Flags(), "redis-addr")
	bindFlag("kafka_brokers", serveCmd.Flags(), "kafka-brokers")
	bindFlag("generator_enabled", serveCmd.Flags(), "generator")
	bindFlag("migrate_on_start", serveCmd.Flags(), "migrate")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := config.Load(viper.GetViper())
	logger := buildLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	s, err := server.Init(cfg, logger)
	if err != nil {
		return fmt.Errorf("❌ server initialization failed: %w", err)
	}

	if viper.GetBool("migrate_on_start") {
		sqlDB, err := s.DB.DB()
		if err != nil {
			return err
		}
		if err := migrations.Up(sqlDB); err != nil {
			return err
		}
		logger.Info("✅ Migrations applied")
	}

	return s.Run()
}
