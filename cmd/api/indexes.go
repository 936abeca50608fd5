package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/harentsoaR/mentorship-api/internal/config"
	"github.com/harentsoaR/mentorship-api/internal/logging"
	"github.com/harentsoaR/mentorship-api/internal/repository"
)

var ensureIndexesCmd = &cobra.Command{
	Use:   "ensure-indexes",
	Short: "Create the MongoDB indexes the service relies on",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.LoadConfig()
		log := logging.New(cfg.Env, cfg.LogLevel, os.Stdout)

		client, err := connectMongo(cmd.Context(), cfg.Database.URL)
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		if err := repository.EnsureIndexes(cmd.Context(), client.Database(cfg.Database.Name)); err != nil {
			return err
		}
		log.WithField("database", cfg.Database.Name).Info("indexes ensured")
		return nil
	},
}
