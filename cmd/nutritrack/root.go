package main

import (
	"fmt"

	"nutritrack/internal/config"
	"nutritrack/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "nutritrack",
	Short: "Nutrition and fitness tracking server",
	Long: `Nutritrack serves the meal, water and activity tracker.

Without a subcommand it starts the HTTP server, same as 'nutritrack serve'.

CONFIGURATION:

  Settings come from the environment, optionally seeded from a dotenv file
  (ENV_FILE, default .env). The most common ones:

  ADDR            listen address (default :8080)
  STORAGE         postgres | memory (default postgres)
  DATABASE_URL    postgres connection string
  SESSION_STORE   sql | redis (default sql)
  REDIS_URL       redis://host:6379/0 when SESSION_STORE=redis
  FOOD_API_KEY    key for the food-composition service

EXAMPLES:

  nutritrack serve
  nutritrack migrate up
  nutritrack user create alice --password pw1 --email a@example.com --age 30 --weight 62
  nutritrack sessions prune`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		l, err := logging.New(c.Production())
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		cfg, logger = c, l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}
