package main

import (
	"errors"
	"fmt"

	"nutritrack/internal/adapter/postgres"
	"nutritrack/internal/app"
	"nutritrack/internal/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate <up|down>",
	Short:     "Apply or roll back the database schema",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
		var dir postgres.Direction
		switch args[0] {
		case "up":
			dir = postgres.Up
		case "down":
			dir = postgres.Down
		default:
			return fmt.Errorf("unknown direction %q (want up or down)", args[0])
		}
		if err := postgres.Migrate(cfg.DatabaseURL, dir); err != nil {
			return err
		}
		color.Green("✓ migrations %s", args[0])
		return nil
	},
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userCreateFlags struct {
	password string
	email    string
	age      int
	weight   float64
	gender   string
}

var userCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Storage == config.StorageMemory {
			return errors.New("user create needs persistent storage (STORAGE=postgres)")
		}
		b, err := openBackend(cmd.Context(), cfg, true)
		if err != nil {
			return err
		}
		defer func() { _ = b.Close() }()

		f := userCreateFlags
		u, err := b.authService(cfg).CreateUser(cmd.Context(), app.Registration{
			Username: args[0],
			Password: f.password,
			Email:    f.email,
			Age:      f.age,
			Weight:   f.weight,
			Gender:   f.gender,
		})
		if err != nil {
			return err
		}
		color.Green("✓ Created user %s", u.Username)
		fmt.Printf("  %s %d\n", color.New(color.Faint).Sprint("id"), u.ID)
		return nil
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage login sessions",
}

var sessionsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete expired sessions now",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBackend(cmd.Context(), cfg, false)
		if err != nil {
			return err
		}
		defer func() { _ = b.Close() }()

		n, err := b.authService(cfg).PruneExpired(cmd.Context())
		if err != nil {
			return err
		}
		if n == 0 {
			color.Yellow("no expired sessions")
			return nil
		}
		color.Green("✓ Pruned %d expired sessions", n)
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&userCreateFlags.password, "password", "", "password (required)")
	userCreateCmd.Flags().StringVar(&userCreateFlags.email, "email", "", "email address (required)")
	userCreateCmd.Flags().IntVar(&userCreateFlags.age, "age", 0, "age in years (required)")
	userCreateCmd.Flags().Float64Var(&userCreateFlags.weight, "weight", 0, "weight in kg (required)")
	userCreateCmd.Flags().StringVar(&userCreateFlags.gender, "gender", "", "gender")
	_ = userCreateCmd.MarkFlagRequired("password")
	_ = userCreateCmd.MarkFlagRequired("email")

	userCmd.AddCommand(userCreateCmd)
	sessionsCmd.AddCommand(sessionsPruneCmd)
	rootCmd.AddCommand(migrateCmd, userCmd, sessionsCmd)
}
