package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/yukikurage/habit-tracker-api/internal/config"
	"github.com/yukikurage/habit-tracker-api/internal/database"
	"github.com/yukikurage/habit-tracker-api/internal/events"
	"github.com/yukikurage/habit-tracker-api/internal/services"
	"go.uber.org/zap"
)

var (
	backfillUser     string
	backfillTimezone string

	tokenUser  string
	tokenEmail string
	tokenTTL   time.Duration
)

func init() {
	backfillCmd.Flags().StringVar(&backfillUser, "user", "", "user id to maintain (required)")
	backfillCmd.Flags().StringVar(&backfillTimezone, "timezone", "", "IANA zone for the user's calendar day (defaults to the profile zone)")
	_ = backfillCmd.MarkFlagRequired("user")

	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id placed in the subject claim (required)")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(_ *cobra.Command, _ []string) error {
		_, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()
		return database.Migrate(log)
	},
}

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Backfill missed days and recompute streaks for one user",
	Long: `Backfill writes a missed log for yesterday on every active daily habit
that has none, then recomputes current and best streaks.

Examples:
  habit-tracker backfill --user 6f1c... --timezone Asia/Tokyo`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		bus := events.NewBus()
		a := newApp(cfg, database.GetDB(), bus, bus, log)

		loc := a.services.Settings.Location(cmd.Context(), backfillUser, cfg.Location())
		if backfillTimezone != "" {
			loc, err = time.LoadLocation(backfillTimezone)
			if err != nil {
				return fmt.Errorf("invalid timezone %q: %w", backfillTimezone, err)
			}
		}

		if err := a.streaks.RunBackfillAndRecompute(cmd.Context(), backfillUser, loc); err != nil {
			return err
		}
		log.Info("maintenance completed", zap.String("user_id", backfillUser), zap.String("timezone", loc.String()))
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a signed bearer token for local testing",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.Load()
		auth := services.NewAuthService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
		token, err := auth.IssueToken(tokenUser, tokenEmail, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}
