package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vibast-solutions/ms-go-accounts/app/repository"
	"github.com/vibast-solutions/ms-go-accounts/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// cleanupCmd is meant to run from cron (every few hours is plenty); the sweep
// is idempotent so overlapping runs are harmless.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup-tokens",
	Short: "Delete expired password reset tokens",
	Run:   runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(_ *cobra.Command, _ []string) {
	configureLogging()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tokenRepo := repository.NewResetTokenRepository(db)
	removed, err := tokenRepo.DeleteExpired(ctx, time.Now())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to delete expired reset tokens")
	}

	logrus.WithField("removed", removed).Info("Expired reset tokens deleted")
	fmt.Printf("removed %d expired reset tokens\n", removed)
}
