package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/wirasatya/business-management/internal"
	"github.com/wirasatya/business-management/internal/session"
	sessionPostgres "github.com/wirasatya/business-management/internal/session/postgres"
	"github.com/wirasatya/business-management/pkg/logger"
)

var sweepOnce bool

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the expired-session sweeper",
	Long: `Deactivate sessions past their expiry on the schedule configured in
session.sweep_schedule. Reads already treat overdue sessions as dead; the
sweep keeps the active index small.`,
	RunE: runSweeper,
}

func init() {
	sweepCmd.Flags().BoolVar(&sweepOnce, "once", false, "run a single sweep and exit")
}

func runSweeper(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(".")
	if err != nil {
		return err
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	db, err := initDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize gorm: %w", err)
	}

	sessions := session.NewService(sessionPostgres.NewSessionRepository(gormDB), cfg.Session.TTLOrDefault(), lg)

	sweep := func() {
		count, err := sessions.CleanupExpiredSessions(context.Background())
		if err != nil {
			lg.Error("session sweep failed", "error", err)
			return
		}
		lg.Info("session sweep complete", "deactivated", count)
	}

	if sweepOnce {
		sweep()
		return nil
	}

	schedule := cfg.Session.SweepSchedule
	if schedule == "" {
		schedule = internal.DefaultSweepSchedule
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(schedule, sweep); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}

	lg.Info("session sweeper started", "schedule", schedule)
	scheduler.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	ctx := scheduler.Stop()
	<-ctx.Done()
	lg.Info("session sweeper stopped")
	return nil
}
