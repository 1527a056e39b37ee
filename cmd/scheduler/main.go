package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segyhp/microloan-engine/internal/clock"
	"github.com/segyhp/microloan-engine/internal/config"
	"github.com/segyhp/microloan-engine/internal/repository"
	"github.com/segyhp/microloan-engine/internal/service"
	"github.com/segyhp/microloan-engine/pkg/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 2 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, "microloan-scheduler", cfg.Server.Env)
	defer log.Sync()
	zap.ReplaceGlobals(log)

	log.Info("Starting repayment scheduler...")

	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatal("Invalid scheduler timezone", zap.String("timezone", cfg.Scheduler.Timezone), zap.Error(err))
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	reminders := service.NewReminderService(
		repository.NewLoanRepository(db),
		repository.NewAnalyticsRepository(db),
		clock.System(),
		log,
	)

	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cron.DefaultLogger)),
	)

	if err := setupCronJobs(c, cfg, reminders, log); err != nil {
		log.Fatal("Failed to schedule jobs", zap.Error(err))
	}

	c.Start()
	log.Info("Scheduler started successfully", zap.String("timezone", loc.String()))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	log.Info("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, reminders *service.ReminderService, log *zap.Logger) error {
	if _, err := c.AddFunc(cfg.Scheduler.ReminderCron, func() {
		sendRepaymentReminders(reminders, cfg.Scheduler.ReminderLookaheadDays, log)
	}); err != nil {
		return err
	}

	if _, err := c.AddFunc(cfg.Scheduler.OverdueCron, func() {
		reportOverdueInstallments(reminders, log)
	}); err != nil {
		return err
	}

	log.Info("Cron jobs scheduled",
		zap.String("reminder_cron", cfg.Scheduler.ReminderCron),
		zap.String("overdue_cron", cfg.Scheduler.OverdueCron),
	)
	return nil
}

// sendRepaymentReminders logs one reminder per pending installment falling
// due inside the lookahead window.
func sendRepaymentReminders(reminders *service.ReminderService, lookaheadDays int, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	due, err := reminders.UpcomingRepayments(ctx, lookaheadDays)
	if err != nil {
		log.Error("Repayment reminder job failed", zap.Error(err))
		return
	}

	for _, r := range due {
		log.Info("Repayment reminder",
			zap.Int64("loan_id", r.LoanID),
			zap.Int64("customer_id", r.CustomerID),
			zap.String("customer_name", r.CustomerName),
			zap.Int("installment_no", r.InstallmentNo),
			zap.Time("due_date", r.DueDate),
			zap.String("amount", r.TotalAmount.StringFixed(2)),
		)
	}
	log.Info("Repayment reminder job finished", zap.Int("reminders", len(due)))
}

func reportOverdueInstallments(reminders *service.ReminderService, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	summary, err := reminders.OverdueSummary(ctx)
	if err != nil {
		log.Error("Overdue summary job failed", zap.Error(err))
		return
	}

	log.Info("Overdue installments",
		zap.Time("as_of", summary.AsOf),
		zap.Int("count", summary.OverdueInstallments),
	)
}
