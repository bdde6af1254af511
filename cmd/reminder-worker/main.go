package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/medibot/clinic-scheduler/internal/clinic"
	"github.com/medibot/clinic-scheduler/internal/config"
	"github.com/medibot/clinic-scheduler/internal/db"
	"github.com/medibot/clinic-scheduler/internal/jtime"
	"github.com/medibot/clinic-scheduler/internal/notify"
	"github.com/medibot/clinic-scheduler/internal/schedule"
	"github.com/medibot/clinic-scheduler/internal/sheet"
)

// tenantLister is satisfied by the excel and postgres stores; the
// reminder pass walks every tenant once a day.
type tenantLister interface {
	Tenants(ctx context.Context) ([]string, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.Env)
	defer logger.Sync()

	logger.Info("reminder-worker starting up",
		zap.String("env", cfg.Env),
		zap.String("cron", cfg.ReminderCron))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, lister, cleanup, err := buildStore(rootCtx, cfg)
	if err != nil {
		logger.Fatal("store init error", zap.Error(err))
	}
	defer cleanup()

	var mailer notify.Mailer = notify.NopMailer{}
	if cfg.MailGatewayURL != "" {
		mailer = notify.NewGatewayMailer(cfg.MailGatewayURL, cfg.MailGatewayTok, logger)
	} else {
		logger.Warn("no mail gateway configured, reminders will be dropped")
	}

	resolver := clinic.NewResolver(store, cfg.SettingsTTL, logger)
	query := schedule.NewQuery(store, logger)

	c := cron.New()
	_, err = c.AddFunc(cfg.ReminderCron, func() {
		runCtx, cancel := context.WithTimeout(rootCtx, 5*time.Minute)
		defer cancel()
		runOnce(runCtx, lister, query, resolver, mailer, logger)
	})
	if err != nil {
		logger.Fatal("invalid reminder cron spec", zap.Error(err))
	}

	c.Start()
	<-rootCtx.Done()

	logger.Info("shutdown signal received, stopping reminder worker")
	<-c.Stop().Done()
}

// runOnce mails every active appointment for tomorrow that carries a
// patient email, across all tenants.
func runOnce(ctx context.Context, lister tenantLister, query *schedule.Query, resolver *clinic.Resolver, mailer notify.Mailer, logger *zap.Logger) {
	start := time.Now()
	tomorrow := jtime.DateOf(time.Now()).AddDays(1)

	tenants, err := lister.Tenants(ctx)
	if err != nil {
		logger.Error("list tenants failed", zap.Error(err))
		return
	}

	sent := 0
	for _, tenant := range tenants {
		appts, err := query.ByDate(ctx, tenant, tomorrow)
		if err != nil {
			logger.Error("load appointments failed",
				zap.String("tenant", tenant),
				zap.Error(err))
			continue
		}

		clinicName := resolver.Get(ctx, tenant).ClinicName
		for _, appt := range appts {
			if appt.PatientEmail == "" {
				continue
			}

			mail := notify.BookingMail{
				To:          appt.PatientEmail,
				ClinicName:  clinicName,
				PatientName: appt.PatientName,
				Date:        appt.Date,
				Time:        appt.Time,
			}
			if err := mailer.SendReminder(ctx, mail); err != nil {
				logger.Warn("reminder mail failed",
					zap.String("tenant", tenant),
					zap.String("date", appt.Date),
					zap.String("time", appt.Time),
					zap.Error(err))
				continue
			}
			sent++
		}
	}

	logger.Info("reminder run complete",
		zap.String("date", tomorrow.String()),
		zap.Int("tenants", len(tenants)),
		zap.Int("sent", sent),
		zap.Duration("took", time.Since(start)))
}

func newLogger(env string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "dev" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return logger
}

func buildStore(ctx context.Context, cfg config.Config) (sheet.Store, tenantLister, func(), error) {
	switch cfg.StoreBackend {
	case "postgres":
		pgCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		pool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		store := sheet.NewPgStore(pool)
		return store, store, pool.Close, nil
	default:
		store := sheet.NewExcelStore(cfg.DataDir)
		return store, store, func() {}, nil
	}
}
