package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"garagelog/internal/config"
	"garagelog/internal/db"
	"garagelog/internal/notify"
)

// The notifier is a run-once job: point a scheduler (cron, systemd timer,
// or a platform job runner) at it.

func main() {
	if err := run(); err != nil {
		log.Fatalf("notifier failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if cfg.Env == "development" {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	reminders, err := store.ActiveReminders(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	due := notify.FilterDue(reminders, now)
	sugar.Infow("reminder scan", "active", len(reminders), "due", len(due))
	if len(due) == 0 {
		return nil
	}

	mailer := notify.NewMailer(cfg, sugar)

	for accountID, accountDue := range notify.GroupByAccount(due) {
		subs, err := store.ListSubscriptions(ctx, accountID, true)
		if err != nil {
			return err
		}
		to := make([]string, 0, len(subs))
		for _, sub := range subs {
			to = append(to, sub.Email)
		}
		if len(to) == 0 {
			sugar.Infow("no subscribers, skipping account", "account_id", accountID, "due", len(accountDue))
			continue
		}

		subject, body := notify.BuildEmail(accountDue)
		if err := mailer.Send(to, subject, body); err != nil {
			sugar.Errorw("send failed", "account_id", accountID, "err", err)
			continue
		}
		sugar.Infow("reminder email sent", "account_id", accountID, "recipients", len(to), "items", len(accountDue))

		if cfg.DryRun {
			continue
		}
		for _, d := range accountDue {
			r := d.Reminder
			if notify.Advance(&r, d.CurrentMileage, now) {
				if err := store.UpdateReminder(ctx, &r); err != nil {
					sugar.Errorw("reminder advance failed", "reminder_id", r.ID, "err", err)
				}
			}
		}
	}
	return nil
}
