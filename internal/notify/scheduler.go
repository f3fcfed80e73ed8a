package notify

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fruettli/hauskal/internal/dateutil"
	"github.com/fruettli/hauskal/internal/model"
	"github.com/fruettli/hauskal/internal/store"
)

type Sender interface {
	Send(sub *model.PushSubscription, payload Payload) error
}

// Scheduler runs the daily due-reminder check. Once per day it pushes one
// digest for reminders due today and one for everything overdue, deduplicated
// through the notification log so restarts never double-send.
type Scheduler struct {
	cron      *cron.Cron
	sender    Sender
	push      *store.PushStore
	reminders *store.ReminderStore
	norm      *dateutil.Normalizer
	logger    *slog.Logger
}

func NewScheduler(sender Sender, pushStore *store.PushStore, reminderStore *store.ReminderStore, norm *dateutil.Normalizer, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(norm.Location())),
		sender:    sender,
		push:      pushStore,
		reminders: reminderStore,
		norm:      norm,
		logger:    logger.With("component", "notify"),
	}
}

// Start registers the daily job at the given HH:MM local time and starts the
// cron loop.
func (s *Scheduler) Start(dailyAt string) error {
	spec, err := dailySpec(dailyAt)
	if err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(spec, s.runDaily); err != nil {
		return fmt.Errorf("schedule daily check: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runDaily() {
	if err := s.RunOnce(time.Now()); err != nil {
		s.logger.Error("daily notification check failed", "error", err)
	}
}

// RunOnce performs one due-reminder check as of the given time. Exposed so
// tests and a manual trigger endpoint can drive it without the cron loop.
func (s *Scheduler) RunOnce(now time.Time) error {
	today := s.norm.FormatLocal(now)
	tomorrow, err := s.norm.ParseDay(today)
	if err != nil {
		return fmt.Errorf("parse today: %w", err)
	}
	tomorrow = tomorrow.AddDate(0, 0, 1)

	open, err := s.reminders.ListOpenDueBefore(tomorrow)
	if err != nil {
		return fmt.Errorf("list open reminders: %w", err)
	}

	var dueToday, overdue []model.Reminder
	for _, r := range open {
		day := s.norm.Normalize(r.DueDate)
		switch {
		case day == today:
			dueToday = append(dueToday, r)
		case day != "" && day < today:
			overdue = append(overdue, r)
		}
	}

	if err := s.sendDigest(model.NotifTypeDueToday, today, dueToday,
		"Heute fällig", "/calendar"); err != nil {
		return err
	}
	return s.sendDigest(model.NotifTypeOverdue, today, overdue,
		"Überfällig", "/calendar")
}

func (s *Scheduler) sendDigest(notifType, today string, reminders []model.Reminder, title, url string) error {
	if len(reminders) == 0 {
		return nil
	}

	refID := "daily"
	sent, err := s.push.WasSent(notifType, refID, today)
	if err != nil {
		return fmt.Errorf("check notification log: %w", err)
	}
	if sent {
		return nil
	}

	body := fmt.Sprintf("%s: %s", title, reminders[0].Title)
	if len(reminders) > 1 {
		body = fmt.Sprintf("%s: %d Einträge, z.B. %s", title, len(reminders), reminders[0].Title)
	}

	subs, err := s.push.List()
	if err != nil {
		return fmt.Errorf("list subscriptions: %w", err)
	}

	payload := Payload{Title: title, Body: body, URL: url, Tag: notifType}
	for i := range subs {
		if err := s.sender.Send(&subs[i], payload); err != nil {
			if errors.Is(err, ErrExpired) {
				if err := s.push.DeleteByEndpoint(subs[i].Endpoint); err != nil {
					s.logger.Error("drop expired subscription", "error", err)
				}
				continue
			}
			s.logger.Error("send push", "endpoint", subs[i].Endpoint, "error", err)
		}
	}

	return s.push.MarkSent(notifType, refID, today)
}

func dailySpec(timeStr string) (string, error) {
	t, err := time.Parse("15:04", timeStr)
	if err != nil {
		return "", fmt.Errorf("invalid daily time %q, expected HH:MM: %w", timeStr, err)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}
