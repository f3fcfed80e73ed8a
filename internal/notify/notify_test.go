package notify

import (
	"encoding/base64"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/fruettli/hauskal/internal/database"
	"github.com/fruettli/hauskal/internal/dateutil"
	"github.com/fruettli/hauskal/internal/model"
	"github.com/fruettli/hauskal/internal/store"
)

func TestGenerateVAPIDKeys(t *testing.T) {
	pub, priv, err := GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("generate VAPID keys: %v", err)
	}

	// Public key is a base64url-encoded uncompressed P-256 point.
	pubBytes, err := base64.RawURLEncoding.DecodeString(pub)
	if err != nil {
		t.Fatalf("decode public key: %v", err)
	}
	if len(pubBytes) != 65 {
		t.Errorf("public key length = %d, want 65", len(pubBytes))
	}

	privBytes, err := base64.RawURLEncoding.DecodeString(priv)
	if err != nil {
		t.Fatalf("decode private key: %v", err)
	}
	if len(privBytes) != 32 {
		t.Errorf("private key length = %d, want 32", len(privBytes))
	}

	pub2, _, _ := GenerateVAPIDKeys()
	if pub == pub2 {
		t.Error("expected different keys on second generation")
	}
}

type recordingSender struct {
	payloads []Payload
	err      error
}

func (r *recordingSender) Send(sub *model.PushSubscription, payload Payload) error {
	if r.err != nil {
		return r.err
	}
	r.payloads = append(r.payloads, payload)
	return nil
}

func setupSchedulerTest(t *testing.T) (*Scheduler, *recordingSender, *store.ReminderStore, *store.PushStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	reminders := store.NewReminderStore(db)
	push := store.NewPushStore(db)
	sender := &recordingSender{}
	norm := dateutil.New(time.UTC)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewScheduler(sender, push, reminders, norm, logger), sender, reminders, push
}

func TestRunOnceSendsDigests(t *testing.T) {
	s, sender, reminders, push := setupSchedulerTest(t)

	if _, err := push.Save(model.PushSubscription{
		Endpoint: "https://push.example.com/sub/1", P256dhKey: "k", AuthKey: "a",
	}); err != nil {
		t.Fatalf("save subscription: %v", err)
	}

	now := time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC)
	for _, r := range []model.Reminder{
		{Title: "Heute", Type: model.ReminderAufgabe, DueDate: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)},
		{Title: "Alt", Type: model.ReminderZahlung, DueDate: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
		{Title: "Später", Type: model.ReminderAufgabe, DueDate: time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)},
	} {
		if _, err := reminders.Create(r); err != nil {
			t.Fatalf("create reminder: %v", err)
		}
	}

	if err := s.RunOnce(now); err != nil {
		t.Fatalf("run once: %v", err)
	}

	if len(sender.payloads) != 2 {
		t.Fatalf("got %d pushes, want 2 (due-today + overdue)", len(sender.payloads))
	}
	tags := map[string]bool{}
	for _, p := range sender.payloads {
		tags[p.Tag] = true
	}
	if !tags[model.NotifTypeDueToday] || !tags[model.NotifTypeOverdue] {
		t.Errorf("tags = %v, want both digest types", tags)
	}
}

func TestRunOnceDedupsPerDay(t *testing.T) {
	s, sender, reminders, push := setupSchedulerTest(t)

	if _, err := push.Save(model.PushSubscription{
		Endpoint: "https://push.example.com/sub/1", P256dhKey: "k", AuthKey: "a",
	}); err != nil {
		t.Fatalf("save subscription: %v", err)
	}
	if _, err := reminders.Create(model.Reminder{
		Title: "Heute", Type: model.ReminderAufgabe,
		DueDate: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	now := time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC)
	if err := s.RunOnce(now); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := s.RunOnce(now.Add(time.Hour)); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(sender.payloads) != 1 {
		t.Errorf("got %d pushes, want 1 (same day is deduplicated)", len(sender.payloads))
	}

	// Next day sends again.
	if err := s.RunOnce(now.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("next-day run: %v", err)
	}
	if len(sender.payloads) != 2 {
		t.Errorf("got %d pushes, want 2 after day rollover", len(sender.payloads))
	}
}

func TestRunOnceNothingDueSendsNothing(t *testing.T) {
	s, sender, reminders, push := setupSchedulerTest(t)

	if _, err := push.Save(model.PushSubscription{
		Endpoint: "https://push.example.com/sub/1", P256dhKey: "k", AuthKey: "a",
	}); err != nil {
		t.Fatalf("save subscription: %v", err)
	}
	if _, err := reminders.Create(model.Reminder{
		Title: "Weit weg", Type: model.ReminderAufgabe,
		DueDate: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	if err := s.RunOnce(time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC)); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if len(sender.payloads) != 0 {
		t.Errorf("got %d pushes, want 0", len(sender.payloads))
	}
}

func TestDailySpec(t *testing.T) {
	spec, err := dailySpec("07:30")
	if err != nil {
		t.Fatalf("daily spec: %v", err)
	}
	if spec != "30 7 * * *" {
		t.Errorf("spec = %q, want %q", spec, "30 7 * * *")
	}

	if _, err := dailySpec("25:00"); err == nil {
		t.Error("expected error for invalid hour")
	}
	if _, err := dailySpec("nope"); err == nil {
		t.Error("expected error for garbage input")
	}
}
