package store

import (
	"testing"

	"github.com/fruettli/hauskal/internal/database"
)

func setupSettingsTestDB(t *testing.T) *SettingsStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSettingsStore(db)
}

func TestSettingsGetFallback(t *testing.T) {
	ss := setupSettingsTestDB(t)

	got, err := ss.Get("calendar_view", "month")
	if err != nil {
		t.Fatalf("get setting: %v", err)
	}
	if got != "month" {
		t.Errorf("got %q, want fallback month", got)
	}
}

func TestSettingsSetAndOverwrite(t *testing.T) {
	ss := setupSettingsTestDB(t)

	if err := ss.Set("language", "DE"); err != nil {
		t.Fatalf("set setting: %v", err)
	}
	if err := ss.Set("language", "EN"); err != nil {
		t.Fatalf("overwrite setting: %v", err)
	}

	got, err := ss.Get("language", "DE")
	if err != nil {
		t.Fatalf("get setting: %v", err)
	}
	if got != "EN" {
		t.Errorf("got %q, want EN", got)
	}

	all, err := ss.All()
	if err != nil {
		t.Fatalf("all settings: %v", err)
	}
	if len(all) != 1 || all["language"] != "EN" {
		t.Errorf("all = %v, want map with language=EN", all)
	}
}
