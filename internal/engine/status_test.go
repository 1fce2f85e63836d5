package engine

import (
	"testing"

	"github.com/repario/server/internal/errors"
	"github.com/repario/server/internal/models"
)

func TestEnsureDefaultsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	e := NewStatusEngine(db)

	for i := 0; i < 3; i++ {
		if err := e.EnsureDefaults(userID); err != nil {
			t.Fatalf("ensure defaults (run %d): %v", i, err)
		}
	}

	var count int64
	db.Model(&models.StatusSetting{}).Where("user_id = ?", userID).Count(&count)
	if count != 4 {
		t.Fatalf("expected exactly 4 settings, got %d", count)
	}
}

func TestListMaterializesDefaultsInOrder(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	e := NewStatusEngine(db)

	settings, err := e.List(userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(settings) != 4 {
		t.Fatalf("expected 4 settings, got %d", len(settings))
	}
	for i, status := range models.AllStatuses {
		if settings[i].Status != status {
			t.Fatalf("expected %s at position %d, got %s", status, i, settings[i].Status)
		}
	}
	if settings[0].DefaultMessage == "" {
		t.Fatal("expected a seeded default message")
	}
	if !settings[0].AllowExtraNote {
		t.Fatal("expected allow_extra_note on by default")
	}
	if settings[0].SendWhatsApp {
		t.Fatal("expected send_whatsapp off by default")
	}
}

func TestGetSelfHeals(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	e := NewStatusEngine(db)

	// No List/Ensure has run; a direct read still materializes the row
	setting, err := e.Get(userID, models.StatusDone)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if setting.Status != models.StatusDone {
		t.Fatalf("expected done setting, got %s", setting.Status)
	}
}

func TestGetRejectsUnknownStatus(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	e := NewStatusEngine(db)

	_, err := e.Get(userID, "archived")
	if _, ok := err.(*errors.ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUpdateStatusSetting(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	e := NewStatusEngine(db)

	message := "Your repair is ready for pickup."
	send := true
	updated, err := e.Update(userID, models.StatusDone, StatusSettingInput{
		DefaultMessage: &message,
		SendWhatsApp:   &send,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.DefaultMessage != message {
		t.Fatalf("expected message updated, got %q", updated.DefaultMessage)
	}
	if !updated.SendWhatsApp {
		t.Fatal("expected send_whatsapp enabled")
	}
	// Untouched field keeps its default
	if !updated.AllowExtraNote {
		t.Fatal("expected allow_extra_note untouched")
	}

	// The flag must land in the send_whatsapp column the model declares
	var count int64
	if err := db.Model(&models.StatusSetting{}).
		Where("user_id = ? AND send_whatsapp = ?", userID, true).
		Count(&count).Error; err != nil {
		t.Fatalf("count by column: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one row with send_whatsapp set, got %d", count)
	}

	// Other statuses are unaffected
	pending, err := e.Get(userID, models.StatusPending)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if pending.SendWhatsApp {
		t.Fatal("expected pending setting unaffected")
	}
}

func TestStatusSettingsScopedToUser(t *testing.T) {
	db := setupTestDB(t)
	userA := createTestUser(t, db)
	userB := createTestUser(t, db)
	e := NewStatusEngine(db)

	message := "Custom for A"
	if _, err := e.Update(userA, models.StatusPending, StatusSettingInput{DefaultMessage: &message}); err != nil {
		t.Fatalf("update: %v", err)
	}

	b, err := e.Get(userB, models.StatusPending)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if b.DefaultMessage == message {
		t.Fatal("expected user B to keep the stock message")
	}
}
