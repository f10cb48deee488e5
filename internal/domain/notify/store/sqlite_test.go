package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gameshelf-server-go/internal/domain/notify/model"
	"gameshelf-server-go/internal/platform/storage"
)

func newTestSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:notify-test-%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&storage.Notification{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func TestSQLiteStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	db := newTestSQLiteDB(t)

	store, err := NewSQLite(db, Config{TTL: time.Hour})
	if err != nil {
		t.Fatalf("NewSQLite error: %v", err)
	}

	notification := model.Notification{
		ID:      "n-1",
		Subject: "alice",
		Kind:    model.KindReservationCreated,
		Payload: map[string]any{"code": "RES-1", "boardgame": "Wingspan"},
	}
	if err := store.Add(ctx, notification); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	list, err := store.ListBySubject(ctx, "alice")
	if err != nil {
		t.Fatalf("ListBySubject error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(list))
	}
	if list[0].Payload["code"] != "RES-1" {
		t.Fatalf("payload did not round-trip: %+v", list[0].Payload)
	}
	if list[0].ExpiresAt == nil {
		t.Fatal("expected default expiry to be applied")
	}

	if err := store.MarkRead(ctx, "alice", "n-1"); err != nil {
		t.Fatalf("MarkRead error: %v", err)
	}
	list, _ = store.ListBySubject(ctx, "alice")
	if !list[0].Read() {
		t.Fatal("expected notification to be read")
	}

	if err := store.MarkRead(ctx, "alice", "missing"); err == nil {
		t.Fatal("expected MarkRead on missing id to fail")
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if stats["unread"].(int64) != 0 {
		t.Fatalf("unexpected stats: %v", stats)
	}

	if err := store.Remove(ctx, "alice", "n-1"); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if err := store.Remove(ctx, "alice", "n-1"); err == nil {
		t.Fatal("expected second Remove to fail")
	}
}

func TestSQLiteStoreCleanup(t *testing.T) {
	ctx := context.Background()
	db := newTestSQLiteDB(t)

	store, err := NewSQLite(db, Config{TTL: time.Hour})
	if err != nil {
		t.Fatalf("NewSQLite error: %v", err)
	}

	past := time.Now().Add(-time.Minute)
	expired := model.Notification{
		ID:        "old",
		Subject:   "alice",
		Kind:      model.KindReservationReturned,
		ExpiresAt: &past,
	}
	if err := store.Add(ctx, expired); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	list, err := store.ListBySubject(ctx, "alice")
	if err != nil {
		t.Fatalf("ListBySubject error: %v", err)
	}
	if len(list) != 0 {
		t.Fatal("expected expired notification to be hidden")
	}

	if err := store.CleanupExpired(ctx); err != nil {
		t.Fatalf("CleanupExpired error: %v", err)
	}
	var count int64
	if err := db.Model(&storage.Notification{}).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 0 {
		t.Fatal("expected expired row to be deleted")
	}
}
