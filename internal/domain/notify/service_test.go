package notify

import (
	"context"
	"testing"
	"time"

	"gameshelf-server-go/internal/domain/notify/store"
	platformtesting "gameshelf-server-go/internal/platform/testing"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st := store.NewMemory(store.Config{TTL: time.Hour})
	service, err := NewService(st, platformtesting.SetupTestLogger(t))
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}
	t.Cleanup(func() {
		_ = service.Close(context.Background())
	})
	return service
}

func TestServiceNotifyAssignsID(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t)

	first, err := service.Notify(ctx, "alice", "reservation.created", map[string]any{"code": "RES-1"})
	if err != nil {
		t.Fatalf("Notify error: %v", err)
	}
	second, err := service.Notify(ctx, "alice", "review.created", nil)
	if err != nil {
		t.Fatalf("Notify error: %v", err)
	}
	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("expected distinct generated ids, got %q and %q", first.ID, second.ID)
	}

	list, err := service.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(list))
	}

	if err := service.MarkRead(ctx, "alice", first.ID); err != nil {
		t.Fatalf("MarkRead error: %v", err)
	}
	if err := service.Remove(ctx, "alice", second.ID); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
}

func TestServiceNotifyValidation(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t)

	if _, err := service.Notify(ctx, "", "reservation.created", nil); err == nil {
		t.Fatal("expected error for empty subject")
	}
	if _, err := service.Notify(ctx, "alice", "", nil); err == nil {
		t.Fatal("expected error for empty kind")
	}
}
