package cart

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mnavarro-dev/storefront-backend/pkg/db/models"
	"github.com/mnavarro-dev/storefront-backend/pkg/enums"
	pkgerrors "github.com/mnavarro-dev/storefront-backend/pkg/errors"
	"github.com/mnavarro-dev/storefront-backend/pkg/types"
	"gorm.io/gorm"
)

type memoryRepo struct {
	rows map[uuid.UUID][]models.CartLine
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[uuid.UUID][]models.CartLine{}}
}

func (r *memoryRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *memoryRepo) FindBySession(ctx context.Context, sessionID uuid.UUID) ([]models.CartLine, error) {
	out := make([]models.CartLine, len(r.rows[sessionID]))
	copy(out, r.rows[sessionID])
	return out, nil
}

func (r *memoryRepo) ReplaceForSession(ctx context.Context, sessionID uuid.UUID, lines []models.CartLine) error {
	stored := make([]models.CartLine, len(lines))
	copy(stored, lines)
	r.rows[sessionID] = stored
	return nil
}

func (r *memoryRepo) DeleteForSession(ctx context.Context, sessionID uuid.UUID) error {
	delete(r.rows, sessionID)
	return nil
}

type passthroughTx struct{}

func (passthroughTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type recordingNotifier struct {
	messages []string
	kinds    []enums.AlertKind
}

func (n *recordingNotifier) Notify(ctx context.Context, sessionID uuid.UUID, kind enums.AlertKind, message string) {
	n.kinds = append(n.kinds, kind)
	n.messages = append(n.messages, message)
}

func newTestService(t *testing.T) (Service, *memoryRepo, *recordingNotifier) {
	t.Helper()
	repo := newMemoryRepo()
	notifier := &recordingNotifier{}
	svc, err := NewService(repo, passthroughTx{}, notifier)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, notifier
}

func TestServiceAddPersistsAndNotifies(t *testing.T) {
	t.Parallel()

	svc, repo, notifier := newTestService(t)
	sessionID := uuid.New()

	snapshot, err := svc.Add(context.Background(), sessionID, headphones())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if snapshot.ItemCount != 1 {
		t.Fatalf("expected item count 1, got %d", snapshot.ItemCount)
	}

	stored := repo.rows[sessionID]
	if len(stored) != 1 || stored[0].ProductID != "1" || stored[0].OfferPrice != 129.99 {
		t.Fatalf("unexpected stored rows %+v", stored)
	}

	if len(notifier.messages) != 1 || !strings.Contains(notifier.messages[0], "Premium Wireless Headphones") {
		t.Fatalf("expected confirmation naming the product, got %v", notifier.messages)
	}
	if notifier.kinds[0] != enums.AlertKindSuccess {
		t.Fatalf("expected success alert, got %v", notifier.kinds[0])
	}
}

func TestServiceAddMergesAcrossCalls(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	sessionID := uuid.New()

	if _, err := svc.Add(context.Background(), sessionID, headphones()); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.SetOfferPrice(context.Background(), sessionID, "1", 100); err != nil {
		t.Fatalf("set offer: %v", err)
	}
	snapshot, err := svc.Add(context.Background(), sessionID, headphones())
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if len(snapshot.Lines) != 1 || snapshot.Lines[0].Quantity != 2 {
		t.Fatalf("expected merged line with quantity 2, got %+v", snapshot.Lines)
	}
	if snapshot.Lines[0].OfferPrice != 100 {
		t.Fatalf("offer price lost across adds: %v", snapshot.Lines[0].OfferPrice)
	}
	if snapshot.ListTotal != 259.98 || snapshot.OfferTotal != 200 {
		t.Fatalf("unexpected totals %+v", snapshot)
	}
}

func TestServiceValidation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)

	if _, err := svc.Add(context.Background(), uuid.Nil, headphones()); err == nil {
		t.Fatalf("expected error for nil session id")
	}
	if _, err := svc.Add(context.Background(), uuid.New(), types.Product{}); err == nil {
		t.Fatalf("expected error for empty product id")
	}
	_, err := svc.Add(context.Background(), uuid.New(), types.Product{ID: "x", Price: -1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceClear(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService(t)
	sessionID := uuid.New()

	if _, err := svc.Add(context.Background(), sessionID, headphones()); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Clear(context.Background(), sessionID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(repo.rows[sessionID]) != 0 {
		t.Fatalf("expected empty cart after clear")
	}

	snapshot, err := svc.Get(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if snapshot.ItemCount != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snapshot)
	}
}
