package checkout

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mnavarro-dev/storefront-backend/pkg/config"
	"github.com/mnavarro-dev/storefront-backend/pkg/enums"
	pkgerrors "github.com/mnavarro-dev/storefront-backend/pkg/errors"
	"github.com/mnavarro-dev/storefront-backend/pkg/logger"
	"github.com/mnavarro-dev/storefront-backend/pkg/types"
)

func newTestService(t *testing.T, policy string, provider *stubLocation) (Service, *stubCarts, *stubSubmitter) {
	t.Helper()

	carts := &stubCarts{lines: cartWithHeadphones()}
	submitter := &stubSubmitter{accepted: true}
	svc, err := NewService(
		config.LocationConfig{Policy: policy, EnableHighAccuracy: true, Timeout: 2 * time.Second},
		provider,
		carts,
		submitter,
		&stubNotifier{},
		&stubOrderLog{},
		nil,
		logger.New(logger.Options{ServiceName: "test"}),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, carts, submitter
}

func TestServiceOpenAndStatus(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t, "lenient", &stubLocation{})
	sessionID := uuid.New()

	status, err := svc.Open(context.Background(), sessionID, "+15550001111", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if status.State != enums.CheckoutStateIdle {
		t.Fatalf("fresh session should be idle, got %v", status.State)
	}
	if status.Form.CustomerPhone != "+15550001111" {
		t.Fatalf("form should default the session phone, got %q", status.Form.CustomerPhone)
	}

	got, err := svc.Status(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if got.ID != status.ID {
		t.Fatalf("status should address the open session")
	}
}

func TestServiceStatusWithoutOpenSession(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t, "lenient", &stubLocation{})

	_, err := svc.Status(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceReopenDismissesPreviousSession(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t, "lenient", &stubLocation{})
	sessionID := uuid.New()

	first, err := svc.Open(context.Background(), sessionID, "+15550001111", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	second, err := svc.Open(context.Background(), sessionID, "+15550001111", nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("reopen should mint a new session id")
	}

	current, err := svc.Status(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if current.ID != second.ID {
		t.Fatalf("status should address the latest session")
	}
}

func TestServiceOpenWithPrefetchPolicyWarmsProvider(t *testing.T) {
	t.Parallel()

	provider := &stubLocation{point: &types.GeoPoint{Latitude: 1, Longitude: 2}}
	svc, _, _ := newTestService(t, "prefetch", provider)

	if _, err := svc.Open(context.Background(), uuid.New(), "+15550001111", nil); err != nil {
		t.Fatalf("open: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&provider.calls) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if atomic.LoadInt32(&provider.calls) == 0 {
		t.Fatalf("prefetch policy should start acquisition at open")
	}
}

func TestServiceOpenWithStrictPolicyDoesNotPrefetch(t *testing.T) {
	t.Parallel()

	provider := &stubLocation{point: &types.GeoPoint{Latitude: 1, Longitude: 2}}
	svc, _, _ := newTestService(t, "strict", provider)

	if _, err := svc.Open(context.Background(), uuid.New(), "+15550001111", nil); err != nil {
		t.Fatalf("open: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if atomic.LoadInt32(&provider.calls) != 0 {
		t.Fatalf("strict policy must not acquire before submit")
	}
}

func TestServiceCloseRemovesSession(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t, "lenient", &stubLocation{})
	sessionID := uuid.New()

	if _, err := svc.Open(context.Background(), sessionID, "+15550001111", nil); err != nil {
		t.Fatalf("open: %v", err)
	}
	status, err := svc.Close(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if !status.Closed {
		t.Fatalf("close should report a closed session")
	}

	if _, err := svc.Status(context.Background(), sessionID); err == nil {
		t.Fatalf("status after close should fail")
	}
	if _, err := svc.Close(context.Background(), sessionID); err == nil {
		t.Fatalf("double close should fail")
	}
}

func TestServiceRejectsUnknownPolicy(t *testing.T) {
	t.Parallel()

	_, err := NewService(
		config.LocationConfig{Policy: "psychic"},
		&stubLocation{},
		&stubCarts{},
		&stubSubmitter{},
		&stubNotifier{},
		&stubOrderLog{},
		nil,
		logger.New(logger.Options{ServiceName: "test"}),
	)
	if err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}

func TestServiceSubmitEndToEnd(t *testing.T) {
	t.Parallel()

	svc, carts, submitter := newTestService(t, "strict", &stubLocation{point: &types.GeoPoint{Latitude: 12.34, Longitude: 56.78}})
	sessionID := uuid.New()

	if _, err := svc.Open(context.Background(), sessionID, "+15550001111", nil); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := svc.UpdateForm(context.Background(), sessionID, FormPatch{CustomerName: str("Ada")}); err != nil {
		t.Fatalf("update form: %v", err)
	}

	status, err := svc.Submit(context.Background(), sessionID, nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if status.State != enums.CheckoutStateSucceeded {
		t.Fatalf("expected succeeded, got %v", status.State)
	}
	if submitter.callCount() != 1 {
		t.Fatalf("expected one submission, got %d", submitter.callCount())
	}
	if !carts.wasCleared() {
		t.Fatalf("accepted submission should clear the cart")
	}
}
