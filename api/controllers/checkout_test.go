package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	checkoutsvc "github.com/mnavarro-dev/storefront-backend/internal/checkout"
	"github.com/mnavarro-dev/storefront-backend/pkg/enums"
	pkgerrors "github.com/mnavarro-dev/storefront-backend/pkg/errors"
	"github.com/mnavarro-dev/storefront-backend/pkg/types"
)

type stubCheckoutService struct {
	status       checkoutsvc.Status
	err          error
	openedChatID *string
	submitPoint  *types.GeoPoint
	patch        checkoutsvc.FormPatch
	closed       bool
}

func (s *stubCheckoutService) Open(ctx context.Context, sessionID uuid.UUID, phone string, suppliedChatID *string) (checkoutsvc.Status, error) {
	s.openedChatID = suppliedChatID
	return s.status, s.err
}

func (s *stubCheckoutService) Status(ctx context.Context, sessionID uuid.UUID) (checkoutsvc.Status, error) {
	return s.status, s.err
}

func (s *stubCheckoutService) UpdateForm(ctx context.Context, sessionID uuid.UUID, patch checkoutsvc.FormPatch) (checkoutsvc.Status, error) {
	s.patch = patch
	return s.status, s.err
}

func (s *stubCheckoutService) Submit(ctx context.Context, sessionID uuid.UUID, devicePoint *types.GeoPoint) (checkoutsvc.Status, error) {
	s.submitPoint = devicePoint
	return s.status, s.err
}

func (s *stubCheckoutService) RetryLocation(ctx context.Context, sessionID uuid.UUID, devicePoint *types.GeoPoint) (checkoutsvc.Status, error) {
	s.submitPoint = devicePoint
	return s.status, s.err
}

func (s *stubCheckoutService) Close(ctx context.Context, sessionID uuid.UUID) (checkoutsvc.Status, error) {
	s.closed = true
	return s.status, s.err
}

func TestCheckoutOpen(t *testing.T) {
	stub := &stubCheckoutService{status: checkoutsvc.Status{ID: uuid.New(), State: enums.CheckoutStateIdle}}

	req := authedRequest(http.MethodPost, "/api/v1/checkout", "")
	req.Header.Set("X-Chat-Id", "chat-42")
	rec := httptest.NewRecorder()
	CheckoutOpen(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.openedChatID == nil || *stub.openedChatID != "chat-42" {
		t.Fatalf("expected chat id header forwarded, got %v", stub.openedChatID)
	}

	var envelope struct {
		Data checkoutsvc.Status `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.State != enums.CheckoutStateIdle {
		t.Fatalf("unexpected state %v", envelope.Data.State)
	}
}

func TestCheckoutOpenWithoutChatHeader(t *testing.T) {
	stub := &stubCheckoutService{}
	req := authedRequest(http.MethodPost, "/api/v1/checkout", "")
	rec := httptest.NewRecorder()
	CheckoutOpen(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if stub.openedChatID != nil {
		t.Fatalf("blank header should forward nil, got %v", stub.openedChatID)
	}
}

func TestCheckoutSubmitWithDeviceLocation(t *testing.T) {
	stub := &stubCheckoutService{status: checkoutsvc.Status{State: enums.CheckoutStateSucceeded}}

	req := authedRequest(http.MethodPost, "/api/v1/checkout/submit",
		`{"location":{"latitude":12.34,"longitude":56.78}}`)
	rec := httptest.NewRecorder()
	CheckoutSubmit(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.submitPoint == nil || stub.submitPoint.Latitude != 12.34 || stub.submitPoint.Longitude != 56.78 {
		t.Fatalf("expected device point forwarded, got %+v", stub.submitPoint)
	}
}

func TestCheckoutSubmitWithEmptyBody(t *testing.T) {
	stub := &stubCheckoutService{status: checkoutsvc.Status{State: enums.CheckoutStateSucceeded}}

	req := authedRequest(http.MethodPost, "/api/v1/checkout/submit", "")
	rec := httptest.NewRecorder()
	CheckoutSubmit(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.submitPoint != nil {
		t.Fatalf("empty body should forward a nil point, got %+v", stub.submitPoint)
	}
}

func TestCheckoutSubmitRejectsOutOfRangeCoordinates(t *testing.T) {
	stub := &stubCheckoutService{}

	req := authedRequest(http.MethodPost, "/api/v1/checkout/submit",
		`{"location":{"latitude":123.0,"longitude":0}}`)
	rec := httptest.NewRecorder()
	CheckoutSubmit(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCheckoutSubmitLocationFailureStatus(t *testing.T) {
	reason := enums.LocationFailureDenied
	stub := &stubCheckoutService{
		status: checkoutsvc.Status{State: enums.CheckoutStateLocationError, LocationFailure: &reason},
		err: pkgerrors.New(pkgerrors.CodeLocation, "location acquisition failed").
			WithDetails(map[string]string{"reason": reason.String()}),
	}

	req := authedRequest(http.MethodPost, "/api/v1/checkout/submit", "")
	rec := httptest.NewRecorder()
	CheckoutSubmit(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusFailedDependency {
		t.Fatalf("expected 424 for location failure, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != "LOCATION_ERROR" {
		t.Fatalf("unexpected error code %q", envelope.Error.Code)
	}
	if envelope.Error.Details["reason"] != "denied" {
		t.Fatalf("expected failure reason in details, got %v", envelope.Error.Details)
	}
}

func TestCheckoutUpdateForm(t *testing.T) {
	stub := &stubCheckoutService{}

	req := authedRequest(http.MethodPatch, "/api/v1/checkout/form",
		`{"customerName":"Ada","customerType":"Wholesale"}`)
	rec := httptest.NewRecorder()
	CheckoutUpdateForm(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.patch.CustomerName == nil || *stub.patch.CustomerName != "Ada" {
		t.Fatalf("expected name in patch, got %+v", stub.patch)
	}
	if stub.patch.CustomerType == nil || *stub.patch.CustomerType != "Wholesale" {
		t.Fatalf("expected type in patch, got %+v", stub.patch)
	}
	if stub.patch.CustomerPhone != nil {
		t.Fatalf("untouched fields must stay nil, got %+v", stub.patch)
	}
}

func TestCheckoutClose(t *testing.T) {
	stub := &stubCheckoutService{status: checkoutsvc.Status{Closed: true}}

	req := authedRequest(http.MethodDelete, "/api/v1/checkout", "")
	rec := httptest.NewRecorder()
	CheckoutClose(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !stub.closed {
		t.Fatalf("expected Close to be invoked")
	}
}

func TestCheckoutStatusNotFound(t *testing.T) {
	stub := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeNotFound, "no open checkout session")}

	req := authedRequest(http.MethodGet, "/api/v1/checkout", "")
	rec := httptest.NewRecorder()
	CheckoutStatus(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
