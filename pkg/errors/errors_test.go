package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesChain(t *testing.T) {
	t.Parallel()

	root := errors.New("connection refused")
	wrapped := Wrap(CodeDependency, root, "submit order")

	if wrapped.Code() != CodeDependency {
		t.Fatalf("unexpected code %v", wrapped.Code())
	}
	if !errors.Is(wrapped, root) {
		t.Fatalf("wrapped error must unwrap to the root cause")
	}
	if got := wrapped.Error(); got != "DEPENDENCY_ERROR: submit order" {
		t.Fatalf("unexpected message %q", got)
	}
	if wrapped.Message() != "submit order" {
		t.Fatalf("unexpected message %q", wrapped.Message())
	}
}

func TestAsFindsTypedError(t *testing.T) {
	t.Parallel()

	typed := New(CodeValidation, "cart is empty")
	carried := fmt.Errorf("outer: %w", typed)

	found := As(carried)
	if found == nil || found.Code() != CodeValidation {
		t.Fatalf("expected typed error through the chain, got %v", found)
	}
	if As(errors.New("plain")) != nil {
		t.Fatalf("plain errors must not match")
	}
	if As(nil) != nil {
		t.Fatalf("nil must not match")
	}
}

func TestWithDetails(t *testing.T) {
	t.Parallel()

	err := New(CodeLocation, "location acquisition failed").
		WithDetails(map[string]string{"reason": "denied"})
	details, ok := err.Details().(map[string]string)
	if !ok || details["reason"] != "denied" {
		t.Fatalf("unexpected details %v", err.Details())
	}
}

func TestMetadataFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeNotFound, http.StatusNotFound},
		{CodeStateConflict, http.StatusUnprocessableEntity},
		{CodeLocation, http.StatusFailedDependency},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeDependency, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
		{Code("UNKNOWN_CODE"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("code %s: expected %d, got %d", tc.code, tc.status, got)
		}
	}
}

func TestLocationErrorsAreRetryable(t *testing.T) {
	t.Parallel()

	if !MetadataFor(CodeLocation).Retryable {
		t.Fatalf("location failures must be retryable")
	}
	if MetadataFor(CodeValidation).Retryable {
		t.Fatalf("validation failures must not be retryable")
	}
}

func TestDump(t *testing.T) {
	t.Parallel()

	root := errors.New("socket closed")
	err := Wrap(CodeDependency, root, "fetch catalog")

	dumped := Dump(err)
	if dumped.Code != string(CodeDependency) {
		t.Fatalf("unexpected dumped code %q", dumped.Code)
	}
	if len(dumped.Chain) == 0 {
		t.Fatalf("expected the cause chain to be captured")
	}
}
