package location

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/mnavarro-dev/storefront-backend/pkg/enums"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func resolverWithResponse(fn roundTripFunc) *ResolverClient {
	return NewResolverClient("https://resolver.example.com", "resolver-key",
		WithResolverHTTPClient(&http.Client{Transport: fn}))
}

func resolverResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestResolverAcquire(t *testing.T) {
	t.Parallel()

	client := resolverWithResponse(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost || req.URL.Path != "/resolve" {
			t.Errorf("unexpected request %s %s", req.Method, req.URL.Path)
		}
		if got := req.Header.Get("Authorization"); got != "Bearer resolver-key" {
			t.Errorf("expected bearer auth, got %q", got)
		}
		var payload struct {
			HighAccuracy bool  `json:"highAccuracy"`
			MaximumAgeMs int64 `json:"maximumAgeMs"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if !payload.HighAccuracy || payload.MaximumAgeMs != 60000 {
			t.Errorf("unexpected payload %+v", payload)
		}
		return resolverResponse(http.StatusOK, `{"latitude":12.34,"longitude":56.78}`), nil
	})

	point, err := client.Acquire(context.Background(), Options{
		EnableHighAccuracy: true,
		Timeout:            5 * time.Second,
		MaximumAge:         time.Minute,
	})
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if point.Latitude != 12.34 || point.Longitude != 56.78 {
		t.Fatalf("unexpected point %+v", point)
	}
}

func TestResolverAcquireDenied(t *testing.T) {
	t.Parallel()

	client := resolverWithResponse(func(req *http.Request) (*http.Response, error) {
		return resolverResponse(http.StatusForbidden, `{}`), nil
	})

	_, err := client.Acquire(context.Background(), DefaultOptions())
	fail := FailureFrom(err)
	if fail == nil || fail.Reason != enums.LocationFailureDenied {
		t.Fatalf("expected denied failure, got %v", err)
	}
}

func TestResolverAcquireServerError(t *testing.T) {
	t.Parallel()

	client := resolverWithResponse(func(req *http.Request) (*http.Response, error) {
		return resolverResponse(http.StatusBadGateway, `oops`), nil
	})

	_, err := client.Acquire(context.Background(), DefaultOptions())
	fail := FailureFrom(err)
	if fail == nil || fail.Reason != enums.LocationFailureUnavailable {
		t.Fatalf("expected unavailable failure, got %v", err)
	}
}

func TestResolverAcquireRejectsBadCoordinates(t *testing.T) {
	t.Parallel()

	client := resolverWithResponse(func(req *http.Request) (*http.Response, error) {
		return resolverResponse(http.StatusOK, `{"latitude":300,"longitude":0}`), nil
	})

	_, err := client.Acquire(context.Background(), DefaultOptions())
	fail := FailureFrom(err)
	if fail == nil || fail.Reason != enums.LocationFailureUnavailable {
		t.Fatalf("expected unavailable for invalid coordinates, got %v", err)
	}
}

func TestResolverUnconfigured(t *testing.T) {
	t.Parallel()

	client := NewResolverClient("", "")
	_, err := client.Acquire(context.Background(), DefaultOptions())
	fail := FailureFrom(err)
	if fail == nil || fail.Reason != enums.LocationFailureUnavailable {
		t.Fatalf("expected unavailable when unconfigured, got %v", err)
	}
}
