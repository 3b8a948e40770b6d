package enums

import "fmt"

// CheckoutState tracks where a checkout attempt sits in its submission lifecycle.
type CheckoutState string

const (
	CheckoutStateIdle              CheckoutState = "idle"
	CheckoutStateValidating        CheckoutState = "validating"
	CheckoutStateAcquiringLocation CheckoutState = "acquiring_location"
	CheckoutStateSubmitting        CheckoutState = "submitting"
	CheckoutStateSucceeded         CheckoutState = "succeeded"
	CheckoutStateLocationError     CheckoutState = "location_error"
	CheckoutStateSubmissionFailed  CheckoutState = "submission_failed"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateIdle,
	CheckoutStateValidating,
	CheckoutStateAcquiringLocation,
	CheckoutStateSubmitting,
	CheckoutStateSucceeded,
	CheckoutStateLocationError,
	CheckoutStateSubmissionFailed,
}

// String implements fmt.Stringer.
func (c CheckoutState) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutState.
func (c CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == c {
			return true
		}
	}
	return false
}

// InFlight reports whether a submission attempt is currently running.
// A new submit is a no-op while the attempt is in flight.
func (c CheckoutState) InFlight() bool {
	switch c {
	case CheckoutStateValidating, CheckoutStateAcquiringLocation, CheckoutStateSubmitting:
		return true
	default:
		return false
	}
}

// ParseCheckoutState converts raw input into a CheckoutState.
func ParseCheckoutState(value string) (CheckoutState, error) {
	for _, candidate := range validCheckoutStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout state %q", value)
}
