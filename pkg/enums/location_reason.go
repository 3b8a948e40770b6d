package enums

import "fmt"

// LocationFailureReason distinguishes why a position fix could not be obtained.
// The distinction only matters for user messaging; every reason is recoverable.
type LocationFailureReason string

const (
	LocationFailureDenied      LocationFailureReason = "denied"
	LocationFailureUnavailable LocationFailureReason = "unavailable"
	LocationFailureTimeout     LocationFailureReason = "timeout"
)

var validLocationFailureReasons = []LocationFailureReason{
	LocationFailureDenied,
	LocationFailureUnavailable,
	LocationFailureTimeout,
}

// String implements fmt.Stringer.
func (r LocationFailureReason) String() string {
	return string(r)
}

// IsValid reports whether the value is a known LocationFailureReason.
func (r LocationFailureReason) IsValid() bool {
	for _, candidate := range validLocationFailureReasons {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseLocationFailureReason converts raw input into a LocationFailureReason.
func ParseLocationFailureReason(value string) (LocationFailureReason, error) {
	for _, candidate := range validLocationFailureReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid location failure reason %q", value)
}
