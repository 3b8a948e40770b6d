package enums

import (
	"fmt"
	"strings"
)

// LocationPolicy selects how checkout reacts to geolocation failures.
type LocationPolicy string

const (
	// LocationPolicyLenient submits with coordinates absent on any failure.
	LocationPolicyLenient LocationPolicy = "lenient"
	// LocationPolicyPrefetch acquires opportunistically at checkout open and
	// falls back to a lenient synchronous acquire at submit time.
	LocationPolicyPrefetch LocationPolicy = "prefetch"
	// LocationPolicyStrict blocks submission until a fix is obtained.
	LocationPolicyStrict LocationPolicy = "strict"
)

var validLocationPolicies = []LocationPolicy{
	LocationPolicyLenient,
	LocationPolicyPrefetch,
	LocationPolicyStrict,
}

// String implements fmt.Stringer.
func (p LocationPolicy) String() string {
	return string(p)
}

// IsValid reports whether the value is a known LocationPolicy.
func (p LocationPolicy) IsValid() bool {
	for _, candidate := range validLocationPolicies {
		if candidate == p {
			return true
		}
	}
	return false
}

// Blocking reports whether acquisition failure blocks submission.
func (p LocationPolicy) Blocking() bool {
	return p == LocationPolicyStrict
}

// Prefetches reports whether the policy acquires at checkout open.
func (p LocationPolicy) Prefetches() bool {
	return p == LocationPolicyPrefetch
}

// ParseLocationPolicy converts raw input into a LocationPolicy.
func ParseLocationPolicy(value string) (LocationPolicy, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validLocationPolicies {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid location policy %q", value)
}
