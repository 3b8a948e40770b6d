package enums

import "fmt"

// AlertKind is the severity of a transient user-visible notification.
type AlertKind string

const (
	AlertKindSuccess AlertKind = "success"
	AlertKindError   AlertKind = "error"
	AlertKindInfo    AlertKind = "info"
)

var validAlertKinds = []AlertKind{
	AlertKindSuccess,
	AlertKindError,
	AlertKindInfo,
}

// String implements fmt.Stringer.
func (a AlertKind) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AlertKind.
func (a AlertKind) IsValid() bool {
	for _, candidate := range validAlertKinds {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAlertKind converts raw input into an AlertKind.
func ParseAlertKind(value string) (AlertKind, error) {
	for _, candidate := range validAlertKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid alert kind %q", value)
}
