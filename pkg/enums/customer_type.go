package enums

import "fmt"

// CustomerType classifies the customer placing an order request.
type CustomerType string

const (
	CustomerTypeOnline    CustomerType = "Online"
	CustomerTypeWholesale CustomerType = "Wholesale"
	CustomerTypeRetail    CustomerType = "Retail"
	CustomerTypeCorporate CustomerType = "Corporate"
)

var validCustomerTypes = []CustomerType{
	CustomerTypeOnline,
	CustomerTypeWholesale,
	CustomerTypeRetail,
	CustomerTypeCorporate,
}

// String implements fmt.Stringer.
func (c CustomerType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CustomerType.
func (c CustomerType) IsValid() bool {
	for _, candidate := range validCustomerTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCustomerType converts raw input into a CustomerType.
func ParseCustomerType(value string) (CustomerType, error) {
	for _, candidate := range validCustomerTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer type %q", value)
}

// CustomerTypes lists every valid classification, Online first (the default).
func CustomerTypes() []CustomerType {
	out := make([]CustomerType, len(validCustomerTypes))
	copy(out, validCustomerTypes)
	return out
}
