package checkout

import (
	"strings"

	"github.com/mnavarro-dev/storefront-backend/pkg/enums"
	pkgerrors "github.com/mnavarro-dev/storefront-backend/pkg/errors"
)

// Form holds the customer fields entered in the checkout view. A fresh form
// is created each time checkout opens; only the phone carries over, defaulted
// from the authenticated session.
type Form struct {
	CustomerName  string             `json:"customerName"`
	CustomerPhone string             `json:"customerPhone"`
	CustomerType  enums.CustomerType `json:"customerType"`
}

// NewForm builds the initial form for a checkout open.
func NewForm(sessionPhone string) Form {
	return Form{
		CustomerPhone: strings.TrimSpace(sessionPhone),
		CustomerType:  enums.CustomerTypeOnline,
	}
}

// FormPatch carries partial field edits. Nil fields are left untouched.
type FormPatch struct {
	CustomerName  *string `json:"customerName" validate:"omitempty,max=120"`
	CustomerPhone *string `json:"customerPhone" validate:"omitempty,max=32"`
	CustomerType  *string `json:"customerType" validate:"omitempty"`
}

// Apply merges the patch into the form.
func (f *Form) Apply(patch FormPatch) error {
	if patch.CustomerName != nil {
		f.CustomerName = *patch.CustomerName
	}
	if patch.CustomerPhone != nil {
		f.CustomerPhone = *patch.CustomerPhone
	}
	if patch.CustomerType != nil {
		parsed, err := enums.ParseCustomerType(*patch.CustomerType)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer type")
		}
		f.CustomerType = parsed
	}
	return nil
}

// Validate enforces the submit preconditions: name and phone non-empty after
// trimming. Failures never reach the network.
func (f Form) Validate() error {
	if strings.TrimSpace(f.CustomerName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(f.CustomerPhone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}
	if !f.CustomerType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid customer type")
	}
	return nil
}
