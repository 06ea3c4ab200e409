package common

import (
	"strings"
	"tourbook/src/domain"
	"tourbook/src/types"
)

// ValidateProfile checks the checkout profile form. Every failing field is
// reported; nothing is sent anywhere.
func ValidateProfile(body *types.ProfileRequestBody) error {
	var errs domain.ValidationErrors
	if strings.TrimSpace(body.FirstName) == "" {
		errs = append(errs, domain.ValidationError{Field: "firstName", Msg: "First name is required"})
	}
	if strings.TrimSpace(body.LastName) == "" {
		errs = append(errs, domain.ValidationError{Field: "lastName", Msg: "Last name is required"})
	}
	if strings.Count(body.Email, "@") != 1 {
		errs = append(errs, domain.ValidationError{Field: "email", Msg: "Email must contain a single @"})
	}
	if strings.TrimSpace(body.PhoneNumber) == "" {
		errs = append(errs, domain.ValidationError{Field: "phoneNumber", Msg: "Phone number is required"})
	}
	if !strings.HasPrefix(body.PhonePrefix, "+") || strings.Count(body.PhonePrefix, "+") != 1 {
		errs = append(errs, domain.ValidationError{Field: "phonePrefix", Msg: "Phone prefix must start with a single +"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
