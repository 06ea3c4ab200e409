package domain

import (
	"errors"
	"fmt"
	"strings"
)

// TransportError is a failed or non-2xx round trip to the CMS.
type TransportError struct {
	Method string
	Path   string
	Status int
	Body   string
	Err    error
}

func (e TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, body)
}

func (e TransportError) Unwrap() error { return e.Err }

type AuthRequiredError struct{}

func (AuthRequiredError) Error() string { return "please login" }

type CredentialError struct {
	Err error
}

func (e CredentialError) Error() string { return "Fail to initiate login" }

func (e CredentialError) Unwrap() error { return e.Err }

type ForbiddenError struct {
	Msg string
}

func (e ForbiddenError) Error() string {
	if e.Msg == "" {
		return "forbidden"
	}
	return e.Msg
}

type EmptyCartError struct{}

func (EmptyCartError) Error() string { return "cart is empty" }

type ConfirmationRequiredError struct {
	Action string
}

func (e ConfirmationRequiredError) Error() string {
	if e.Action == "" {
		return "confirmation required"
	}
	return fmt.Sprintf("confirmation required to %s", e.Action)
}

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// ValidationErrors collects per-field failures of one form.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Fields maps each failing field to its message.
func (v ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for _, e := range v {
		out[e.Field] = e.Msg
	}
	return out
}

// StaleResponseError is returned for a catalog fetch superseded by a newer one.
type StaleResponseError struct {
	Seq    uint64
	Latest uint64
}

func (e StaleResponseError) Error() string {
	return fmt.Sprintf("stale response %d (latest %d)", e.Seq, e.Latest)
}

func IsTransport(err error) bool {
	var target TransportError
	return errors.As(err, &target)
}

// TransportStatus returns the CMS status code carried by err, or 0.
func TransportStatus(err error) int {
	var target TransportError
	if errors.As(err, &target) {
		return target.Status
	}
	return 0
}

func IsAuthRequired(err error) bool {
	var target AuthRequiredError
	return errors.As(err, &target)
}

func IsCredential(err error) bool {
	var target CredentialError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}

func IsEmptyCart(err error) bool {
	var target EmptyCartError
	return errors.As(err, &target)
}

func IsConfirmationRequired(err error) bool {
	var target ConfirmationRequiredError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var single ValidationError
	if errors.As(err, &single) {
		return true
	}
	var many ValidationErrors
	return errors.As(err, &many)
}

func IsStale(err error) bool {
	var target StaleResponseError
	return errors.As(err, &target)
}
