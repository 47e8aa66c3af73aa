package bindings

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Field names reported in validation failures.
const (
	FieldPosition                = "position"
	FieldSupervisingOrganization = "supervising_organization"
)

var (
	ErrExtraneousAttribute      = errors.New("extraneous attribute")
	ErrMissingRequiredAttribute = errors.New("missing required attribute")
	ErrInvalidReference         = errors.New("invalid reference")
)

// Kind distinguishes the validation failure categories.
type Kind int

const (
	ExtraneousAttribute Kind = iota + 1
	MissingRequiredAttribute
	InvalidReference
)

func (k Kind) String() string {
	switch k {
	case ExtraneousAttribute:
		return "extraneous_attribute"
	case MissingRequiredAttribute:
		return "missing_required_attribute"
	case InvalidReference:
		return "invalid_reference"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case ExtraneousAttribute:
		return ErrExtraneousAttribute
	case MissingRequiredAttribute:
		return ErrMissingRequiredAttribute
	case InvalidReference:
		return ErrInvalidReference
	default:
		return nil
	}
}

// ValidationError reports a rejected binding and every field at fault.
type ValidationError struct {
	Kind    Kind
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind.sentinel(), e.Message)
}

// Is matches the sentinel for the error's kind.
func (e *ValidationError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// Details exposes the kind and fields for HTTP error bodies.
func (e *ValidationError) Details() map[string]any {
	return map[string]any{
		"kind":   e.Kind.String(),
		"fields": e.Fields,
	}
}

func newValidationError(kind Kind, fields []string, format string) *ValidationError {
	return &ValidationError{
		Kind:    kind,
		Fields:  fields,
		Message: fmt.Sprintf(format, strings.Join(fields, " and ")),
	}
}

// MapHTTPStatus maps validation failures to 422.
func MapHTTPStatus(err error) int {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
