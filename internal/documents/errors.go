package documents

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/reception-registry/internal/bindings"
	"github.com/JaimeStill/reception-registry/internal/parties"
	"github.com/JaimeStill/reception-registry/pkg/decode"
	"github.com/JaimeStill/reception-registry/pkg/repository"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrTypeNotFound    = errors.New("document type not found")
	ErrBindingNotFound = errors.New("binding not found")
	ErrDuplicate       = errors.New("document type name already exists")
	ErrInvalidDocument = errors.New("invalid document")
	ErrInvalidBinding  = errors.New("invalid binding")
)

// MapHTTPStatus maps document, binding, party and artifact errors to HTTP
// status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, bindings.ErrExtraneousAttribute),
		errors.Is(err, bindings.ErrMissingRequiredAttribute),
		errors.Is(err, bindings.ErrInvalidReference):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrTypeNotFound),
		errors.Is(err, ErrBindingNotFound),
		errors.Is(err, parties.ErrNotFound),
		errors.Is(err, parties.ErrPositionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, repository.ErrReferenced):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidDocument),
		errors.Is(err, ErrInvalidBinding),
		errors.Is(err, decode.ErrInvalidBody):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
