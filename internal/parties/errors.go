package parties

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/reception-registry/pkg/repository"
)

var (
	ErrNotFound         = errors.New("party not found")
	ErrPositionNotFound = errors.New("position not found")
	ErrDuplicate        = errors.New("position name already exists")
	ErrInvalidParty     = errors.New("invalid party")

	// ErrTypeLocked is returned when an update would change the type of a
	// party that is already bound to a document.
	ErrTypeLocked = errors.New("party type cannot change while referenced by a document")

	ErrReferenced = repository.ErrReferenced
)

// MapHTTPStatus maps domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrPositionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrTypeLocked), errors.Is(err, ErrReferenced):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidParty):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
