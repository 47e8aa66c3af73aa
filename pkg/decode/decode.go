// Package decode reads JSON request bodies into typed commands.
package decode

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidBody wraps every decoding failure.
var ErrInvalidBody = errors.New("invalid request body")

// JSON decodes a single JSON value from r into T. Unknown fields and
// trailing content are rejected.
func JSON[T any](r io.Reader) (T, error) {
	var result T

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&result); err != nil {
		return result, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if dec.More() {
		return result, fmt.Errorf("%w: unexpected trailing content", ErrInvalidBody)
	}
	return result, nil
}
