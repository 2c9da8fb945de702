package dashboard

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks a missing or malformed argument. It is separate from
// store failures so callers can map it to a client error.
var ErrInvalidInput = errors.New("invalid input")

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
