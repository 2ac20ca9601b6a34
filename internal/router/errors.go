package router

import (
	"errors"
	"fmt"
)

// ErrMalformedEvent is returned for events missing fields routing depends on.
var ErrMalformedEvent = errors.New("malformed event")

// AuthorizationError is returned when an event names a different skill.
type AuthorizationError struct {
	ApplicationID string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("invalid application id %q", e.ApplicationID)
}

// UnrecognizedIntentError is returned for any intent other than wa_query.
type UnrecognizedIntentError struct {
	Name string
}

func (e *UnrecognizedIntentError) Error() string {
	return fmt.Sprintf("invalid intent %q", e.Name)
}
