package app

import (
	"fmt"
	"math"
	"time"
)

// AuthError is a rejected credential check. Message is the boundary's
// text verbatim.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// CooldownError reports that a username is still inside the post-failure
// login cooldown.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	secs := int(math.Ceil(e.Remaining.Seconds()))
	return fmt.Sprintf("too many attempts, wait %d seconds before retrying", secs)
}

// ValidationError is a request rejected before it reaches the boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
