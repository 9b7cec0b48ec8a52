package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Identity errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrInvalidSignature = fmt.Errorf("invalid init data signature")
	ErrInitDataExpired  = fmt.Errorf("init data expired")

	// External service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// Shift lifecycle errors
	ErrNoPlatforms   = fmt.Errorf("no platforms selected")
	ErrShiftActive   = fmt.Errorf("a shift is already active")
	ErrNoActiveShift = fmt.Errorf("no active shift")
	ErrShiftNotFound = fmt.Errorf("shift not found")

	// Planner errors
	ErrTaskNotFound  = fmt.Errorf("task not found")
	ErrGuideNotFound = fmt.Errorf("guide not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// IsRejection reports whether err is an operator-facing refusal (bad input or a lifecycle precondition) rather than a failure.
func IsRejection(err error) bool {
	for _, target := range []error{
		ErrNoPlatforms, ErrShiftActive, ErrNoActiveShift,
		ErrInvalidInput, ErrMissingArgument, ErrInvalidArgument,
		ErrTaskNotFound, ErrGuideNotFound, ErrShiftNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
