package push

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied is returned when a token is requested without a granted permission.
	ErrPermissionDenied = errors.New("push: notification permission not granted")
	// ErrCapabilityUnsupported is returned when no native push capability is present.
	ErrCapabilityUnsupported = errors.New("push: no native push capability")
)

// RegistrationError carries the native failure of a remote notification registration.
type RegistrationError struct {
	Message string
	Code    int
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("push: native registration failed (code %d): %s", e.Code, e.Message)
}

// HookError wraps a failure returned (or panicked) by a host supplied hook.
type HookError struct {
	Hook string
	Err  error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("push: %s hook failed: %v", e.Hook, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }
