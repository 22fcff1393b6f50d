// ABOUTME: Tagged failure type produced at the backend-access boundary
// ABOUTME: Carries an optional HTTP-like status plus details for the error mapper

package rag

// Error is the discriminated failure type flowing out of backend
// access. Status is an HTTP-like status code, zero when the failure
// has none. Err holds the underlying cause for logging; it is never
// surfaced to callers.
type Error struct {
	Status  int
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "internal error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a status-tagged failure.
func NewError(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}
