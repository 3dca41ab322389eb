package httprequest

import "errors"

// ErrorPrefix opens every user-facing failure message.
const ErrorPrefix = "HTTP request failed"

var (
	// ErrUnsupportedMethod is returned for verbs outside GET/POST/PUT/PATCH/DELETE.
	ErrUnsupportedMethod = errors.New("Unsupported HTTP method") //nolint:staticcheck // user-facing wording
	// ErrInvalidURL is returned when the target cannot be parsed or is not http(s).
	ErrInvalidURL = errors.New("invalid URL")
	// ErrNetworkFailure wraps transport errors: timeouts, refused connections, DNS.
	ErrNetworkFailure = errors.New("network failure")
	// ErrTimeout is joined into ErrNetworkFailure errors caused by a deadline.
	ErrTimeout = errors.New("request timed out")
)

// UserError is the single failure category surfaced to the host tool.
type UserError struct {
	Cause error
}

func (e *UserError) Error() string {
	if e == nil || e.Cause == nil {
		return ErrorPrefix
	}
	return ErrorPrefix + ": " + e.Cause.Error()
}

func (e *UserError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// userError wraps err once; already-wrapped errors pass through.
func userError(err error) error {
	if err == nil {
		return nil
	}
	var ue *UserError
	if errors.As(err, &ue) {
		return err
	}
	return &UserError{Cause: err}
}

// IsUserError reports whether err carries the user-facing prefix.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}
