package main

import (
	"errors"

	"github.com/samvad-hq/http-request-action/pkg/httprequest"
)

// Exit codes for the http-request CLI
const (
	ExitSuccess = 0

	// ExitRequestFailure covers invalid methods, URLs and bodies
	ExitRequestFailure = 1

	// ExitConfigError indicates configuration could not be loaded
	ExitConfigError = 3

	// ExitNetworkError indicates a timeout or connection error
	ExitNetworkError = 4
)

// configError marks failures that happen before a request is attempted.
type configError struct {
	err error
}

func (e *configError) Error() string { return "config: " + e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var cfgErr *configError
	switch {
	case errors.As(err, &cfgErr):
		return ExitConfigError
	case errors.Is(err, httprequest.ErrNetworkFailure):
		return ExitNetworkError
	default:
		return ExitRequestFailure
	}
}
