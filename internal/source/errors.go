package source

import (
	"context"
	"errors"
	"net"
	"net/http"
)

// Source error kinds. Adapters wrap one of these so callers can branch with
// errors.Is without knowing which backend failed.
var (
	ErrAuthFailure      = errors.New("authentication failed")
	ErrNotFound         = errors.New("source document not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrTimeout          = errors.New("source timed out")
	ErrParseFailure     = errors.New("source data could not be parsed")
	ErrUnknown          = errors.New("unknown source error")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrAuthFailure, "auth_failure"},
	{ErrNotFound, "not_found"},
	{ErrPermissionDenied, "permission_denied"},
	{ErrTimeout, "timeout"},
	{ErrParseFailure, "parse_failure"},
	{ErrUnknown, "unknown"},
}

// KindOf returns the short name of the error kind, used in logs and metrics.
// Errors outside the taxonomy are reported as "unknown"; nil is "ok".
func KindOf(err error) string {
	if err == nil {
		return "ok"
	}
	if isTimeout(err) {
		return "timeout"
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "unknown"
}

// Classify returns the taxonomy sentinel matching err.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if isTimeout(err) {
		return ErrTimeout
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.err
		}
	}
	return ErrUnknown
}

// Retryable reports whether another attempt could succeed.
func Retryable(err error) bool {
	switch Classify(err) {
	case ErrTimeout, ErrUnknown:
		return true
	default:
		return false
	}
}

// FromStatus maps an HTTP status from a document store to an error kind.
func FromStatus(code int) error {
	switch code {
	case http.StatusUnauthorized:
		return ErrAuthFailure
	case http.StatusForbidden:
		return ErrPermissionDenied
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ErrTimeout
	default:
		return ErrUnknown
	}
}

// Message is the user-facing hint for an error kind.
func Message(err error) string {
	switch Classify(err) {
	case ErrAuthFailure:
		return "Authentication failed: the access token is missing, invalid or expired. Check the client credentials."
	case ErrNotFound:
		return "The spreadsheet or worksheet was not found. Check the file ID and sheet name."
	case ErrPermissionDenied:
		return "Permission denied. Check the application's permissions on the document."
	case ErrTimeout:
		return "Timed out while contacting the document store. Try again."
	case ErrParseFailure:
		return "The worksheet could not be read."
	default:
		return "Unexpected error while loading data."
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
