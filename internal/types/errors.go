package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFormat is returned when a site id cannot be turned into an endpoint.
type ErrFormat struct {
	SiteID string
	Err    error
}

func (e *ErrFormat) Error() string {
	return fmt.Sprintf("error formatting site id %q: %v", e.SiteID, e.Err)
}

func (e *ErrFormat) Unwrap() error {
	return e.Err
}

// ErrNotReachable is returned when no candidate endpoint accepted a connection.
type ErrNotReachable struct {
	SiteID    string
	Endpoints []string
	Err       error // joined attempt errors; nil when there were no candidates
}

func (e *ErrNotReachable) Error() string {
	if len(e.Endpoints) == 0 {
		return fmt.Sprintf("could not connect to the server for site %s: no candidate endpoints", e.SiteID)
	}
	return fmt.Sprintf("could not connect to the server for site %s (tried %s)", e.SiteID, strings.Join(e.Endpoints, ", "))
}

func (e *ErrNotReachable) Unwrap() error {
	return e.Err
}

// ErrQuery is returned when a query fails on an established connection.
type ErrQuery struct {
	SiteID string
	Op     string // site name, summary, scan
	Err    error
}

func (e *ErrQuery) Error() string {
	return fmt.Sprintf("query %s for site %s: %v", e.Op, e.SiteID, e.Err)
}

func (e *ErrQuery) Unwrap() error {
	return e.Err
}

// ErrValidation is returned when the pre-batch test connection fails.
// It aborts the whole batch.
type ErrValidation struct {
	SiteID string
	Err    error
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("test connection failed for site %s: %v", e.SiteID, e.Err)
}

func (e *ErrValidation) Unwrap() error {
	return e.Err
}

// ErrNoSuccessfulSites is returned when every site in a batch failed.
var ErrNoSuccessfulSites = errors.New("no successful reports to save")

// Error code constants used in logs and summaries.
const (
	ErrCodeFormat          = "FORMAT"
	ErrCodeNotReachable    = "NOT_REACHABLE"
	ErrCodeQuery           = "QUERY"
	ErrCodeValidation      = "VALIDATION"
	ErrCodeNoSuccessfulRun = "NO_SUCCESSFUL_SITES"
	ErrCodeUnknown         = "UNKNOWN"
)

// ErrorCode returns the error code string for a given error.
// ErrValidation is checked first because it wraps the per-site errors.
func ErrorCode(err error) string {
	var validationErr *ErrValidation
	var formatErr *ErrFormat
	var notReachableErr *ErrNotReachable
	var queryErr *ErrQuery
	switch {
	case err == nil:
		return ""
	case errors.As(err, &validationErr):
		return ErrCodeValidation
	case errors.Is(err, ErrNoSuccessfulSites):
		return ErrCodeNoSuccessfulRun
	case errors.As(err, &formatErr):
		return ErrCodeFormat
	case errors.As(err, &notReachableErr):
		return ErrCodeNotReachable
	case errors.As(err, &queryErr):
		return ErrCodeQuery
	default:
		return ErrCodeUnknown
	}
}
