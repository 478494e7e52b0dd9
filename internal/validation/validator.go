// =============================================================================
// Sales Summary Report - Job Parameter Validation
// =============================================================================
//
// This module checks the parameters of a batch before any connection is made.
//
// CHECKS:
//   - from/to dates are YYYY-MM-DD and from <= to
//   - username and database are present
//   - the site list is not empty
//   - the routing policy is known, unless a custom endpoint is given
//   - site ids can be turned into endpoints (warning only: such a site fails
//     on its own with a format error, the rest of the batch still runs)
//
// Errors are collected, not returned one at a time, so every problem with the
// input is reported at once.
//
// =============================================================================

package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ginjaninja78/sales-summary-report/internal/resolver"
	"github.com/ginjaninja78/sales-summary-report/internal/types"
)

// DateLayout is the layout of the from/to dates.
const DateLayout = "2006-01-02"

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError represents a single validation problem.
type ValidationError struct {
	// Severity is "error" (the batch must not run) or "warning".
	Severity string

	Field string
	Value string

	// Message is a human-readable error message.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("[%s] %s: %s", strings.ToUpper(e.Severity), e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s (value: '%s')", strings.ToUpper(e.Severity), e.Field, e.Message, e.Value)
}

// ValidateJob validates the parameters of a batch over siteIDs.
func ValidateJob(params types.JobParams, siteIDs []string, policies map[string][]string) []*ValidationError {
	var errs []*ValidationError

	fail := func(field, value, format string, args ...any) {
		errs = append(errs, &ValidationError{
			Severity: SeverityError,
			Field:    field,
			Value:    value,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	// Dates.
	from, fromErr := time.Parse(DateLayout, params.FromDate)
	if fromErr != nil {
		fail("from_date", params.FromDate, "must be a date formatted YYYY-MM-DD")
	}
	to, toErr := time.Parse(DateLayout, params.ToDate)
	if toErr != nil {
		fail("to_date", params.ToDate, "must be a date formatted YYYY-MM-DD")
	}
	if fromErr == nil && toErr == nil && from.After(to) {
		fail("from_date", params.FromDate, "must not be after to_date %s", params.ToDate)
	}

	// Credentials. The password may legitimately be empty.
	if strings.TrimSpace(params.Credentials.Username) == "" {
		fail("username", "", "is required")
	}
	if strings.TrimSpace(params.Credentials.Database) == "" {
		fail("database", "", "is required")
	}

	if len(siteIDs) == 0 {
		fail("site_ids", "", "please enter a site id or provide a site list file")
	}

	if params.CustomEndpoint != "" {
		return errs
	}

	if _, ok := policies[params.RoutingPolicy]; !ok {
		fail("routing_policy", params.RoutingPolicy, "unknown routing policy (known: %s)", strings.Join(policyNames(policies), ", "))
	}

	for _, id := range siteIDs {
		if _, err := resolver.FormatSiteFragment(id); err != nil {
			errs = append(errs, &ValidationError{
				Severity: SeverityWarning,
				Field:    "site_id",
				Value:    id,
				Message:  "cannot be turned into an endpoint; the site will fail",
			})
		}
	}

	return errs
}

// HasErrors reports whether errs contains anything more severe than a warning.
func HasErrors(errs []*ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// FormatErrors formats validation errors for display.
func FormatErrors(errs []*ValidationError) string {
	if len(errs) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Validation completed with %d problem(s):\n", len(errs)))
	for i, err := range errs {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}
	return builder.String()
}

func policyNames(policies map[string][]string) []string {
	names := make([]string, 0, len(policies))
	for name := range policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
