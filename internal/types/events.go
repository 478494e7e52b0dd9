package types

import (
	"fmt"
	"time"
)

// EventKind identifies a progress notification.
type EventKind string

const (
	EventBatchStarted      EventKind = "batch_started"
	EventValidationStarted EventKind = "validation_started"
	EventValidationPassed  EventKind = "validation_passed"
	EventValidationFailed  EventKind = "validation_failed"
	EventSiteStarted       EventKind = "site_started"
	EventSiteCompleted     EventKind = "site_completed"
	EventSiteFailed        EventKind = "site_failed"
	EventBatchCompleted    EventKind = "batch_completed"
)

// Event is a timestamped progress notification. Events are advisory;
// nothing in the result depends on them being delivered.
type Event struct {
	RunID   string
	Time    time.Time
	Kind    EventKind
	SiteID  string
	Index   int
	Total   int
	Message string
}

// String renders the event the way the log pane shows it.
func (e Event) String() string {
	return fmt.Sprintf("%s - %s", e.Time.Format("15:04:05"), e.Message)
}
