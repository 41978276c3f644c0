// Package agentstatus tracks the server-side appointment automation agent.
// The agent runs out of process and reports its lifecycle through the core
// API; this package owns the local snapshot and the adaptive polling that
// keeps it current without a push channel.
package agentstatus

import "time"

// Status is the automation run's lifecycle state as reported by the server.
type Status string

const (
	StatusNew        Status = "NEW"
	StatusProcessing Status = "PROCESSING"
	StatusDone       Status = "DONE"
	StatusFailed     Status = "FAILED"
	// StatusUnknown means no event exists yet for the tracked appointment.
	StatusUnknown Status = "UNKNOWN"
)

// Active reports whether the automation is still running and worth polling.
func (s Status) Active() bool {
	return s == StatusNew || s == StatusProcessing
}

// Automation step identifiers reported in Event.EventType. Opaque to the
// polling logic; kept here for display and logging.
const (
	EventTypeConfirmationCheck = "confirmation_check"
	EventTypeNoShowDetection   = "no_show_detection"
	EventTypeAutoSchedule      = "auto_schedule"
	EventTypeMonitorSweep      = "monitor_sweep"
)

// Event is the most recent automation event for an appointment. The server
// is the ordering authority: the latest response always replaces whatever
// the client held before, and EventID is display-only.
type Event struct {
	AppointmentID string    `json:"appointmentId"`
	EventID       int64     `json:"eventId"`
	EventType     string    `json:"eventType"`
	Status        Status    `json:"status"`
	LastError     string    `json:"lastError,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Snapshot is the client's view of the automation: the last event received
// (nil when none exists) and when it was last checked locally.
type Snapshot struct {
	Event     *Event    `json:"event"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Status returns the snapshot's automation status, StatusUnknown when no
// event has been observed.
func (s Snapshot) Status() Status {
	if s.Event == nil {
		return StatusUnknown
	}
	return s.Event.Status
}
