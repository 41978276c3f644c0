// Package appointments provides the appointment detail view logic: loading
// one appointment, driving the automation-status poller for it, and the two
// human-triggered status transitions.
package appointments

import (
	"strings"
	"time"
)

// Appointment statuses used by the core API.
const (
	StatusScheduled = "SCHEDULED"
	StatusConfirmed = "CONFIRMED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
	StatusNoShow    = "NO_SHOW"
)

// Record is one appointment as returned by GET /appointments/{id}.
type Record struct {
	ID            string    `json:"id"`
	PatientID     string    `json:"patientId"`
	PatientName   string    `json:"patientName"`
	DoctorName    string    `json:"doctorName"`
	ProcedureType string    `json:"procedureType"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes,omitempty"`
}

// NormalizeStatus maps the status spellings seen in the wild onto one form:
// upper-cased, with hyphens and spaces collapsed to underscores, so that
// "No-Show", " no show " and "NO_SHOW" all compare equal.
func NormalizeStatus(status string) string {
	normalized := strings.ToUpper(strings.TrimSpace(status))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	normalized = strings.ReplaceAll(normalized, " ", "_")
	return normalized
}

// IsTerminalStatus reports whether an appointment can no longer be mutated.
// Both CANCELLED spellings occur in historical data.
func IsTerminalStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusCompleted, StatusCancelled, "CANCELED", StatusNoShow:
		return true
	}
	return false
}
