package model

import "strings"

// Status is the lifecycle state of a reservation.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

var statusLabels = map[Status]string{
	StatusPending:   "Pending",
	StatusConfirmed: "Confirmed",
	StatusCancelled: "Cancelled",
	StatusCompleted: "Completed",
}

// legacy labels written by older data files
var legacyStatuses = map[string]Status{
	"en cours":  StatusPending,
	"confirmée": StatusConfirmed,
	"annulée":   StatusCancelled,
	"terminée":  StatusCompleted,
}

// Label returns the display string of the status.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// IsActive reports whether the status still holds the room.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// ParseStatus accepts a status code or label, case-insensitively.
func ParseStatus(s string) (Status, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, st := range Statuses {
		if key == string(st) || key == strings.ToLower(st.Label()) {
			return st, true
		}
	}
	if st, ok := legacyStatuses[key]; ok {
		return st, true
	}
	return "", false
}
