package hotel

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrRoomUnavailable   = errors.New("room unavailable")
	ErrInvalidGuest      = errors.New("invalid guest")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidDateRange  = errors.New("start date must precede end date")
	ErrInvalidPeriod     = errors.New("invalid booking period")
	ErrDuplicate         = errors.New("already exists")
)

// rejectReason maps a creation failure to a short label for events and metrics.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrRoomUnavailable):
		return "room_unavailable"
	case errors.Is(err, ErrInvalidGuest):
		return "invalid_guest"
	case errors.Is(err, ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, ErrInvalidDateRange):
		return "invalid_date_range"
	case errors.Is(err, ErrInvalidPeriod):
		return "invalid_period"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	}
	return "other"
}
