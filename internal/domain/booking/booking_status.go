package booking

import "fmt"

// BookingStatus represents the approval lifecycle value of a booking.
type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
	StatusCanceled BookingStatus = "CANCELED"
)

// cancelable lists the statuses a booker may still withdraw from.
var cancelable = map[BookingStatus]bool{
	StatusWaiting:  true,
	StatusApproved: true,
	StatusRejected: false,
	StatusCanceled: false,
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := cancelable[s]
	return exists
}

// CanBeCanceled returns true if the booking can be canceled from this status.
func (s BookingStatus) CanBeCanceled() bool {
	return cancelable[s]
}

// Holds reports whether a booking in this status still claims its time window.
func (s BookingStatus) Holds() bool {
	return s == StatusWaiting || s == StatusApproved
}

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus, returning an error if invalid.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}

// AllStatuses returns every status in lifecycle order.
func AllStatuses() []BookingStatus {
	return []BookingStatus{StatusWaiting, StatusApproved, StatusRejected, StatusCanceled}
}
