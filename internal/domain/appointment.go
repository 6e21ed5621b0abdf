package domain

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusApproved  AppointmentStatus = "approved"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// ParseAppointmentStatus converts a raw string into an AppointmentStatus.
// Returns false for unknown values.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case StatusPending, StatusApproved, StatusCompleted, StatusCancelled:
		return AppointmentStatus(s), true
	default:
		return "", false
	}
}

// Appointment represents a materialized reservation in the system.
// Its time window is always the canonical window of the interval it was
// booked against, never the raw requested instant.
type Appointment struct {
	ID         int64
	CustomerID int64
	BusinessID int64
	LocationID int64
	IntervalID int64

	BookingDate time.Time        // Booking date (date part only)
	StartTime   types.TimeString // Canonical interval start
	EndTime     types.TimeString // Canonical interval end
	Quantity    int              // Reserved capacity units
	UnitPrice   float64          // Price snapshot from the interval

	Status AppointmentStatus
	Notes  *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still holds its reservation
func (a *Appointment) IsActive() bool {
	return a.Status == StatusPending || a.Status == StatusApproved
}

// CanBeApproved returns true if the appointment can move to approved
func (a *Appointment) CanBeApproved() bool {
	return a.Status == StatusPending
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusApproved
}

// IsFinal returns true if the appointment is in a terminal status
func (a *Appointment) IsFinal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled
}

// EndsAt returns the absolute end instant of the appointment
// in the given business-local location
func (a *Appointment) EndsAt(loc *time.Location) (time.Time, error) {
	minutes, err := a.EndTime.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := a.BookingDate.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).Add(time.Duration(minutes) * time.Minute), nil
}

// StartsAfter returns true if the appointment starts strictly after now
func (a *Appointment) StartsAfter(now time.Time) bool {
	minutes, err := a.StartTime.Minutes()
	if err != nil {
		return false
	}
	y, m, d := a.BookingDate.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).Add(time.Duration(minutes) * time.Minute)
	return start.After(now)
}

// LocationAppointmentsFilter filter for listing a location's appointments
type LocationAppointmentsFilter struct {
	LocationID   int64              // Required
	StartDate    *time.Time         // Period start (optional)
	EndDate      *time.Time         // Period end (optional)
	Status       *AppointmentStatus // Optional status filter
	IncludeFinal bool               // Include completed/cancelled appointments
}
