package domain

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// Window represents a half-open daily time window [StartTime, EndTime)
type Window struct {
	StartTime types.TimeString
	EndTime   types.TimeString
}

// IsValid returns true if the window is well-formed
func (w Window) IsValid() bool {
	if w.StartTime.Validate() != nil || w.EndTime.Validate() != nil {
		return false
	}
	return w.StartTime.IsBefore(w.EndTime)
}

// ScheduleConfig represents a location's daily booking template.
// A location has at most one configuration; the configuration owns its
// generated interval set exclusively (regeneration replaces all of them).
type ScheduleConfig struct {
	ID                  int64
	LocationID          int64
	StartTime           types.TimeString
	EndTime             types.TimeString
	SlotDurationMinutes int
	CapacityPerInterval int
	UnitPrice           float64
	LastResetAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Window returns the configuration's daily window
func (c *ScheduleConfig) Window() Window {
	return Window{StartTime: c.StartTime, EndTime: c.EndTime}
}
