package domain

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// Interval represents one discrete bookable time slice [StartTime, EndTime)
// generated from a schedule configuration. Capacity and price are snapshots
// taken at generation time.
//
// Invariant: 0 <= UsedCapacity <= MaxCapacity at every observation point.
type Interval struct {
	ID           int64
	LocationID   int64
	StartTime    types.TimeString
	EndTime      types.TimeString
	MaxCapacity  int
	UsedCapacity int
	UnitPrice    float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AvailableCapacity returns the remaining reservation units
func (i *Interval) AvailableCapacity() int {
	return i.MaxCapacity - i.UsedCapacity
}

// IsFull returns true if no capacity remains
func (i *Interval) IsFull() bool {
	return i.UsedCapacity >= i.MaxCapacity
}

// Contains returns true if the given time of day falls inside the
// half-open window [StartTime, EndTime)
func (i *Interval) Contains(t types.TimeString) bool {
	return !t.IsBefore(i.StartTime) && t.IsBefore(i.EndTime)
}
