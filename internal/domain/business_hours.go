package domain

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// BusinessHours represents the opening hours of a business for one weekday.
// Weekday follows time.Weekday numbering (0 = Sunday ... 6 = Saturday).
// Maintained by the business admin surface; read-only for this service.
type BusinessHours struct {
	ID         int64
	BusinessID int64
	Weekday    time.Weekday
	OpenTime   *types.TimeString
	CloseTime  *types.TimeString
	IsClosed   bool
	UpdatedAt  time.Time
}

// IsOpen returns true if the business accepts customers on this weekday
func (h *BusinessHours) IsOpen() bool {
	return !h.IsClosed && h.OpenTime != nil && h.CloseTime != nil
}
