package domain

import (
	"errors"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// ErrInvalidWindow возвращается генератором при некорректных параметрах окна
var ErrInvalidWindow = errors.New("domain: invalid schedule window")

// GenerateIntervals tiles the window into consecutive intervals of
// durationMinutes each, starting at window.StartTime. A trailing remainder
// shorter than the duration is left ungenerated, so the result always has
// exactly floor((end-start)/duration) intervals.
//
// The function is pure and deterministic: identical inputs always produce
// an identical boundary sequence with UsedCapacity = 0.
func GenerateIntervals(window Window, durationMinutes, capacity int, unitPrice float64) ([]Interval, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidWindow
	}
	if !window.IsValid() {
		return nil, ErrInvalidWindow
	}

	start, err := window.StartTime.Minutes()
	if err != nil {
		return nil, ErrInvalidWindow
	}
	end, err := window.EndTime.Minutes()
	if err != nil {
		return nil, ErrInvalidWindow
	}

	intervals := make([]Interval, 0, (end-start)/durationMinutes)

	for t := start; t+durationMinutes <= end; t += durationMinutes {
		intervalStart, err := types.NewTimeStringFromMinutes(t)
		if err != nil {
			return nil, ErrInvalidWindow
		}
		intervalEnd, err := types.NewTimeStringFromMinutes(t + durationMinutes)
		if err != nil {
			return nil, ErrInvalidWindow
		}

		intervals = append(intervals, Interval{
			StartTime:    intervalStart,
			EndTime:      intervalEnd,
			MaxCapacity:  capacity,
			UsedCapacity: 0,
			UnitPrice:    unitPrice,
		})
	}

	return intervals, nil
}
