package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

func mustTimeString(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func TestGenerateIntervals_FullDay(t *testing.T) {
	window := Window{
		StartTime: mustTimeString(t, "09:00"),
		EndTime:   mustTimeString(t, "17:00"),
	}

	intervals, err := GenerateIntervals(window, 30, 2, 100.0)
	require.NoError(t, err)
	require.Len(t, intervals, 16)

	assert.Equal(t, "09:00", intervals[0].StartTime.String())
	assert.Equal(t, "09:30", intervals[0].EndTime.String())
	assert.Equal(t, "16:30", intervals[15].StartTime.String())
	assert.Equal(t, "17:00", intervals[15].EndTime.String())

	for i, interval := range intervals {
		assert.Equal(t, 2, interval.MaxCapacity, "interval %d", i)
		assert.Equal(t, 0, interval.UsedCapacity, "interval %d", i)
		assert.Equal(t, 100.0, interval.UnitPrice, "interval %d", i)
	}

	// Смежные интервалы стыкуются без щелей
	for i := 1; i < len(intervals); i++ {
		assert.True(t, intervals[i-1].EndTime.Equal(intervals[i].StartTime), "gap between %d and %d", i-1, i)
	}
}

func TestGenerateIntervals_DropsTrailingRemainder(t *testing.T) {
	window := Window{
		StartTime: mustTimeString(t, "09:00"),
		EndTime:   mustTimeString(t, "10:45"),
	}

	intervals, err := GenerateIntervals(window, 30, 1, 50.0)
	require.NoError(t, err)
	// 09:00-09:30, 09:30-10:00, 10:00-10:30; остаток 10:30-10:45 не генерируется
	require.Len(t, intervals, 3)
	assert.Equal(t, "10:30", intervals[2].EndTime.String())
}

func TestGenerateIntervals_WindowSmallerThanDuration(t *testing.T) {
	window := Window{
		StartTime: mustTimeString(t, "09:00"),
		EndTime:   mustTimeString(t, "09:20"),
	}

	intervals, err := GenerateIntervals(window, 30, 1, 50.0)
	require.NoError(t, err)
	assert.Empty(t, intervals)
}

func TestGenerateIntervals_Deterministic(t *testing.T) {
	window := Window{
		StartTime: mustTimeString(t, "08:00"),
		EndTime:   mustTimeString(t, "20:00"),
	}

	first, err := GenerateIntervals(window, 45, 3, 75.5)
	require.NoError(t, err)
	second, err := GenerateIntervals(window, 45, 3, 75.5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateIntervals_InvalidInput(t *testing.T) {
	valid := Window{
		StartTime: mustTimeString(t, "09:00"),
		EndTime:   mustTimeString(t, "17:00"),
	}

	tests := []struct {
		name     string
		window   Window
		duration int
	}{
		{
			name:     "zero duration",
			window:   valid,
			duration: 0,
		},
		{
			name:     "negative duration",
			window:   valid,
			duration: -15,
		},
		{
			name: "start equals end",
			window: Window{
				StartTime: mustTimeString(t, "09:00"),
				EndTime:   mustTimeString(t, "09:00"),
			},
			duration: 30,
		},
		{
			name: "start after end",
			window: Window{
				StartTime: mustTimeString(t, "17:00"),
				EndTime:   mustTimeString(t, "09:00"),
			},
			duration: 30,
		},
		{
			name: "malformed start time",
			window: Window{
				StartTime: types.TimeString("9am"),
				EndTime:   mustTimeString(t, "17:00"),
			},
			duration: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateIntervals(tt.window, tt.duration, 1, 10.0)
			assert.ErrorIs(t, err, ErrInvalidWindow)
		})
	}
}

func TestInterval_Contains(t *testing.T) {
	interval := Interval{
		StartTime: mustTimeString(t, "10:00"),
		EndTime:   mustTimeString(t, "10:30"),
	}

	assert.True(t, interval.Contains(mustTimeString(t, "10:00")), "start is inclusive")
	assert.True(t, interval.Contains(mustTimeString(t, "10:15")))
	assert.True(t, interval.Contains(mustTimeString(t, "10:29")))
	assert.False(t, interval.Contains(mustTimeString(t, "10:30")), "end is exclusive")
	assert.False(t, interval.Contains(mustTimeString(t, "09:59")))
}

func TestInterval_Capacity(t *testing.T) {
	interval := Interval{MaxCapacity: 3, UsedCapacity: 2}
	assert.Equal(t, 1, interval.AvailableCapacity())
	assert.False(t, interval.IsFull())

	interval.UsedCapacity = 3
	assert.Equal(t, 0, interval.AvailableCapacity())
	assert.True(t, interval.IsFull())
}
