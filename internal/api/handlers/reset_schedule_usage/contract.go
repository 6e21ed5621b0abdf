package reset_schedule_usage

import "context"

type ScheduleService interface {
	ResetUsage(ctx context.Context, locationID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
