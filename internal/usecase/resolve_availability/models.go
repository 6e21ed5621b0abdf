package resolve_availability

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// Request модель запроса на резолв доступности
type Request struct {
	BusinessID   int64
	LocationHint *string   // Свободный текст от клиента или NL-интерпретатора, например "Downtown"
	PointInTime  time.Time // Конкретный момент в локальном времени бизнеса
}

// Response результат резолва: интервал, накрывающий запрошенное время,
// и его оставшаяся емкость
type Response struct {
	BusinessID int64
	LocationID int64

	IntervalID  int64
	StartTime   types.TimeString // Каноническое начало интервала
	EndTime     types.TimeString // Канонический конец интервала
	UnitPrice   float64
	MaxCapacity int

	AvailableCapacity int
}
