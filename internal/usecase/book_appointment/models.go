package book_appointment

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	CustomerID   int64     // ID клиента
	BusinessID   int64     // ID бизнеса
	LocationHint *string   // Текстовая подсказка локации (опционально)
	PointInTime  time.Time // Желаемый момент записи в локальном времени бизнеса
	Quantity     int       // Количество резервируемых единиц емкости
	Notes        *string   // Дополнительные заметки (опционально)
}

// Response модель ответа с созданной записью.
// Временное окно всегда каноническое окно интервала, а не сырое
// запрошенное время.
type Response struct {
	ID         int64
	CustomerID int64
	BusinessID int64
	LocationID int64
	IntervalID int64

	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	Quantity    int
	UnitPrice   float64
	TotalPrice  float64

	Status string
	Notes  *string

	CreatedAt time.Time
}
