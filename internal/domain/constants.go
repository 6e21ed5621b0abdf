package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes = 30
	DefaultCapacityPerInterval = 1
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 hours

	MinCapacityPerInterval = 1
	MaxCapacityPerInterval = 100

	MaxReservationQuantity = 20

	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses список статусов, в которых запись ещё удерживает резерв
// и подхватывается lifecycle sweep после истечения времени
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusApproved,
}

// FinalStatuses список терминальных статусов, из которых переходов нет
var FinalStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusCancelled,
}
