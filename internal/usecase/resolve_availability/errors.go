package resolve_availability

import "errors"

var (
	// ErrClosed возвращается, когда бизнес не работает в этот день недели
	ErrClosed = errors.New("resolve_availability: business is closed on this weekday")

	// ErrLocationNotFound возвращается, когда подсказка локации не дала
	// однозначного совпадения. Это ошибка пользователя, не системный сбой.
	ErrLocationNotFound = errors.New("resolve_availability: location not found or ambiguous")

	// ErrNotConfigured возвращается, когда у локации нет конфигурации расписания
	ErrNotConfigured = errors.New("resolve_availability: location has no schedule configuration")

	// ErrOutsideWindow возвращается, когда запрошенное время не попадает
	// ни в один сгенерированный интервал
	ErrOutsideWindow = errors.New("resolve_availability: requested time is outside the schedule window")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("resolve_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("resolve_availability: internal error")
)
