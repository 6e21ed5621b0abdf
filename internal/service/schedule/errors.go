package schedule

import "errors"

var (
	// ErrLocationNotFound возвращается, когда локация не найдена
	ErrLocationNotFound = errors.New("schedule: location not found")

	// ErrConfigNotFound возвращается, когда у локации нет конфигурации
	ErrConfigNotFound = errors.New("schedule: config not found")

	// ErrInvalidWindow возвращается при некорректных параметрах окна расписания
	ErrInvalidWindow = errors.New("schedule: invalid window")

	// ErrIntervalsInUse возвращается при попытке перегенерации поверх
	// интервалов с ненулевым использованием
	ErrIntervalsInUse = errors.New("schedule: intervals have active reservations")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("schedule: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule: internal error")
)
