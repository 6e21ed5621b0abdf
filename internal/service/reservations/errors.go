package reservations

import (
	"errors"
	"fmt"
)

var (
	// ErrIntervalNotFound возвращается, когда интервал не найден
	ErrIntervalNotFound = errors.New("reservations: interval not found")

	// ErrCapacityExceeded возвращается, когда запрошенное количество
	// не помещается в оставшуюся емкость интервала
	ErrCapacityExceeded = errors.New("reservations: capacity exceeded")

	// ErrInvalidQuantity возвращается при некорректном количестве единиц
	ErrInvalidQuantity = errors.New("reservations: invalid quantity")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("reservations: internal error")
)

// CapacityExceededError несет текущую доступную емкость, чтобы вызывающая
// сторона могла повторить запрос с меньшим количеством.
// Разворачивается в ErrCapacityExceeded для errors.Is.
type CapacityExceededError struct {
	IntervalID int64
	Requested  int
	Available  int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("reservations: capacity exceeded on interval %d: requested %d, available %d",
		e.IntervalID, e.Requested, e.Available)
}

func (e *CapacityExceededError) Unwrap() error {
	return ErrCapacityExceeded
}
