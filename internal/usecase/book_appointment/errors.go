package book_appointment

import (
	"errors"
	"fmt"
)

var (
	// ErrBusinessClosed возвращается, когда бизнес не работает в этот день недели
	ErrBusinessClosed = errors.New("book_appointment: business is closed on this weekday")

	// ErrLocationNotFound возвращается, когда локация не найдена или
	// подсказка дала неоднозначное совпадение
	ErrLocationNotFound = errors.New("book_appointment: location not found or ambiguous")

	// ErrNotConfigured возвращается, когда у локации нет конфигурации расписания
	ErrNotConfigured = errors.New("book_appointment: location has no schedule configuration")

	// ErrOutsideWindow возвращается, когда запрошенное время вне окна расписания
	ErrOutsideWindow = errors.New("book_appointment: requested time is outside the schedule window")

	// ErrCapacityExceeded возвращается, когда емкости интервала не хватает
	ErrCapacityExceeded = errors.New("book_appointment: capacity exceeded")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_appointment: internal error")
)

// CapacityExceededError несет остаток емкости интервала, чтобы клиент мог
// повторить запрос с меньшим количеством.
// Разворачивается в ErrCapacityExceeded для errors.Is.
type CapacityExceededError struct {
	IntervalID int64
	Requested  int
	Available  int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("book_appointment: capacity exceeded on interval %d: requested %d, available %d",
		e.IntervalID, e.Requested, e.Available)
}

func (e *CapacityExceededError) Unwrap() error {
	return ErrCapacityExceeded
}

