package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointments: appointment not found")

	// ErrCannotApprove возвращается, когда запись нельзя подтвердить
	// из текущего статуса
	ErrCannotApprove = errors.New("appointments: appointment cannot be approved")

	// ErrCannotCancel возвращается, когда запись нельзя отменить
	// из текущего статуса
	ErrCannotCancel = errors.New("appointments: appointment cannot be cancelled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("appointments: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments: internal error")
)
