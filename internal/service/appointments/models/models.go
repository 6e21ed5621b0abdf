package models

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// AppointmentResponse модель записи в ответах сервиса
type AppointmentResponse struct {
	ID         int64 `json:"id"`
	CustomerID int64 `json:"customerId"`
	BusinessID int64 `json:"businessId"`
	LocationID int64 `json:"locationId"`
	IntervalID int64 `json:"intervalId"`

	BookingDate time.Time        `json:"bookingDate"`
	StartTime   types.TimeString `json:"startTime"`
	EndTime     types.TimeString `json:"endTime"`
	Quantity    int              `json:"quantity"`
	UnitPrice   float64          `json:"unitPrice"`

	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`

	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CancelRequest запрос на отмену записи
type CancelRequest struct {
	AppointmentID int64  `json:"-"`
	Reason        string `json:"reason"`
}

// FromDomainAppointment конвертирует доменную запись в ответ сервиса
func FromDomainAppointment(appt *domain.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                 appt.ID,
		CustomerID:         appt.CustomerID,
		BusinessID:         appt.BusinessID,
		LocationID:         appt.LocationID,
		IntervalID:         appt.IntervalID,
		BookingDate:        appt.BookingDate,
		StartTime:          appt.StartTime,
		EndTime:            appt.EndTime,
		Quantity:           appt.Quantity,
		UnitPrice:          appt.UnitPrice,
		Status:             string(appt.Status),
		Notes:              appt.Notes,
		CancellationReason: appt.CancellationReason,
		CancelledAt:        appt.CancelledAt,
		CreatedAt:          appt.CreatedAt,
		UpdatedAt:          appt.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список доменных записей
func FromDomainAppointmentList(appointments []*domain.Appointment) []*AppointmentResponse {
	result := make([]*AppointmentResponse, 0, len(appointments))
	for _, appt := range appointments {
		result = append(result, FromDomainAppointment(appt))
	}
	return result
}
