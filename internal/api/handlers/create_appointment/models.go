package create_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	bookAppointment "github.com/m04kA/SMC-ScheduleService/internal/usecase/book_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	BusinessID   int64   `json:"businessId"`
	LocationHint *string `json:"locationHint,omitempty"`
	Date         string  `json:"date"` // "2026-08-29"
	Time         string  `json:"time"` // "10:00"
	Quantity     int     `json:"quantity"`
	Notes        *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID          int64   `json:"id"`
	CustomerID  int64   `json:"customerId"`
	BusinessID  int64   `json:"businessId"`
	LocationID  int64   `json:"locationId"`
	IntervalID  int64   `json:"intervalId"`
	BookingDate string  `json:"bookingDate"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
	Status      string  `json:"status"`
	Notes       *string `json:"notes,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом даты и времени)
func (r *CreateAppointmentRequest) ToUseCaseRequest(customerID int64) (*bookAppointment.Request, error) {
	pointInTime, err := time.Parse(
		domain.DateFormat+" "+domain.TimeFormat,
		fmt.Sprintf("%s %s", r.Date, r.Time),
	)
	if err != nil {
		return nil, err
	}

	return &bookAppointment.Request{
		CustomerID:   customerID,
		BusinessID:   r.BusinessID,
		LocationHint: r.LocationHint,
		PointInTime:  pointInTime,
		Quantity:     r.Quantity,
		Notes:        r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:          resp.ID,
		CustomerID:  resp.CustomerID,
		BusinessID:  resp.BusinessID,
		LocationID:  resp.LocationID,
		IntervalID:  resp.IntervalID,
		BookingDate: resp.BookingDate.Format(domain.DateFormat),
		StartTime:   resp.StartTime.String(),
		EndTime:     resp.EndTime.String(),
		Quantity:    resp.Quantity,
		UnitPrice:   resp.UnitPrice,
		TotalPrice:  resp.TotalPrice,
		Status:      resp.Status,
		Notes:       resp.Notes,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
	}
}
