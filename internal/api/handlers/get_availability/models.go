package get_availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	resolveAvailability "github.com/m04kA/SMC-ScheduleService/internal/usecase/resolve_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	BusinessID        int64   `json:"businessId"`
	LocationID        int64   `json:"locationId"`
	IntervalID        int64   `json:"intervalId"`
	StartTime         string  `json:"startTime"`
	EndTime           string  `json:"endTime"`
	UnitPrice         float64 `json:"unitPrice"`
	MaxCapacity       int     `json:"maxCapacity"`
	AvailableCapacity int     `json:"availableCapacity"`
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(businessID int64, dateStr, timeStr, locationHint string) (*resolveAvailability.Request, error) {
	pointInTime, err := time.Parse(
		domain.DateFormat+" "+domain.TimeFormat,
		fmt.Sprintf("%s %s", dateStr, timeStr),
	)
	if err != nil {
		return nil, err
	}

	req := &resolveAvailability.Request{
		BusinessID:  businessID,
		PointInTime: pointInTime,
	}
	if locationHint != "" {
		req.LocationHint = &locationHint
	}
	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *resolveAvailability.Response) *AvailabilityResponse {
	return &AvailabilityResponse{
		BusinessID:        resp.BusinessID,
		LocationID:        resp.LocationID,
		IntervalID:        resp.IntervalID,
		StartTime:         resp.StartTime.String(),
		EndTime:           resp.EndTime.String(),
		UnitPrice:         resp.UnitPrice,
		MaxCapacity:       resp.MaxCapacity,
		AvailableCapacity: resp.AvailableCapacity,
	}
}
