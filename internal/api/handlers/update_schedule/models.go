package update_schedule

import (
	"github.com/m04kA/SMC-ScheduleService/internal/service/schedule/models"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// UpdateScheduleRequest HTTP request model
type UpdateScheduleRequest struct {
	StartTime           string  `json:"startTime"` // "09:00"
	EndTime             string  `json:"endTime"`   // "17:00"
	SlotDurationMinutes int     `json:"slotDurationMinutes"`
	CapacityPerInterval int     `json:"capacityPerInterval"`
	UnitPrice           float64 `json:"unitPrice"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса (с парсингом времени)
func (r *UpdateScheduleRequest) ToServiceRequest(locationID int64) (*models.SetConfigurationRequest, error) {
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &models.SetConfigurationRequest{
		LocationID:          locationID,
		StartTime:           startTime,
		EndTime:             endTime,
		SlotDurationMinutes: r.SlotDurationMinutes,
		CapacityPerInterval: r.CapacityPerInterval,
		UnitPrice:           r.UnitPrice,
	}, nil
}
