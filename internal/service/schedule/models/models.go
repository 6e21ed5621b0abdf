package models

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// SetConfigurationRequest запрос на создание/замену конфигурации локации
type SetConfigurationRequest struct {
	LocationID          int64
	StartTime           types.TimeString // Начало дневного окна, например "09:00"
	EndTime             types.TimeString // Конец дневного окна, например "17:00"
	SlotDurationMinutes int
	CapacityPerInterval int
	UnitPrice           float64
}

// IntervalResponse модель интервала в ответе
type IntervalResponse struct {
	ID           int64            `json:"id"`
	StartTime    types.TimeString `json:"startTime"`
	EndTime      types.TimeString `json:"endTime"`
	MaxCapacity  int              `json:"maxCapacity"`
	UsedCapacity int              `json:"usedCapacity"`
	UnitPrice    float64          `json:"unitPrice"`
}

// ConfigResponse модель конфигурации с производным агрегатом использования
type ConfigResponse struct {
	ID                  int64              `json:"id"`
	LocationID          int64              `json:"locationId"`
	StartTime           types.TimeString   `json:"startTime"`
	EndTime             types.TimeString   `json:"endTime"`
	SlotDurationMinutes int                `json:"slotDurationMinutes"`
	CapacityPerInterval int                `json:"capacityPerInterval"`
	UnitPrice           float64            `json:"unitPrice"`
	UsedSlots           int                `json:"usedSlots"` // Сумма used_capacity по интервалам, не отдельный счетчик
	LastResetAt         *time.Time         `json:"lastResetAt,omitempty"`
	Intervals           []IntervalResponse `json:"intervals"`
	CreatedAt           time.Time          `json:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt"`
}

// FromDomainConfig конвертирует доменную конфигурацию в ответ сервиса
func FromDomainConfig(config *domain.ScheduleConfig, intervals []*domain.Interval, usedSlots int) *ConfigResponse {
	resp := &ConfigResponse{
		ID:                  config.ID,
		LocationID:          config.LocationID,
		StartTime:           config.StartTime,
		EndTime:             config.EndTime,
		SlotDurationMinutes: config.SlotDurationMinutes,
		CapacityPerInterval: config.CapacityPerInterval,
		UnitPrice:           config.UnitPrice,
		UsedSlots:           usedSlots,
		LastResetAt:         config.LastResetAt,
		Intervals:           make([]IntervalResponse, 0, len(intervals)),
		CreatedAt:           config.CreatedAt,
		UpdatedAt:           config.UpdatedAt,
	}

	for _, interval := range intervals {
		resp.Intervals = append(resp.Intervals, IntervalResponse{
			ID:           interval.ID,
			StartTime:    interval.StartTime,
			EndTime:      interval.EndTime,
			MaxCapacity:  interval.MaxCapacity,
			UsedCapacity: interval.UsedCapacity,
			UnitPrice:    interval.UnitPrice,
		})
	}

	return resp
}
