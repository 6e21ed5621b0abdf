package update_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/service/schedule"
)

const (
	msgInvalidLocationID  = "некорректный ID локации"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgLocationNotFound   = "локация не найдена"
	msgInvalidWindow      = "некорректное дневное окно расписания"
	msgIntervalsInUse     = "нельзя перегенерировать расписание: есть интервалы с активными резервами"
	msgInvalidInput       = "некорректные параметры конфигурации"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/locations/{locationId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	locationID, err := strconv.ParseInt(vars["locationId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /locations/{id}/schedule - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	var req UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /locations/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(locationID)
	if err != nil {
		h.logger.Warn("PUT /locations/{id}/schedule - Failed to parse time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	config, err := h.service.SetConfiguration(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrLocationNotFound):
			h.logger.Warn("PUT /locations/{id}/schedule - Location not found: location_id=%d", locationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, schedule.ErrIntervalsInUse):
			h.logger.Warn("PUT /locations/{id}/schedule - Intervals in use: location_id=%d", locationID)
			handlers.RespondConflict(w, msgIntervalsInUse)

		case errors.Is(err, schedule.ErrInvalidWindow):
			h.logger.Warn("PUT /locations/{id}/schedule - Invalid window: location_id=%d, error=%v", locationID, err)
			handlers.RespondBadRequest(w, msgInvalidWindow)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /locations/{id}/schedule - Invalid input: location_id=%d, error=%v", locationID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /locations/{id}/schedule - Failed to set config: location_id=%d, error=%v",
				locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /locations/{id}/schedule - Config updated successfully: location_id=%d, intervals=%d",
		locationID, len(config.Intervals))
	handlers.RespondJSON(w, http.StatusOK, config)
}
