package reset_schedule_usage

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/service/schedule"
)

const (
	msgInvalidLocationID = "некорректный ID локации"
	msgNotFound          = "расписание для локации не найдено"
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

// Handle POST /api/v1/locations/{locationId}/schedule/reset-usage
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	locationID, err := strconv.ParseInt(vars["locationId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /locations/{id}/schedule/reset-usage - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	if err := h.service.ResetUsage(r.Context(), locationID); err != nil {
		switch {
		case errors.Is(err, schedule.ErrConfigNotFound):
			h.logger.Warn("POST /locations/{id}/schedule/reset-usage - Config not found: location_id=%d", locationID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("POST /locations/{id}/schedule/reset-usage - Failed to reset: location_id=%d, error=%v",
				locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /locations/{id}/schedule/reset-usage - Usage reset successfully: location_id=%d", locationID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
