package get_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	resolveAvailability "github.com/m04kA/SMC-ScheduleService/internal/usecase/resolve_availability"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidDateTime   = "некорректные параметры date/time, ожидается date=YYYY-MM-DD и time=HH:MM"
	msgBusinessClosed    = "бизнес не работает в этот день"
	msgLocationNotFound  = "локация не найдена или подсказка неоднозначна"
	msgNotConfigured     = "расписание для локации не настроено"
	msgOutsideWindow     = "запрошенное время вне окна расписания"
)

type Handler struct {
	useCase ResolveAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase ResolveAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/availability?date=YYYY-MM-DD&time=HH:MM&location=hint
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/availability - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	query := r.URL.Query()
	useCaseReq, err := ToUseCaseRequest(businessID, query.Get("date"), query.Get("time"), query.Get("location"))
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/availability - Failed to parse date/time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, resolveAvailability.ErrClosed):
			h.logger.Info("GET /businesses/{id}/availability - Business closed: business_id=%d", businessID)
			handlers.RespondError(w, http.StatusConflict, msgBusinessClosed)

		case errors.Is(err, resolveAvailability.ErrLocationNotFound):
			h.logger.Warn("GET /businesses/{id}/availability - Location not resolved: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, resolveAvailability.ErrNotConfigured):
			h.logger.Warn("GET /businesses/{id}/availability - Schedule not configured: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgNotConfigured)

		case errors.Is(err, resolveAvailability.ErrOutsideWindow):
			h.logger.Info("GET /businesses/{id}/availability - Outside schedule window: business_id=%d", businessID)
			handlers.RespondError(w, http.StatusConflict, msgOutsideWindow)

		case errors.Is(err, resolveAvailability.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDateTime)

		default:
			h.logger.Error("GET /businesses/{id}/availability - Failed to resolve: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/availability - Resolved: business_id=%d, interval_id=%d, available=%d",
		businessID, result.IntervalID, result.AvailableCapacity)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
