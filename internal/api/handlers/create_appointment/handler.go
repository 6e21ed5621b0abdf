package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	bookAppointment "github.com/m04kA/SMC-ScheduleService/internal/usecase/book_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректные поля date/time, ожидается date=YYYY-MM-DD и time=HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgBusinessClosed     = "бизнес не работает в этот день"
	msgLocationNotFound   = "локация не найдена или подсказка неоднозначна"
	msgNotConfigured      = "расписание для локации не настроено"
	msgOutsideWindow      = "запрошенное время вне окна расписания"
	msgCapacityExceeded   = "недостаточно свободной емкости в интервале"
	msgInvalidInput       = "некорректные входные данные"
)

// capacityExceededResponse тело ответа 409 с остатком емкости,
// чтобы клиент мог повторить запрос с меньшим количеством
type capacityExceededResponse struct {
	Message           string `json:"message"`
	IntervalID        int64  `json:"intervalId"`
	Requested         int    `json:"requested"`
	AvailableCapacity int    `json:"availableCapacity"`
}

type Handler struct {
	useCase BookAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase BookAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(customerID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse date/time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var capErr *bookAppointment.CapacityExceededError
		switch {
		case errors.As(err, &capErr):
			h.logger.Warn("POST /appointments - Capacity exceeded: customer_id=%d, interval_id=%d, requested=%d, available=%d",
				customerID, capErr.IntervalID, capErr.Requested, capErr.Available)
			handlers.RespondJSON(w, http.StatusConflict, capacityExceededResponse{
				Message:           msgCapacityExceeded,
				IntervalID:        capErr.IntervalID,
				Requested:         capErr.Requested,
				AvailableCapacity: capErr.Available,
			})

		case errors.Is(err, bookAppointment.ErrCapacityExceeded):
			h.logger.Warn("POST /appointments - Capacity exceeded: customer_id=%d, business_id=%d",
				customerID, req.BusinessID)
			handlers.RespondConflict(w, msgCapacityExceeded)

		case errors.Is(err, bookAppointment.ErrBusinessClosed):
			h.logger.Warn("POST /appointments - Business closed: business_id=%d", req.BusinessID)
			handlers.RespondConflict(w, msgBusinessClosed)

		case errors.Is(err, bookAppointment.ErrLocationNotFound):
			h.logger.Warn("POST /appointments - Location not resolved: business_id=%d", req.BusinessID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, bookAppointment.ErrNotConfigured):
			h.logger.Warn("POST /appointments - Schedule not configured: business_id=%d", req.BusinessID)
			handlers.RespondNotFound(w, msgNotConfigured)

		case errors.Is(err, bookAppointment.ErrOutsideWindow):
			h.logger.Warn("POST /appointments - Outside schedule window: business_id=%d", req.BusinessID)
			handlers.RespondConflict(w, msgOutsideWindow)

		case errors.Is(err, bookAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: customer_id=%d, business_id=%d, error=%v",
				customerID, req.BusinessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, customer_id=%d, interval_id=%d",
		result.ID, customerID, result.IntervalID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
