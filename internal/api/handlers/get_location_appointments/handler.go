package get_location_appointments

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	appointmentsService "github.com/m04kA/SMC-ScheduleService/internal/service/appointments"
	"github.com/m04kA/SMC-ScheduleService/internal/service/appointments/models"
)

const (
	msgInvalidLocationID = "некорректный ID локации"
	msgInvalidStatus     = "некорректный статус записи"
	msgInvalidDate       = "некорректные поля from/to, ожидается YYYY-MM-DD"
)

// AppointmentsListResponse HTTP response model
type AppointmentsListResponse struct {
	Appointments []*models.AppointmentResponse `json:"appointments"`
	Total        int                           `json:"total"`
}

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/locations/{locationId}/appointments?from=2026-09-01&to=2026-09-30&status=pending&includeFinal=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	locationID, err := strconv.ParseInt(vars["locationId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /locations/{id}/appointments - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	filter := domain.LocationAppointmentsFilter{LocationID: locationID}

	query := r.URL.Query()
	if raw := query.Get("from"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /locations/{id}/appointments - Invalid from date: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		filter.StartDate = &parsed
	}
	if raw := query.Get("to"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /locations/{id}/appointments - Invalid to date: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		filter.EndDate = &parsed
	}
	if raw := query.Get("status"); raw != "" {
		parsed, ok := domain.ParseAppointmentStatus(raw)
		if !ok {
			h.logger.Warn("GET /locations/{id}/appointments - Invalid status: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		filter.Status = &parsed
	}
	filter.IncludeFinal = query.Get("includeFinal") == "true"

	appointments, err := h.service.GetByLocation(r.Context(), filter)
	if err != nil {
		if errors.Is(err, appointmentsService.ErrInvalidInput) {
			h.logger.Warn("GET /locations/{id}/appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidLocationID)
			return
		}
		h.logger.Error("GET /locations/{id}/appointments - Failed to get appointments: location_id=%d, error=%v",
			locationID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /locations/{id}/appointments - Retrieved %d appointments: location_id=%d",
		len(appointments), locationID)
	handlers.RespondJSON(w, http.StatusOK, AppointmentsListResponse{
		Appointments: appointments,
		Total:        len(appointments),
	})
}
