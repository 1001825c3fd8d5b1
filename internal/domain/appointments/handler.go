package appointments

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"medication-manager/internal/middleware"
	"medication-manager/internal/platform/web"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Use(middleware.RequireClaims)

		ar.Post("/", createAppointmentHandler(svc))
		ar.Get("/", listAppointmentsHandler(svc))

		ar.Get("/upcoming", upcomingAppointmentsHandler(svc))
		ar.Get("/past", pastAppointmentsHandler(svc))
		ar.Get("/next", nextAppointmentHandler(svc))

		ar.Get("/{appointmentID}", getAppointmentHandler(svc))
		ar.Patch("/{appointmentID}", updateAppointmentHandler(svc))
		ar.Delete("/{appointmentID}", deleteAppointmentHandler(svc))

		ar.Post("/{appointmentID}/complete", completeAppointmentHandler(svc))
		ar.Post("/{appointmentID}/cancel", cancelAppointmentHandler(svc))
	})
}

type createAppointmentRequest struct {
	DoctorName string `json:"doctor_name"`
	Specialty  string `json:"specialty"`
	Date       string `json:"date"` // YYYY-MM-DD
	Time       string `json:"time"` // HH:MM
	Location   string `json:"location"`
	Phone      string `json:"phone"`
	Reason     string `json:"reason"`
	Status     Status `json:"status" enums:"UPCOMING,COMPLETED,CANCELLED"` // opcional
}

type updateAppointmentRequest struct {
	DoctorName *string `json:"doctor_name"`
	Specialty  *string `json:"specialty"`
	Date       *string `json:"date"`
	Time       *string `json:"time"`
	Location   *string `json:"location"`
	Phone      *string `json:"phone"`
	Reason     *string `json:"reason"`
	Status     *Status `json:"status"`
}

// AppointmentResponse es la forma pública de un turno.
type AppointmentResponse struct {
	ID         int64     `json:"id"`
	DoctorName string    `json:"doctor_name"`
	Specialty  string    `json:"specialty"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	Location   string    `json:"location"`
	Phone      string    `json:"phone"`
	Reason     string    `json:"reason"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// createAppointmentHandler godoc
// @Summary Crear turno médico
// @Description Crea un turno. Si no se envía status, queda UPCOMING.
// @Tags appointments
// @Accept json
// @Produce json
// @Param payload body createAppointmentRequest true "Datos del turno; date en formato YYYY-MM-DD"
// @Success 201 {object} AppointmentResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 401 {string} string "unauthorized"
// @Router /appointments [post]
func createAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAppointmentRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), CreateInput{
			DoctorName: req.DoctorName,
			Specialty:  req.Specialty,
			Date:       req.Date,
			Time:       req.Time,
			Location:   req.Location,
			Phone:      req.Phone,
			Reason:     req.Reason,
			Status:     Status(strings.ToUpper(strings.TrimSpace(string(req.Status)))),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusCreated, ToResponse(a))
	}
}

// listAppointmentsHandler godoc
// @Summary Listar turnos
// @Description Lista todos los turnos en orden de alta. Filtros opcionales por status o por nombre de médico.
// @Tags appointments
// @Produce json
// @Param status query string false "UPCOMING | COMPLETED | CANCELLED"
// @Param doctor query string false "Texto a buscar en el nombre del médico"
// @Success 200 {array} AppointmentResponse
// @Failure 400 {string} string "invalid status"
// @Failure 401 {string} string "unauthorized"
// @Router /appointments [get]
func listAppointmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			items []Appointment
			err   error
		)

		status := Status(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))))
		doctor := strings.TrimSpace(r.URL.Query().Get("doctor"))

		switch {
		case status != "":
			if !status.Valid() {
				http.Error(w, "invalid status", http.StatusBadRequest)
				return
			}
			items, err = svc.ByStatus(r.Context(), status)
		case doctor != "":
			items, err = svc.SearchByDoctor(r.Context(), doctor)
		default:
			items, err = svc.List(r.Context())
		}
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, ToResponses(items))
	}
}

func upcomingAppointmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Upcoming(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, ToResponses(items))
	}
}

func pastAppointmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Past(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, ToResponses(items))
	}
}

func nextAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok, err := svc.NextUpcoming(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if !ok {
			http.Error(w, "no upcoming appointments", http.StatusNotFound)
			return
		}
		web.WriteJSON(w, http.StatusOK, ToResponse(a))
	}
}

func getAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := web.PathInt64(r, "appointmentID")
		if err != nil {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		a, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, ToResponse(a))
	}
}

func updateAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := web.PathInt64(r, "appointmentID")
		if err != nil {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}

		var req updateAppointmentRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Status != nil {
			st := Status(strings.ToUpper(strings.TrimSpace(string(*req.Status))))
			req.Status = &st
		}

		a, err := svc.Update(r.Context(), id, Patch{
			DoctorName: req.DoctorName,
			Specialty:  req.Specialty,
			Date:       req.Date,
			Time:       req.Time,
			Location:   req.Location,
			Phone:      req.Phone,
			Reason:     req.Reason,
			Status:     req.Status,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, ToResponse(a))
	}
}

func deleteAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := web.PathInt64(r, "appointmentID")
		if err != nil {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func completeAppointmentHandler(svc *Service) http.HandlerFunc {
	return transitionHandler(svc.Complete)
}

func cancelAppointmentHandler(svc *Service) http.HandlerFunc {
	return transitionHandler(svc.Cancel)
}

// transitionHandler cubre complete/cancel, que solo difieren en el status.
func transitionHandler(fn func(ctx context.Context, id int64) (Appointment, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := web.PathInt64(r, "appointmentID")
		if err != nil {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		a, err := fn(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, ToResponse(a))
	}
}

func ToResponse(a Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:         a.ID,
		DoctorName: a.DoctorName,
		Specialty:  a.Specialty,
		Date:       a.Date,
		Time:       a.Time,
		Location:   a.Location,
		Phone:      a.Phone,
		Reason:     a.Reason,
		Status:     a.Status,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func ToResponses(items []Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, ToResponse(a))
	}
	return out
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "appointment not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
