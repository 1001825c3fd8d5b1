package reminders

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"medication-manager/internal/domain/medicines"
	"medication-manager/internal/middleware"
	"medication-manager/internal/platform/web"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/reminders", func(rr chi.Router) {
		rr.Use(middleware.RequireClaims)

		rr.Post("/", createReminderHandler(svc))
		rr.Get("/", listRemindersHandler(svc))

		// Vistas por tiempo
		rr.Get("/overdue", overdueHandler(svc))
		rr.Get("/upcoming", upcomingHandler(svc))
		rr.Get("/pending", pendingHandler(svc))
		rr.Get("/stats", statsHandler(svc))

		rr.Get("/{reminderID}", getReminderHandler(svc))
		rr.Patch("/{reminderID}", updateReminderHandler(svc))
		rr.Delete("/{reminderID}", deleteReminderHandler(svc))
		rr.Post("/{reminderID}/taken", markTakenHandler(svc))
	})
}

type createReminderRequest struct {
	MedicineID   int64     `json:"medicine_id"`
	ReminderTime time.Time `json:"reminder_time"` // RFC3339
	Active       *bool     `json:"active"`        // default true
}

type updateReminderRequest struct {
	ReminderTime *time.Time `json:"reminder_time"`
	Taken        *bool      `json:"taken"`
	Active       *bool      `json:"active"`
}

type ReminderResponse struct {
	ID           int64                      `json:"id"`
	Medicine     medicines.MedicineResponse `json:"medicine"`
	ReminderTime time.Time                  `json:"reminder_time"`
	Taken        bool                       `json:"taken"`
	Active       bool                       `json:"active"`
	TakenAt      *time.Time                 `json:"taken_at,omitempty"`
	Status       Status                     `json:"status"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

type StatsResponse struct {
	TodaysTakenReminders   int    `json:"todays_taken_reminders"`
	TodaysPendingReminders int    `json:"todays_pending_reminders"`
	UpcomingReminders      int    `json:"upcoming_reminders"`
	TodaysDoseCompletion   string `json:"todays_dose_completion"`
}

// createReminderHandler godoc
// @Summary Crear recordatorio
// @Description Copia el medicamento indicado dentro del recordatorio; cambios posteriores al medicamento no se propagan.
// @Tags reminders
// @Accept json
// @Produce json
// @Param payload body createReminderRequest true "Medicamento y horario"
// @Success 201 {object} ReminderResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medicine not found"
// @Router /reminders [post]
func createReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createReminderRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.MedicineID <= 0 {
			http.Error(w, "medicine_id is required", http.StatusBadRequest)
			return
		}

		active := true
		if req.Active != nil {
			active = *req.Active
		}

		rem, err := svc.CreateForMedicine(r.Context(), req.MedicineID, req.ReminderTime, active)
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusCreated, toResponse(rem, svc.now()))
	}
}

// listRemindersHandler godoc
// @Summary Listar recordatorios
// @Description Incluye el estado derivado (upcoming, taken, missed, pending). Con medicine_id filtra por medicamento.
// @Tags reminders
// @Produce json
// @Param medicine_id query int false "ID del medicamento"
// @Success 200 {array} ReminderResponse
// @Failure 401 {string} string "unauthorized"
// @Router /reminders [get]
func listRemindersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.URL.Query().Get("medicine_id"))
		if raw == "" {
			views, err := svc.Views(r.Context())
			if err != nil {
				writeError(w, err)
				return
			}
			web.WriteJSON(w, http.StatusOK, viewResponses(views))
			return
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid medicine_id", http.StatusBadRequest)
			return
		}
		items, err := svc.ByMedicine(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, viewResponses(svc.ViewsOf(items)))
	}
}

func overdueHandler(svc *Service) http.HandlerFunc {
	return listWith(svc, svc.Overdue)
}

func pendingHandler(svc *Service) http.HandlerFunc {
	return listWith(svc, svc.Pending)
}

// upcomingHandler godoc
// @Summary Recordatorios próximos
// @Tags reminders
// @Produce json
// @Param hours query number false "Ventana en horas (default 4)"
// @Success 200 {array} ReminderResponse
// @Failure 400 {string} string "invalid hours"
// @Router /reminders/upcoming [get]
func upcomingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hours := float64(DefaultUpcomingHours)
		if raw := strings.TrimSpace(r.URL.Query().Get("hours")); raw != "" {
			h, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				http.Error(w, "invalid hours", http.StatusBadRequest)
				return
			}
			hours = h
		}

		items, err := svc.UpcomingWithin(r.Context(), hours)
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, viewResponses(svc.ViewsOf(items)))
	}
}

func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.StatsForToday(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, StatsResponse{
			TodaysTakenReminders:   st.TodaysTaken,
			TodaysPendingReminders: st.TodaysPending,
			UpcomingReminders:      st.Upcoming,
			TodaysDoseCompletion:   st.Completion,
		})
	}
}

func getReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := web.PathInt64(r, "reminderID")
		if err != nil {
			http.Error(w, "reminder not found", http.StatusNotFound)
			return
		}
		rem, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(rem, svc.now()))
	}
}

func updateReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := web.PathInt64(r, "reminderID")
		if err != nil {
			http.Error(w, "reminder not found", http.StatusNotFound)
			return
		}

		var req updateReminderRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rem, err := svc.Update(r.Context(), id, Patch{
			ReminderTime: req.ReminderTime,
			Taken:        req.Taken,
			Active:       req.Active,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(rem, svc.now()))
	}
}

func deleteReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := web.PathInt64(r, "reminderID")
		if err != nil {
			http.Error(w, "reminder not found", http.StatusNotFound)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// markTakenHandler godoc
// @Summary Marcar recordatorio como tomado
// @Description Idempotente; cada llamada vuelve a estampar taken_at.
// @Tags reminders
// @Produce json
// @Param reminderID path int true "ID del recordatorio"
// @Success 200 {object} ReminderResponse
// @Failure 404 {string} string "reminder not found"
// @Router /reminders/{reminderID}/taken [post]
func markTakenHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := web.PathInt64(r, "reminderID")
		if err != nil {
			http.Error(w, "reminder not found", http.StatusNotFound)
			return
		}
		rem, err := svc.MarkTaken(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(rem, svc.now()))
	}
}

func listWith(svc *Service, fn func(ctx context.Context) ([]Reminder, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := fn(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, viewResponses(svc.ViewsOf(items)))
	}
}

func toResponse(r Reminder, now time.Time) ReminderResponse {
	return ViewResponse(View{Reminder: r, Status: r.StatusAt(now)})
}

// ViewResponse se exporta para el dashboard.
func ViewResponse(v View) ReminderResponse {
	return ReminderResponse{
		ID:           v.ID,
		Medicine:     medicines.ToResponse(v.Medicine),
		ReminderTime: v.ReminderTime,
		Taken:        v.Taken,
		Active:       v.Active,
		TakenAt:      v.TakenAt,
		Status:       v.Status,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func viewResponses(items []View) []ReminderResponse {
	out := make([]ReminderResponse, 0, len(items))
	for _, v := range items {
		out = append(out, ViewResponse(v))
	}
	return out
}

// ToResponses arma las respuestas con el estado calculado en now.
func ToResponses(items []Reminder, now time.Time) []ReminderResponse {
	out := make([]ReminderResponse, 0, len(items))
	for _, r := range items {
		out = append(out, toResponse(r, now))
	}
	return out
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "reminder not found", http.StatusNotFound)
	case errors.Is(err, medicines.ErrNotFound):
		http.Error(w, "medicine not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
