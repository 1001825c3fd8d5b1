package dashboard

import (
	"net/http"

	"medication-manager/internal/domain/appointments"
	"medication-manager/internal/domain/medicines"
	"medication-manager/internal/domain/reminders"
	"medication-manager/internal/middleware"
	"medication-manager/internal/platform/web"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/dashboard", func(dr chi.Router) {
		dr.Use(middleware.RequireClaims)
		dr.Get("/", dashboardHandler(svc))
		dr.Get("/stats", statsHandler(svc))
	})
}

type StatsResponse struct {
	ActiveMedicines        int    `json:"active_medicines"`
	LowStockMedicines      int    `json:"low_stock_medicines"`
	TodaysTakenReminders   int    `json:"todays_taken_reminders"`
	TodaysPendingReminders int    `json:"todays_pending_reminders"`
	UpcomingReminders      int    `json:"upcoming_reminders"`
	UpcomingAppointments   int    `json:"upcoming_appointments"`
	TodaysDoseCompletion   string `json:"todays_dose_completion"`
}

type DashboardResponse struct {
	Stats             StatsResponse                     `json:"stats"`
	UpcomingReminders []reminders.ReminderResponse      `json:"upcoming_reminders"`
	NextAppointment   *appointments.AppointmentResponse `json:"next_appointment"`
	LowStockMedicines []medicines.MedicineResponse      `json:"low_stock_medicines"`
	OverdueReminders  []reminders.ReminderResponse      `json:"overdue_reminders"`
}

// dashboardHandler godoc
// @Summary Dashboard
// @Description Stats + hasta 5 recordatorios próximos, el próximo turno, stock bajo y vencidos.
// @Tags dashboard
// @Produce json
// @Success 200 {object} DashboardResponse
// @Failure 401 {string} string "unauthorized"
// @Router /dashboard [get]
func dashboardHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.Dashboard(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := DashboardResponse{
			Stats:             toStatsResponse(d.Stats),
			UpcomingReminders: reminders.ToResponses(d.UpcomingReminders, d.GeneratedAt),
			LowStockMedicines: medicines.ToResponses(d.LowStockMedicines),
			OverdueReminders:  reminders.ToResponses(d.OverdueReminders, d.GeneratedAt),
		}
		if d.NextAppointment != nil {
			a := appointments.ToResponse(*d.NextAppointment)
			resp.NextAppointment = &a
		}
		web.WriteJSON(w, http.StatusOK, resp)
	}
}

func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Stats(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		web.WriteJSON(w, http.StatusOK, toStatsResponse(st))
	}
}

func toStatsResponse(st Stats) StatsResponse {
	return StatsResponse{
		ActiveMedicines:        st.ActiveMedicines,
		LowStockMedicines:      st.LowStockMedicines,
		TodaysTakenReminders:   st.TodaysTakenReminders,
		TodaysPendingReminders: st.TodaysPendingReminders,
		UpcomingReminders:      st.UpcomingReminders,
		UpcomingAppointments:   st.UpcomingAppointments,
		TodaysDoseCompletion:   st.TodaysDoseCompletion,
	}
}
