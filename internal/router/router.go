package router

import (
	"net/http"
	"time"

	_ "medication-manager/docs" // registra el documento swagger

	"medication-manager/internal/adapters/storage/collection"
	mem "medication-manager/internal/adapters/storage/memory"
	"medication-manager/internal/domain/accounts"
	"medication-manager/internal/domain/appointments"
	"medication-manager/internal/domain/dashboard"
	"medication-manager/internal/domain/medicines"
	"medication-manager/internal/domain/reminders"
	"medication-manager/internal/domain/reports"
	"medication-manager/internal/middleware"
	"medication-manager/internal/platform/logger"
	"medication-manager/internal/platform/metrics"
	"medication-manager/internal/ports/auth"
	"medication-manager/internal/ports/blob"
	"medication-manager/internal/ports/storage"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier    // puede ser nil (modo dev)
	Tokens       accounts.TokenIssuer // nil: login/register sin token

	// Opcional: si no viene, sustrato in-memory.
	KV storage.KV
	// Opcional: nil guarda los reportes inline (data URI).
	Blob blob.Store

	Logger   logger.Logger
	Location *time.Location // "hoy" para stats de recordatorios

	// Opcional: servicios ya armados (main los comparte con el sweeper).
	Services *Services
}

// Services agrupa los servicios de dominio sobre un mismo sustrato.
type Services struct {
	Medicines    *medicines.Service
	Appointments *appointments.Service
	Reminders    *reminders.Service
	Accounts     *accounts.Service
	Dashboard    *dashboard.Service
	Reports      *reports.Service
}

// NewServices arma colecciones y servicios. Todas las escrituras pasan por
// el KV instrumentado.
func NewServices(opts Options) *Services {
	kv := opts.KV
	if kv == nil {
		kv = mem.NewKV()
	}
	kv = metrics.InstrumentKV(kv)

	medRepo := collection.New[int64, medicines.Medicine](kv, medicines.DataKey, medicines.CounterKey, medicines.Medicine.Key)
	apptRepo := collection.New[int64, appointments.Appointment](kv, appointments.DataKey, appointments.CounterKey, appointments.Appointment.Key)
	remRepo := collection.New[int64, reminders.Reminder](kv, reminders.DataKey, reminders.CounterKey, reminders.Reminder.Key)
	userRepo := collection.New[string, accounts.RegisteredUser](kv, accounts.RegistryKey, "", accounts.RegisteredUser.Key)
	session := collection.NewCell[accounts.Account](kv, accounts.SessionKey)
	reportRepo := collection.New[string, reports.Report](kv, reports.DataKey, "", reports.Report.Key)

	medsSvc := medicines.NewService(medRepo)
	apptSvc := appointments.NewService(apptRepo)
	remSvc := reminders.NewService(remRepo, medsSvc)
	if opts.Location != nil {
		remSvc = remSvc.WithLocation(opts.Location)
	}

	return &Services{
		Medicines:    medsSvc,
		Appointments: apptSvc,
		Reminders:    remSvc,
		Accounts:     accounts.NewService(userRepo, session, opts.Tokens),
		Dashboard:    dashboard.NewService(medsSvc, apptSvc, remSvc),
		Reports:      reports.NewService(reportRepo, opts.Blob),
	}
}

func NewRouter(opts Options) http.Handler {
	svcs := opts.Services
	if svcs == nil {
		svcs = NewServices(opts)
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLog(opts.Logger))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Rutas por módulo
	accounts.RegisterRoutes(r, svcs.Accounts)
	medicines.RegisterRoutes(r, svcs.Medicines)
	appointments.RegisterRoutes(r, svcs.Appointments)
	reminders.RegisterRoutes(r, svcs.Reminders)
	dashboard.RegisterRoutes(r, svcs.Dashboard)
	reports.RegisterRoutes(r, svcs.Reports)

	return r
}
